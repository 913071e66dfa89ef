package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver string
	DBPath   string

	DBUser     string
	DBPassword string
	DBHost     string
	DBName     string

	JWTSecret string
	Port      string

	// Local-variant storage and the server the CLI talks to in remote mode.
	NotesFile string
	ServerURL string
}

func LoadConfig() *Config {
	// Missing .env is fine; real env vars win either way.
	_ = godotenv.Load()

	driver := os.Getenv("DB_DRIVER")
	if driver == "" {
		driver = "sqlite3"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "gratitude.db"
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	serverURL := os.Getenv("GRATITUDE_SERVER")
	if serverURL == "" {
		serverURL = "http://localhost:8080"
	}

	notesFile := os.Getenv("GRATITUDE_NOTES_FILE")
	if notesFile == "" {
		if home, err := os.UserHomeDir(); err == nil {
			notesFile = filepath.Join(home, ".gratitude", "notes.json")
		} else {
			notesFile = "notes.json"
		}
	}

	return &Config{
		DBDriver:   driver,
		DBPath:     dbPath,
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBHost:     os.Getenv("DB_HOST"),
		DBName:     os.Getenv("DB_NAME"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		Port:       port,
		NotesFile:  notesFile,
		ServerURL:  serverURL,
	}
}
