package main

import (
	"log"
	"net/http"

	"gratitude/internal/auth"
	"gratitude/internal/config"
	"gratitude/internal/db"
	"gratitude/internal/handlers"
)

func main() {
	cfg := config.LoadConfig()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	dbConn := db.InitDB(cfg)
	defer dbConn.Close()

	jwtService := auth.NewJWTService(cfg.JWTSecret)

	r := handlers.Router(dbConn, jwtService)

	log.Printf("Starting server on port %s...", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal(err)
	}
}
