package db

import (
	"database/sql"
	"log"

	"gratitude/internal/config"
)

// InitDB opens the configured backend and makes sure the schema exists.
// Startup problems are fatal; there is nothing to serve without a database.
func InitDB(cfg *config.Config) *sql.DB {
	var (
		db  *sql.DB
		err error
	)

	switch cfg.DBDriver {
	case "mysql":
		db, err = openMySQL(cfg)
	default:
		db, err = openSQLite(cfg.DBPath)
	}
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	for _, stmt := range schema(cfg.DBDriver) {
		if _, err := db.Exec(stmt); err != nil {
			log.Fatalf("Error creating schema: %v", err)
		}
	}

	return db
}

func schema(driver string) []string {
	if driver == "mysql" {
		return []string{createUsersTableMySQL, createNotesTableMySQL}
	}
	return []string{createUsersTableSQLite, createNotesTableSQLite}
}
