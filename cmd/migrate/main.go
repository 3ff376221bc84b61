package main

import (
	"log"

	"notebooklm-be/internal/config"
	"notebooklm-be/internal/migration"
	"notebooklm-be/pkg/database"
)

func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.App.Environment == "production")
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	if err := migration.Run(db); err != nil {
		log.Fatal("Error: Migration failed:", err)
	}
}
