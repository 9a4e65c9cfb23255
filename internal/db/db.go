// internal/db/db.go
package db

import (
	"database/sql"
	"log"

	_ "github.com/lib/pq"

	"github.com/unclebandit/recruitflow-backend/internal/config"
)

var DB *sql.DB

func Init(cfg config.DatabaseConfig) {
	log.Println("DB_USER:", cfg.User)
	log.Println("DB_NAME:", cfg.Name)
	log.Println("DB_HOST:", cfg.Host)

	var err error
	DB, err = sql.Open("postgres", cfg.DSN())
	if err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}

	if err = DB.Ping(); err != nil {
		log.Fatalf("failed to ping DB: %v", err)
	}

	log.Println("✅ Connected to database")
}
