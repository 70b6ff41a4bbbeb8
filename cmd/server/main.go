package main

import (
	"log"
	"net/http"
	"os"

	"dungeon-depths/internal/config"
	"dungeon-depths/internal/db"
	"dungeon-depths/internal/server"

	"gorm.io/gorm"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()
	if cfg.AuthSecret == "" {
		log.Fatal("AUTH_JWT_SECRET is not set")
	}

	var conn *gorm.DB
	if os.Getenv("DATABASE_URL") != "" {
		var err error
		conn, err = db.Open(cfg)
		if err != nil {
			log.Fatalf("database connection failed: %v", err)
		}
		if err := db.Migrate(conn); err != nil {
			log.Fatalf("database migration failed: %v", err)
		}
	} else {
		log.Println("DATABASE_URL is not set; using in-memory stores")
	}

	srv := server.New(conn, cfg)
	addr := ":" + cfg.Port
	log.Printf("dungeon-depths server listening on %s", addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		log.Fatal(err)
	}
}
