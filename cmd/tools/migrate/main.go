package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"pierres.shop/app/internal/config"
	"pierres.shop/app/internal/database"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(nil)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}

	fmt.Println("✓ categories, products, users, email_verifications migrated")
}
