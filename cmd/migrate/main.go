package main

import (
	"log"
	"os"

	"cooksession-be/internal/model"
	"cooksession-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting Authoritative GORM Migration...")

	// 3. Pre-Migration: extensions GORM AutoMigrate doesn't handle
	log.Println("Step 1: Setting up Extensions...")

	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models (The Core Task)
	log.Println("Step 2: Running AutoMigrate...")

	models := []interface{}{
		&model.Recipe{},
		&model.CookSession{},
		&model.CookEvent{},
		&model.CookAdjustment{},
		&model.PantryItem{},
		&model.PantryTransaction{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Constraints AutoMigrate can't express
	log.Println("Step 3: Enforcing partial unique indexes...")

	// One active session per household; concurrent starts converge on the
	// row that won.
	activeIdx := `CREATE UNIQUE INDEX IF NOT EXISTS idx_cook_sessions_one_active
		ON cook_sessions (household_id) WHERE status = 'active';`
	if err := db.Exec(activeIdx).Error; err != nil {
		log.Fatalf("Error: Failed to create active-session index: %v", err)
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
