package main

import (
	"log"
	"os"

	"meal-subscription-be/internal/model"
	"meal-subscription-be/pkg/database"

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

	log.Println("Starting GORM Migration...")

	// gen_random_uuid() needs pgcrypto on Postgres < 13.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Printf("Warn: Failed to create pgcrypto extension: %v. Continuing...", err)
	}

	models := []interface{}{
		&model.User{},
		&model.Plan{},
		&model.Subscription{},
		&model.Order{},
		&model.PaymentRecord{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	postMigrationSQL := []string{
		// Orders are looked up by the payment that created them.
		`CREATE INDEX IF NOT EXISTS idx_orders_payment_id ON orders (payment_id);`,

		// View: user_payment_history
		`CREATE OR REPLACE VIEW user_payment_history AS
		 SELECT pr.user_id, u.name AS user_name, p.name AS plan_name, pr.purpose, pr.amount, pr.payment_id, pr.created_at AS payment_date
		 FROM payment_records pr
		 JOIN users u ON pr.user_id = u.id
		 JOIN subscriptions s ON pr.subscription_id = s.id
		 JOIN plans p ON s.plan_id = p.id
		 ORDER BY pr.created_at DESC;`,
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
