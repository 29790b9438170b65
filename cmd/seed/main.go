package main

import (
	"encoding/json"
	"log"
	"os"

	"meal-subscription-be/internal/model"
	"meal-subscription-be/pkg/database"

	"github.com/joho/godotenv"
	"gorm.io/datatypes"
)

type planSeed struct {
	Name        string
	Duration    string
	Price       float64
	Features    []string
	Description string
}

var plans = []planSeed{
	{"Basic", "monthly", 3000, []string{"Lunch and dinner", "Standard menu", "Free delivery"}, "Everyday home-style meals."},
	{"Basic", "yearly", 30000, []string{"Lunch and dinner", "Standard menu", "Free delivery", "Two months free"}, "Everyday home-style meals, billed yearly."},
	{"Premium", "monthly", 4500, []string{"Lunch and dinner", "Rotating chef menu", "Weekend desserts"}, "A wider menu with weekend treats."},
	{"Premium", "yearly", 45000, []string{"Lunch and dinner", "Rotating chef menu", "Weekend desserts", "Two months free"}, "A wider menu with weekend treats, billed yearly."},
	{"Exotic", "monthly", 6500, []string{"Lunch and dinner", "International cuisine", "Priority delivery"}, "Regional and international specials."},
	{"Exotic", "yearly", 65000, []string{"Lunch and dinner", "International cuisine", "Priority delivery", "Two months free"}, "Regional and international specials, billed yearly."},
}

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Seeding Plan Catalog...")

	for _, p := range plans {
		var existing model.Plan
		if err := db.Where("name = ? AND duration = ?", p.Name, p.Duration).First(&existing).Error; err == nil {
			log.Printf("Plan '%s/%s' already exists, skipping...", p.Name, p.Duration)
			continue
		}

		features, err := json.Marshal(p.Features)
		if err != nil {
			log.Fatalf("Error encoding features for '%s': %v", p.Name, err)
		}

		row := model.Plan{
			Name:        p.Name,
			Duration:    p.Duration,
			Price:       p.Price,
			Features:    datatypes.JSON(features),
			Description: p.Description,
		}
		if err := db.Create(&row).Error; err != nil {
			log.Printf("Error creating plan '%s/%s': %v", p.Name, p.Duration, err)
		} else {
			log.Printf("Created plan: %s/%s (%.0f)", p.Name, p.Duration, p.Price)
		}
	}

	log.Println("Plan seeding completed!")
}
