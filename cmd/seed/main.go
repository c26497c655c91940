package main

import (
	"encoding/json"
	"log"
	"os"

	"cooksession-be/internal/model"
	"cooksession-be/pkg/cooking/pantry"
	"cooksession-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/datatypes"
)

// Seeds a demo household with one recipe and a matching pantry so a
// fresh environment can start a cooking session immediately.
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

	householdId := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	if env := os.Getenv("SEED_HOUSEHOLD_ID"); env != "" {
		householdId = uuid.MustParse(env)
	}

	log.Println("Seeding demo recipe...")

	simmer := 20
	boil := 10
	steps := mustJSON([]map[string]interface{}{
		{"title": "Prep", "bullets": []string{"Dice the onion", "Mince the garlic", "Chop the tomatoes"}},
		{"title": "Build the sauce", "bullets": []string{"Sweat onion and garlic", "Add tomatoes and basil"}, "minutes_est": simmer},
		{"title": "Cook the pasta", "bullets": []string{"Salt the water", "Boil until al dente"}, "minutes_est": boil},
		{"title": "Combine and serve", "bullets": []string{"Toss pasta through the sauce", "Finish with parmesan"}},
	})
	ingredients := mustJSON([]map[string]interface{}{
		{"name": "Spaghetti", "qty": 400, "unit": "g"},
		{"name": "Canned Tomatoes", "qty": 2, "unit": "can"},
		{"name": "Onion", "qty": 1, "unit": "pc"},
		{"name": "Garlic", "qty": 3, "unit": "clove"},
		{"name": "Parmesan", "qty": 50, "unit": "g"},
	})

	recipe := model.Recipe{
		HouseholdId: householdId,
		Title:       "Weeknight Tomato Spaghetti",
		Servings:    4,
		Steps:       steps,
		Ingredients: ingredients,
	}

	var existing model.Recipe
	if err := db.Where("household_id = ? AND title = ?", householdId, recipe.Title).First(&existing).Error; err == nil {
		log.Printf("Recipe '%s' already exists, skipping...", recipe.Title)
	} else if err := db.Create(&recipe).Error; err != nil {
		log.Printf("Error creating recipe '%s': %v", recipe.Title, err)
	} else {
		log.Printf("Created recipe: %s (%s)", recipe.Title, recipe.Id)
	}

	log.Println("Seeding pantry items...")

	items := []model.PantryItem{
		{Name: "Spaghetti", Qty: 1000, Unit: "g"},
		{Name: "Canned Tomatoes", Qty: 4, Unit: "can"},
		{Name: "Onion", Qty: 6, Unit: "pc"},
		{Name: "Garlic", Qty: 12, Unit: "clove"},
		{Name: "Parmesan", Qty: 200, Unit: "g"},
	}

	for _, item := range items {
		item.HouseholdId = householdId
		item.NormalizedName = pantry.NormalizeName(item.Name)

		var found model.PantryItem
		if err := db.Where("household_id = ? AND normalized_name = ?", householdId, item.NormalizedName).First(&found).Error; err == nil {
			log.Printf("Pantry item '%s' already exists, skipping...", item.Name)
			continue
		}

		if err := db.Create(&item).Error; err != nil {
			log.Printf("Error creating pantry item '%s': %v", item.Name, err)
		} else {
			log.Printf("Created pantry item: %s (%.0f %s)", item.Name, item.Qty, item.Unit)
		}
	}

	log.Println("Seeding completed!")
}

func mustJSON(v interface{}) datatypes.JSON {
	raw, err := json.Marshal(v)
	if err != nil {
		log.Fatalf("Error: failed to marshal seed payload: %v", err)
	}
	return datatypes.JSON(raw)
}
