package db

import (
	"log"
	"os"

	"clanboard/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=clanboard port=5432 sslmode=disable"
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	// Migration can be disabled where the schema is managed externally;
	// the readiness probe then decides whether the engine may query at all.
	if os.Getenv("AUTO_MIGRATE") != "false" {
		err = DB.AutoMigrate(
			&models.User{},
			&models.Category{},
			&models.Post{},
			&models.Comment{},
			&models.Vote{},
			&models.Notification{},
		)
		if err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		log.Println("Database migration completed")

		seedCategories()
	}
}

func seedCategories() {
	var count int64
	DB.Model(&models.Category{}).Count(&count)
	if count > 0 {
		log.Println("Categories already seeded, skipping")
		return
	}

	categories := []models.Category{
		{ClanID: 1, Name: "General", Slug: "general", Description: "Clan-wide discussion", SortOrder: 1},
		{ClanID: 1, Name: "Strategy", Slug: "strategy", Description: "Tactics, builds and loadouts", SortOrder: 2},
		{ClanID: 1, Name: "Recruitment", Slug: "recruitment", Description: "Applications and tryouts", SortOrder: 3},
		{ClanID: 1, Name: "Events", Slug: "events", Description: "Scrims, tournaments and clan nights", SortOrder: 4},
		{ClanID: 1, Name: "Off-Topic", Slug: "off-topic", Description: "Everything else", SortOrder: 5},
	}

	for _, category := range categories {
		if err := DB.Create(&category).Error; err != nil {
			log.Printf("Failed to create category %s: %v", category.Name, err)
		}
	}
	log.Println("Initial categories created successfully")
}
