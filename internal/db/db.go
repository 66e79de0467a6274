package db

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"scriptorium/internal/config"
	"scriptorium/internal/models"
)

func Init(cfg config.DatabaseConfig) (*gorm.DB, error) {
	database, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	log.Println("Database connection established")

	// Auto Migrate
	err = database.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Post{},
		&models.Comment{},
		&models.CodeTemplate{},
		&models.Vote{},
		&models.Report{},
		&models.RefreshToken{},
	)
	if err != nil {
		return nil, err
	}
	log.Println("Database migration completed")

	seedTags(database)
	return database, nil
}

func seedTags(database *gorm.DB) {
	var count int64
	database.Model(&models.Tag{}).Count(&count)
	if count > 0 {
		log.Println("Tags already seeded, skipping")
		return
	}

	tags := []models.Tag{
		{Name: "go"},
		{Name: "javascript"},
		{Name: "python"},
		{Name: "algorithms"},
		{Name: "web"},
		{Name: "databases"},
	}

	for _, tag := range tags {
		if err := database.Create(&tag).Error; err != nil {
			log.Printf("Failed to create tag %s: %v", tag.Name, err)
		}
	}
	log.Println("Initial tags created successfully")
}
