package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"scriptorium/internal/config"
	"scriptorium/internal/db"
	"scriptorium/internal/router"
	"scriptorium/internal/services"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	cfg := config.Load()

	database, err := db.Init(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	authService, err := services.NewAuthService(database, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize auth: %v", err)
	}

	r := gin.Default()
	router.RegisterRoutes(r, database, authService)

	log.Printf("Listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}
