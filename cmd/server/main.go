package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"citylink/internal/router"
	"citylink/internal/services"
	"citylink/internal/store"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	// Initialize content store (STORE_DRIVER: postgres / redis / mongo / memory)
	gateway, err := store.Open(context.Background())
	if err != nil {
		log.Fatalf("Failed to open content store: %v", err)
	}

	feed := services.NewFeedService(gateway)

	// Initialize Gin
	r := gin.Default()
	router.RegisterRoutes(r, feed)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("CityLink server starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
