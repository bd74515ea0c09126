package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/seopilot/seopilot-golang/internal/database"
	"github.com/seopilot/seopilot-golang/internal/handlers"
	"github.com/seopilot/seopilot-golang/internal/reports"
	"github.com/seopilot/seopilot-golang/internal/routes"
)

func main() {
	// 0. --- Load Environment Variables (.env) ---
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}

	// 1. --- Database Connection ---
	db, err := database.OpenDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// 2. --- Application Setup ---
	// All dependencies are injected into the Handlers struct.
	app := &handlers.Handlers{
		DB:       db,
		Reports:  reports.NewClientFromEnv(),
		GSCOAuth: handlers.NewGSCOAuthConfig(),
		BaseURL:  handlers.PublicBaseURL(),
	}

	// --- Router Setup ---
	router := routes.SetupRouter(app)

	// --- Start Server ---
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting SEOPilot API server on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
