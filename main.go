package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Zuluuu02/Farm-to-Plate-FINAL/routes"
	"github.com/Zuluuu02/Farm-to-Plate-FINAL/store"
)

func main() {
	log.Println("✅ Starting application...")

	// Load environment variables
	_ = godotenv.Load()

	// Init document store
	s := initStore()

	// Gin setup
	r := gin.Default()

	// Allow large file uploads (banner images)
	r.MaxMultipartMemory = 32 << 20 // 32MB

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Serve uploaded images
	uploadsDir := os.Getenv("UPLOAD_DIR")
	if uploadsDir == "" {
		uploadsDir = "./uploads"
	}
	r.Static("/uploads", uploadsDir)

	// Setup routes
	routes.SetupRoutes(r, s)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("🚀 Server running on port %s...", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// initStore opens the Postgres-backed document store, or falls back to
// the in-memory store when no database is configured (local dev).
func initStore() store.Store {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		host := os.Getenv("DB_HOST")
		if host != "" {
			dsn = fmt.Sprintf(
				"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
				host, os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"),
				os.Getenv("DB_NAME"), os.Getenv("DB_PORT"),
			)
		}
	}

	if dsn == "" {
		log.Println("⚠️ No database configured; using in-memory store (data is not persisted)")
		return store.NewMemory()
	}

	s, err := store.OpenPostgres(dsn)
	if err != nil {
		log.Fatalf("❌ DB connection failed: %v", err)
	}
	return s
}
