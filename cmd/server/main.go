package main

import (
	"log"
	"os"

	"clanboard/internal/db"
	"clanboard/internal/middleware"
	"clanboard/internal/router"
	"clanboard/internal/services"
	"clanboard/internal/store"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	// Initialize Database
	db.Init()

	// One-shot schema readiness probe; a negative result is sticky and
	// the forum serves an explanatory empty state instead of querying.
	schema := db.ProbeSchema()

	// Start the background score audit worker
	services.GetAuditService().StartScheduledAudit()

	// Initialize Gin
	r := gin.Default()

	// Setup Sessions
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "secret_key_change_me"
	}
	sessionStore := cookie.NewStore([]byte(secret))
	r.Use(sessions.Sessions("clanboard_session", sessionStore))

	// Middleware
	r.Use(middleware.LoadUser())

	// Routes
	forumStore := store.NewGormStore(db.DB)
	router.RegisterRoutes(r, forumStore, services.NewDBNotifier(), schema.Ready)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Clanboard server starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
