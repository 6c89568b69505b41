package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/fingestao/fingestao-api/config"
	"github.com/fingestao/fingestao-api/handlers"
	"github.com/fingestao/fingestao-api/middleware"
	"github.com/fingestao/fingestao-api/routes"
	"github.com/fingestao/fingestao-api/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	db, err := config.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	log.Println("✅ Database connected successfully")

	if err := config.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	go scheduleTokenSweep(db)

	wsHandler := handlers.NewWSHandler()

	router := gin.Default()

	allowedOrigins := []string{"*"}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		allowedOrigins = strings.Split(origins, ",")
	}

	log.Printf("🌍 CORS: Allowing origins:")
	for _, origin := range allowedOrigins {
		log.Printf("   - %s", origin)
	}

	corsConfig := cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: len(allowedOrigins) != 1 || allowedOrigins[0] != "*",
		MaxAge:           86400,
	}
	router.Use(cors.New(corsConfig))

	router.Use(func(c *gin.Context) {
		start := time.Now()
		log.Printf("📨 %s %s from %s", c.Request.Method, c.Request.URL.Path, c.ClientIP())
		c.Next()
		duration := time.Since(start)
		log.Printf("✅ %s %s - %d (%v)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), duration)
	})

	router.Use(middleware.RateLimiter(100, time.Minute))

	api := router.Group("/api")
	{
		routes.SetupAuthRoutes(api, db)
		api.GET("/ws/dashboard", wsHandler.HandleWS)

		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			routes.SetupUserRoutes(protected, db)
			routes.SetupCategoryRoutes(protected, db)
			routes.SetupTransactionRoutes(protected, db, wsHandler)
			routes.SetupGoalRoutes(protected, db, wsHandler)
			routes.SetupReportRoutes(protected, db)
		}
	}

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("🚀 Server starting on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

// scheduleTokenSweep purges expired refresh tokens once a day so the table
// does not grow without bound.
func scheduleTokenSweep(db *sql.DB) {
	tokens := services.NewTokenService(db)
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	sweepTokens(tokens)
	for range ticker.C {
		sweepTokens(tokens)
	}
}

func sweepTokens(tokens *services.TokenService) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	removed, err := tokens.SweepExpired(ctx)
	if err != nil {
		log.Printf("❌ Token sweep failed: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("🧹 Removed %d expired refresh tokens", removed)
	}
}
