package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storyboard-backend/internal/config"
	"storyboard-backend/internal/database"
	"storyboard-backend/internal/handlers"
	"storyboard-backend/internal/middleware"
	"storyboard-backend/internal/repository"
	"storyboard-backend/internal/router"
	"storyboard-backend/internal/services"
	"storyboard-backend/internal/websocket"
	"storyboard-backend/internal/worker"
)

func main() {
	log.Println("🚀 Starting Storyboard Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClients.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	libraryRepo := repository.NewLibraryRepo(pool)
	jobRepo := repository.NewJobRepo(pool)

	// ──── Step 5: Initialize Gemini Client ────
	geminiService := services.NewGeminiService(cfg.GeminiModel)
	defer geminiService.Close()
	generator := services.NewGenerator(geminiService, 3)
	log.Printf("✓ Gemini client initialized (model: %s)", cfg.GeminiModel)

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	youtubeService := services.NewYouTubeService()

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(jwtAuth, cfg.ServiceKey)
	analysisHandler := handlers.NewAnalysisHandler(libraryRepo, jobRepo, redisClients.Queue, youtubeService, cfg.StoragePath, cfg.GeminiModel)
	libraryHandler := handlers.NewLibraryHandler(libraryRepo)
	chatHandler := handlers.NewChatHandler(libraryRepo, geminiService, cfg.GeminiAPIKeys)

	// ──── Step 6: Start Job Worker Pool ────
	workerPool := worker.NewPool(
		redisClients.Queue,
		generator,
		jobRepo,
		libraryRepo,
		cfg.GeminiAPIKeys,
		time.Duration(cfg.QuotaWaitSeconds)*time.Second,
		3,
	)
	workerPool.Start()
	log.Println("✓ Worker pool started (3 goroutines)")

	// ──── Step 7: Start WebSocket Hub ────
	wsHub := websocket.NewHub(redisClients.PubSub, jwtAuth)
	log.Println("✓ WebSocket hub started")

	// ──── Step 8: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		authHandler,
		analysisHandler,
		libraryHandler,
		chatHandler,
		wsHub,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		workerPool.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ Storyboard Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/ws/jobs/{id}", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
