package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"storyboard-backend/internal/handlers"
	"storyboard-backend/internal/middleware"
	"storyboard-backend/internal/websocket"
)

func New(
	jwtAuth *middleware.JWTAuth,
	authHandler *handlers.AuthHandler,
	analysisHandler *handlers.AnalysisHandler,
	libraryHandler *handlers.LibraryHandler,
	chatHandler *handlers.ChatHandler,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Token exchange rate limiter (10 req/min per IP)
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// Token exchange (public)
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/token", authHandler.Token)
		})

		// Analysis submission and job tracking
		r.Route("/analysis", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/youtube", analysisHandler.SubmitYouTube)
			r.Post("/upload", analysisHandler.UploadFile)
		})

		r.Route("/jobs", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/{id}", analysisHandler.GetJob)
			r.Post("/{id}/credentials", analysisHandler.SupplyCredentials)
		})

		// Storyboard library
		r.Route("/library", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", libraryHandler.List)
			r.Get("/{id}", libraryHandler.Get)
			r.Delete("/{id}", libraryHandler.Delete)
			r.Post("/{id}/chat", chatHandler.Ask)
		})

		// Per-job progress stream; token arrives as a query parameter
		r.Get("/ws/jobs/{id}", wsHub.HandleWebSocket)
	})

	return r
}
