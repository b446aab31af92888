package rest

import (
	"net/http"
	"os"
	"versequest/internal/corpus"
	"versequest/internal/game"
	"versequest/internal/service"
	"versequest/internal/transport/rest/handler"
	"versequest/internal/transport/rest/middleware"
	"versequest/internal/transport/ws"

	"github.com/gorilla/mux"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService        *service.AuthService
	LeaderboardService *service.LeaderboardService
	FeedbackService    *service.FeedbackService
	Registry           *game.Registry
	Corpus             *corpus.Corpus
	WSHub              *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	leaderboardHandler := handler.NewLeaderboardHandler(c.LeaderboardService)
	feedbackHandler := handler.NewFeedbackHandler(c.FeedbackService)
	sessionHandler := handler.NewSessionHandler(c.Registry)
	verseHandler := handler.NewVerseHandler(c.Corpus)
	wsHandler := ws.NewHandler(c.WSHub, c.Registry)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/leaderboard", leaderboardHandler.Top).Methods("GET", "OPTIONS")
	v1.HandleFunc("/leaderboard", leaderboardHandler.Submit).Methods("POST", "OPTIONS")
	v1.HandleFunc("/feedback", feedbackHandler.Submit).Methods("POST", "OPTIONS")
	v1.HandleFunc("/verses", verseHandler.Info).Methods("GET", "OPTIONS")
	v1.HandleFunc("/verses/{index}", verseHandler.Get).Methods("GET", "OPTIONS")

	// Diagnostics (read-only snapshots of live game sessions)
	v1.HandleFunc("/sessions", sessionHandler.List).Methods("GET", "OPTIONS")
	v1.HandleFunc("/sessions/{code}", sessionHandler.Get).Methods("GET", "OPTIONS")

	// WebSocket route (the multiplayer gateway)
	v1.HandleFunc("/ws/game", wsHandler.GameWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Admin routes (require admin auth)
	adminRoutes := v1.PathPrefix("/admin").Subrouter()
	adminRoutes.Use(authMW.RequireAdmin)

	adminRoutes.HandleFunc("/feedback", feedbackHandler.List).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/feedback/{id}", feedbackHandler.Delete).Methods("DELETE", "OPTIONS")
	adminRoutes.HandleFunc("/scores", leaderboardHandler.List).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/scores", leaderboardHandler.DeleteAll).Methods("DELETE", "OPTIONS")
	adminRoutes.HandleFunc("/scores/{id}", leaderboardHandler.Delete).Methods("DELETE", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
