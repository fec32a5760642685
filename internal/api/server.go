package api

import (
	"net/http"
	"time"

	chatapi "github.com/avolkhin/docchat-backend/internal/api/chat"
	documentapi "github.com/avolkhin/docchat-backend/internal/api/document"
	"github.com/avolkhin/docchat-backend/internal/api/middleware"
	"github.com/avolkhin/docchat-backend/internal/api/modelconfig"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(
	documentHandler *documentapi.Handler,
	chatHandler *chatapi.Handler,
	configHandler *modelconfig.Handler,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)                 // Recover from panics
	r.Use(chimiddleware.RequestID)                 // Add request ID
	r.Use(middleware.Logger(logger))               // Log requests
	r.Use(middleware.CORS)                         // Handle CORS
	r.Use(chimiddleware.Timeout(60 * time.Second)) // Default timeout

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Register routes
	r.Route("/api", func(r chi.Router) {
		documentapi.RegisterRoutes(r, documentHandler)
		chatapi.RegisterRoutes(r, chatHandler)
		modelconfig.RegisterRoutes(r, configHandler)
	})

	return r
}
