package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/datespark/datespark/internal/config"
	"github.com/datespark/datespark/internal/handlers"
	"github.com/datespark/datespark/internal/logging"
	"github.com/datespark/datespark/internal/middleware"
	"github.com/datespark/datespark/internal/services"
	"github.com/datespark/datespark/internal/services/ai"
	"github.com/datespark/datespark/internal/services/places"
)

func main() {
	if err := run(); err != nil {
		logging.Error("Application error", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
}

func run() error {
	// Initialize logger
	logger := logging.New()

	// Local development keeps secrets in .env
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if cfg.Server.Debug {
		logger.SetLevel(logging.LevelDebug)
		logging.SetDefaultLevel(logging.LevelDebug)
		logger.Debug("Debug logging enabled", map[string]interface{}{
			"env": cfg.Server.Environment,
		})
	}

	logger.Info("Starting DateSpark server...")

	// Place provider: real Google client when a credential is configured,
	// otherwise the deterministic stub so the pipeline still works offline.
	var provider services.PlaceProvider
	placesMode := "google"
	if cfg.Places.APIKey == "" {
		logger.Warn("GOOGLE_PLACES_API_KEY not set, using stub place data")
		provider = places.NewStubProvider(logger)
		placesMode = "stub"
	} else {
		provider = places.NewGoogleClient(cfg, logger)
	}

	generatorMode := "gemini"
	if cfg.AI.Stub {
		generatorMode = "stub"
	}

	// Initialize services
	generator := ai.NewService(cfg, logger)
	resolver := services.NewFallbackResolver(provider, services.DefaultFallbackTable(), logger)
	recommendationService := services.NewRecommendationService(generator, resolver, provider, logger)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(generatorMode, placesMode)
	recommendationHandler := handlers.NewRecommendationHandler(recommendationService, logger)
	placesHandler := handlers.NewPlacesHandler(provider, logger)

	// Initialize middleware
	securityHeaders := middleware.NewSecurityHeaders(cfg.Server.Secure)
	requestLogger := middleware.NewRequestLogger(logger)
	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding"},
	})

	// Set up router
	mux := http.NewServeMux()

	// Health endpoints
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /ready", healthHandler.Ready)
	mux.HandleFunc("GET /live", healthHandler.Live)

	// API endpoints
	mux.HandleFunc("POST /api/recommendations", recommendationHandler.Create)
	mux.HandleFunc("POST /api/places/autocomplete", placesHandler.Autocomplete)
	mux.HandleFunc("GET /api/places/photo/{photoReference}", placesHandler.Photo)

	// Build middleware chain (order matters: outermost first)
	var handler http.Handler = mux
	handler = corsMiddleware.Handler(handler)
	handler = securityHeaders.Apply(handler)
	handler = requestLogger.Apply(handler)

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:        addr,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// A recommendation request waits on the generator plus up to several
		// place searches; keep the write timeout well above AI_TIMEOUT so the
		// client gets a JSON error instead of a dropped connection.
		WriteTimeout: 95 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("Server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		server.SetKeepAlivesEnabled(false)
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Could not gracefully shutdown the server", map[string]interface{}{
				"error": err.Error(),
			})
		}
		close(done)
	}()

	logger.Info("Server listening", map[string]interface{}{
		"addr":      addr,
		"generator": generatorMode,
		"places":    placesMode,
	})
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	<-done
	logger.Info("Server stopped")
	return nil
}
