package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/username/moneymap/backend/src/analytics"
	"github.com/username/moneymap/backend/src/config"
	"github.com/username/moneymap/backend/src/database"
	"github.com/username/moneymap/backend/src/handlers"
	"github.com/username/moneymap/backend/src/logger"
	"github.com/username/moneymap/backend/src/services"
	"github.com/username/moneymap/backend/src/store"
	"golang.org/x/time/rate"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded", "path", r.URL.Path)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	allowedOrigins := make(map[string]bool)
	for _, origin := range config.Cfg.AllowedOrigins {
		allowedOrigins[origin] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-User-ID")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	logger.L.Info("MoneyMap backend server starting...")

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	database.RunMigrations(config.Cfg.DatabasePath)

	analyticsCache := analytics.NewCache(config.Cfg.CacheTTL, config.Cfg.CacheCleanupInterval)
	txStore := store.NewSQLiteStore(database.DB)

	analyticsService := services.NewAnalyticsService(
		txStore,
		analyticsCache,
		config.Cfg.SmoothingAlpha,
		config.Cfg.ForecastBaseline,
	)

	importService := services.NewImportService(txStore, analyticsService)

	txHandler := handlers.NewTransactionHandler(txStore, analyticsService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	importHandler := handlers.NewImportHandler(importService)

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(handlers.ContextualLoggerMiddleware)
	r.Use(enableCORS)
	r.Use(rateLimitMiddleware)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "MoneyMap Backend is running"})
	})

	r.Route("/api", func(r chi.Router) {
		// User-scoped routes
		r.Group(func(r chi.Router) {
			r.Use(handlers.UserContextMiddleware)

			r.Post("/transactions", txHandler.HandleCreateTransaction)
			r.Get("/transactions", txHandler.HandleListTransactions)
			r.Delete("/transactions/all", txHandler.HandleDeleteAllTransactions)
			r.Post("/transactions/import", importHandler.HandleImport)

			r.Get("/analytics/patterns", analyticsHandler.HandleGetHistoricalPatterns)
			r.Get("/analytics/predictions", analyticsHandler.HandleGetPredictions)
			r.Get("/analytics/seasonal", analyticsHandler.HandleGetSeasonalPatterns)
			r.Get("/analytics/recurring", analyticsHandler.HandleGetRecurringTransactions)
			r.Get("/forecasts/income", analyticsHandler.HandleGetIncomeForecasts)
			r.Get("/forecasts/expenses", analyticsHandler.HandleGetExpenseForecasts)
		})

		// Cache administration
		r.Group(func(r chi.Router) {
			r.Get("/cache/stats", analyticsHandler.HandleGetCacheStats)
			r.Post("/cache/invalidate", analyticsHandler.HandleInvalidateCache)
			r.Post("/cache/clear", analyticsHandler.HandleClearCache)
		})
	})

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		stdlog.Fatalf("Failed to start server: %v", err)
	}
}
