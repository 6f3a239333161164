package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"donatello/backend/internal/api"
	"donatello/backend/internal/config"
	"donatello/backend/internal/logging"
	"donatello/backend/internal/metrics"
	"donatello/backend/internal/middleware"
)

// RegisterRoutes builds the chi router with global middleware, the health
// check, and the API v1 surface.
func RegisterRoutes(
	cfg *config.Config,
	deps *api.Dependencies,
	metricsReg *metrics.MetricsRegistry,
	sqlxDB *sqlx.DB,
	redisClient *redis.Client,
	upSince time.Time,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestIDMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.App.FrontURL},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthCheck", api.HealthCheckHandler(sqlxDB, redisClient, upSince))

	RegisterAPIRoutes(r, cfg, deps, metricsReg)

	logging.Info("Router initialized")
	return r
}
