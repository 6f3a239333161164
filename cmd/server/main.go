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

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"donatello/backend/internal/api"
	"donatello/backend/internal/common"
	"donatello/backend/internal/config"
	"donatello/backend/internal/db"
	"donatello/backend/internal/logging"
	"donatello/backend/internal/metrics"
	"donatello/backend/internal/providers"
	"donatello/backend/internal/routes"
	"donatello/backend/internal/workers"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logging.Init(cfg.App.Environment); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Donatello backend starting up",
		"environment", cfg.App.Environment,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	// Connect to DB with sqlx (reporting queries)
	sqlxDB, err := db.InitPostgres(cfg.Database.DSN())
	if err != nil {
		logging.Fatal("Failed to connect to Postgres (sqlx)", "error", err.Error())
	}
	logging.Info("Connected to Postgres (sqlx)")

	// Connect to DB with GORM
	ormDB, err := db.InitPostgresORM(cfg.Database.DSN())
	if err != nil {
		logging.Fatal("Failed to connect to Postgres (GORM)", "error", err.Error())
	}
	logging.Info("Connected to Postgres (GORM)")

	if err := db.AutoMigrate(ormDB); err != nil {
		logging.Fatal("Failed to migrate schema", "error", err.Error())
	}

	redisClient := common.NewRedisClient(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password)

	metricsReg := metrics.NewMetricsRegistry()
	deps := api.InitDependencies(cfg, ormDB, sqlxDB, redisClient, metricsReg)

	// Seed the role and fundraise status reference tables
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := deps.Services.Lookup.Prepopulate(ctx); err != nil {
		logging.Fatal("Failed to prepopulate reference tables", "error", err.Error())
	}
	logging.Info("Reference tables prepopulated")

	// Outbound letter consumers
	mailer := providers.NewHTTPMailer(cfg.Outbound.MailerURL)
	group, err := workers.InitWorkers(ctx, deps.Services.Queue, mailer, cfg.Outbound, cfg.App.FrontURL, metricsReg, 2)
	if err != nil {
		logging.Fatal("Failed to start letter workers", "error", err.Error())
	}

	upSince := time.Now()
	router := routes.RegisterRoutes(cfg, deps, metricsReg, sqlxDB, redisClient, upSince)

	// Metrics endpoint lives outside the chi router
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", router)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		logging.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logging.Error("Server shutdown failed", "error", err.Error())
		}
	}()

	logging.Info("Server starting", "addr", addr, "environment", cfg.App.Environment)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logging.Fatal("Server failed", "error", err.Error())
	}

	if err := group.Wait(); err != nil {
		logging.Error("Letter workers exited with error", "error", err.Error())
	}
	logging.Info("Stopped")
}
