package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/AchilleasB/smart-city/citizen-services/internal/adapters/messaging"
	"github.com/AchilleasB/smart-city/citizen-services/internal/adapters/outbox"
	"github.com/AchilleasB/smart-city/citizen-services/internal/config"
	"github.com/AchilleasB/smart-city/citizen-services/internal/logger"
)

func main() {
	cfg := config.LoadRelayConfig()

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, "outbox-relay")
	if err != nil {
		panic("failed to build logger: " + err.Error())
	}
	defer log.Sync()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()
	log.Info("database handle ready, circuit breaker validates on first use")

	broker, err := messaging.NewRabbitMQBroker(cfg.RabbitMQURL, log, cfg.ComplaintEventQueue)
	if err != nil {
		log.Fatal("failed to connect to rabbitmq", zap.Error(err))
	}
	defer broker.Close()

	publisher := messaging.NewComplaintEventPublisher(broker, cfg.ComplaintEventQueue)
	relay := outbox.NewRelay(db, cfg.DatabaseURL, publisher, log)

	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeStatus(w, relay.IsHealthy(), nil)
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		writeStatus(w, relay.IsReady() && broker.Healthy(), map[string]bool{
			"relay":    relay.IsReady(),
			"rabbitmq": broker.Healthy(),
		})
	})

	healthServer := &http.Server{
		Addr:              cfg.HealthAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("starting health server", zap.String("addr", cfg.HealthAddr))
		if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("health server stopped", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("starting outbox relay", zap.String("queue", cfg.ComplaintEventQueue))
	if err := relay.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("relay stopped", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		log.Error("health server shutdown failed", zap.Error(err))
	}
	log.Info("shutdown complete")
}

func writeStatus(w http.ResponseWriter, up bool, checks map[string]bool) {
	status, code := "UP", http.StatusOK
	if !up {
		status, code = "DOWN", http.StatusServiceUnavailable
	}
	body, _ := sonic.Marshal(map[string]any{
		"status":    status,
		"component": "outbox-relay",
		"checks":    checks,
	})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}
