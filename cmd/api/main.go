package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/AchilleasB/smart-city/citizen-services/internal/adapters/handler"
	"github.com/AchilleasB/smart-city/citizen-services/internal/adapters/messaging"
	"github.com/AchilleasB/smart-city/citizen-services/internal/adapters/metrics"
	"github.com/AchilleasB/smart-city/citizen-services/internal/adapters/middleware"
	"github.com/AchilleasB/smart-city/citizen-services/internal/adapters/report"
	"github.com/AchilleasB/smart-city/citizen-services/internal/adapters/repository"
	"github.com/AchilleasB/smart-city/citizen-services/internal/adapters/security"
	"github.com/AchilleasB/smart-city/citizen-services/internal/adapters/sms"
	"github.com/AchilleasB/smart-city/citizen-services/internal/adapters/storage"
	"github.com/AchilleasB/smart-city/citizen-services/internal/config"
	"github.com/AchilleasB/smart-city/citizen-services/internal/core/domain"
	"github.com/AchilleasB/smart-city/citizen-services/internal/core/ports"
	"github.com/AchilleasB/smart-city/citizen-services/internal/core/services"
	"github.com/AchilleasB/smart-city/citizen-services/internal/logger"
)

const complaintLimitWindow = 24 * time.Hour

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, "citizen-api")
	if err != nil {
		panic("failed to build logger: " + err.Error())
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := repository.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL, cfg.DatabaseMaxConns)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	store := repository.NewSQLRepository(db)
	if err := store.Migrate(ctx); err != nil {
		log.Fatal("failed to migrate schema", zap.Error(err))
	}
	if n, err := store.SeedDepartments(ctx); err != nil {
		log.Fatal("failed to seed departments", zap.Error(err))
	} else if n > 0 {
		log.Info("seeded default departments", zap.Int("count", n))
	}

	hasher := security.NewBcryptHasher()
	if cfg.SeedAdminEmail != "" && cfg.SeedAdminPassword != "" {
		seedSuperAdmin(ctx, store, hasher, cfg, log)
	}

	tokens, err := security.NewJWTIssuer(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		log.Fatal("invalid JWT configuration", zap.Error(err))
	}

	var redisClient redis.Cmdable
	var limiter *middleware.ComplaintRateLimiter
	if cfg.RedisAddress != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			// The limiter fails open, so a cold Redis only costs the limit.
			log.Warn("redis unreachable at startup", zap.String("address", cfg.RedisAddress), zap.Error(err))
		} else {
			log.Info("connected to redis", zap.String("address", cfg.RedisAddress))
		}
		redisClient = client
		limiter = middleware.NewComplaintRateLimiter(client, cfg.ComplaintDailyLimit, complaintLimitWindow, log)
	}

	emailSender := ports.OtpSender(sms.NewLogSender("email", log))
	if cfg.RabbitMQURL != "" {
		broker, err := messaging.NewRabbitMQBroker(cfg.RabbitMQURL, log, cfg.OtpEmailQueue)
		if err != nil {
			log.Warn("rabbitmq unavailable, email codes will only be logged", zap.Error(err))
		} else {
			defer broker.Close()
			emailSender = messaging.NewEmailOtpSender(broker, cfg.OtpEmailQueue, cfg.OtpTTL)
		}
	}
	mobileSender := ports.OtpSender(sms.NewLogSender("mobile", log))
	if cfg.SMSGatewayURL != "" {
		mobileSender = sms.NewGatewaySender(cfg.SMSGatewayURL, cfg.SMSGatewayToken, log)
	}

	files, err := storage.NewLocalStorage(cfg.UploadDir, cfg.UploadMaxBytes)
	if err != nil {
		log.Fatal("failed to prepare upload directory", zap.Error(err))
	}

	prom := metrics.New()

	authService := services.NewAuthService(store, hasher, tokens, log)
	otpService := services.NewOtpService(store, cfg.OtpTTL, prom, log,
		services.VerificationChannel{Type: domain.ChannelEmail, Sender: emailSender},
		services.VerificationChannel{Type: domain.ChannelMobile, Sender: mobileSender},
	)

	router := &handler.Router{
		Auth:        handler.NewAuthHandler(authService, otpService, log),
		Complaints:  handler.NewComplaintHandler(services.NewComplaintService(store, prom, log), log),
		Users:       handler.NewUserHandler(services.NewUserService(store, hasher, log), log),
		Departments: handler.NewDepartmentHandler(services.NewDepartmentService(store, log), log),
		Alerts:      handler.NewAlertHandler(services.NewAlertService(store, log), log),
		Jobs:        handler.NewJobHandler(services.NewJobService(store, log), log),
		Locations:   handler.NewLocationHandler(services.NewLocationService(store, log), log),
		Analytics:   handler.NewAnalyticsHandler(services.NewAnalyticsService(store, report.NewComplaintWorkbook()), log),
		Upload:      handler.NewUploadHandler(files, cfg.UploadMaxBytes, log),
		Health:      handler.NewHealthHandler(store, redisClient, cfg.AppVersion, log),

		Authenticator:  middleware.NewAuthMiddleware(tokens, store, log),
		RateLimiter:    limiter,
		Metrics:        prom,
		UploadDir:      files.Dir(),
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:         log,
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	go func() {
		log.Info("starting server", zap.String("addr", server.Addr), zap.String("db_driver", cfg.DatabaseDriver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

func seedSuperAdmin(ctx context.Context, store *repository.SQLRepository, hasher *security.BcryptHasher, cfg *config.Config, log *zap.Logger) {
	hash, err := hasher.Hash(cfg.SeedAdminPassword)
	if err != nil {
		log.Fatal("failed to hash seed admin password", zap.Error(err))
	}
	created, err := store.EnsureSuperAdmin(ctx, "Super Admin", cfg.SeedAdminEmail, hash)
	if err != nil {
		log.Fatal("failed to seed super admin", zap.Error(err))
	}
	if created {
		log.Info("seeded super admin", zap.String("email", cfg.SeedAdminEmail))
	}
}
