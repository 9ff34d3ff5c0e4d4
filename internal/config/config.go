package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port       string
	AppVersion string

	DatabaseDriver   string
	DatabaseURL      string
	DatabaseMaxConns int

	JWTSecret string
	JWTTTL    time.Duration

	RedisAddress        string
	RedisPassword       string
	ComplaintDailyLimit int

	RabbitMQURL         string
	OtpEmailQueue       string
	ComplaintEventQueue string

	SMSGatewayURL   string
	SMSGatewayToken string
	OtpTTL          time.Duration

	UploadDir      string
	UploadMaxBytes int64

	CORSAllowedOrigins []string

	LogLevel  string
	LogFormat string

	SeedAdminEmail    string
	SeedAdminPassword string
}

// Load reads the environment, after merging a local .env file when present.
// Missing required values panic, as there is nothing sensible to start with.
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DB_CONNECTION_STRING")
	if dbURL == "" {
		panic("DB_CONNECTION_STRING environment variable is required")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		panic("JWT_SECRET environment variable is required")
	}

	return &Config{
		Port:       getEnv("PORT", "8080"),
		AppVersion: getEnv("APP_VERSION", "dev"),

		DatabaseDriver:   getEnv("DB_DRIVER", "postgres"),
		DatabaseURL:      dbURL,
		DatabaseMaxConns: getInt("DB_MAX_OPEN_CONNS", 10),

		JWTSecret: secret,
		JWTTTL:    getDuration("JWT_TTL", 24*time.Hour),

		RedisAddress:        os.Getenv("REDIS_ADDRESS"),
		RedisPassword:       os.Getenv("REDIS_PASSWORD"),
		ComplaintDailyLimit: getInt("COMPLAINT_DAILY_LIMIT", 20),

		RabbitMQURL:         os.Getenv("RABBITMQ_URL"),
		OtpEmailQueue:       getEnv("OTP_EMAIL_QUEUE", "otp.email"),
		ComplaintEventQueue: getEnv("COMPLAINT_EVENT_QUEUE", "complaint.events"),

		SMSGatewayURL:   os.Getenv("SMS_GATEWAY_URL"),
		SMSGatewayToken: os.Getenv("SMS_GATEWAY_TOKEN"),
		OtpTTL:          getDuration("OTP_TTL", 10*time.Minute),

		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		UploadMaxBytes: int64(getInt("UPLOAD_MAX_BYTES", 5<<20)),

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		SeedAdminEmail:    os.Getenv("SEED_ADMIN_EMAIL"),
		SeedAdminPassword: os.Getenv("SEED_ADMIN_PASSWORD"),
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(key + " must be an integer: " + err.Error())
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(key + " must be a duration such as 10m or 24h: " + err.Error())
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
