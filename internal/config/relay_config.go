package config

import (
	"os"

	"github.com/joho/godotenv"
)

// RelayConfig holds what the outbox relay needs and nothing else.
type RelayConfig struct {
	DatabaseURL         string
	RabbitMQURL         string
	ComplaintEventQueue string
	HealthAddr          string
	LogLevel            string
	LogFormat           string
}

func LoadRelayConfig() *RelayConfig {
	_ = godotenv.Load()

	dbURL := os.Getenv("DB_CONNECTION_STRING")
	if dbURL == "" {
		panic("DB_CONNECTION_STRING environment variable is required")
	}

	rabbitURL := os.Getenv("RABBITMQ_URL")
	if rabbitURL == "" {
		panic("RABBITMQ_URL environment variable is required")
	}

	return &RelayConfig{
		DatabaseURL:         dbURL,
		RabbitMQURL:         rabbitURL,
		ComplaintEventQueue: getEnv("COMPLAINT_EVENT_QUEUE", "complaint.events"),
		HealthAddr:          getEnv("HEALTH_ADDR", ":8090"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFormat:           getEnv("LOG_FORMAT", "json"),
	}
}
