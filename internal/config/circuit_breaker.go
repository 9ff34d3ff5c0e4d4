package config

import (
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Breaker names. Timeouts are chosen per dependency.
const (
	BreakerRelayDB        = "Relay-PostgreSQL"
	BreakerRabbitMQ       = "RabbitMQ-Publisher"
	BreakerSMSGateway     = "SMS-Gateway"
	BreakerRedisRateLimit = "Redis-RateLimit"
)

// NewCircuitBreaker opens after three consecutive failures and probes again
// after a dependency-specific timeout.
func NewCircuitBreaker(name string, logger *zap.Logger) *gobreaker.CircuitBreaker {
	var timeout time.Duration
	switch {
	case strings.HasPrefix(name, "Redis"):
		timeout = 5 * time.Second
	case name == BreakerRelayDB:
		timeout = 10 * time.Second
	default:
		timeout = 30 * time.Second
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Error("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
}
