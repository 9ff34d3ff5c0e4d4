package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/AchilleasB/smart-city/citizen-services/internal/config"
	"github.com/AchilleasB/smart-city/citizen-services/internal/core/domain"
)

const complaintLimitPrefix = "complaint_limit"

// ComplaintRateLimiter caps how many complaints a citizen can file per window.
// Counting is fixed-window: the first complaint starts the window.
type ComplaintRateLimiter struct {
	client redis.Cmdable
	limit  int64
	window time.Duration
	cb     *gobreaker.CircuitBreaker
	logger *zap.Logger
}

func NewComplaintRateLimiter(client redis.Cmdable, limit int, window time.Duration, logger *zap.Logger) *ComplaintRateLimiter {
	return &ComplaintRateLimiter{
		client: client,
		limit:  int64(limit),
		window: window,
		cb:     config.NewCircuitBreaker(config.BreakerRedisRateLimit, logger),
		logger: logger,
	}
}

type rateLimitResponse struct {
	Error      string `json:"error"`
	RetryAfter int64  `json:"retry_after"`
}

// Limit must run after Authenticate. Admin roles are not counted. When Redis
// is unavailable requests are let through.
func (l *ComplaintRateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFrom(r.Context())
		if !ok || identity.Role != domain.RoleCitizen || l.limit <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		retryAfter, err := l.take(r.Context(), identity.UserID)
		if err != nil {
			l.logger.Warn("complaint rate limit unavailable", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}
		if retryAfter > 0 {
			w.Header().Set("Retry-After", fmt.Sprint(int64(retryAfter.Seconds())))
			writeJSON(w, http.StatusTooManyRequests, rateLimitResponse{
				Error:      domain.ErrRateLimited.Error(),
				RetryAfter: int64(retryAfter.Seconds()),
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// take counts one attempt and returns how long the caller must wait, or zero
// when the attempt is within the limit.
func (l *ComplaintRateLimiter) take(ctx context.Context, userID int64) (time.Duration, error) {
	key := fmt.Sprintf("%s:%d", complaintLimitPrefix, userID)

	res, err := l.cb.Execute(func() (interface{}, error) {
		count, err := l.client.Incr(ctx, key).Result()
		if err != nil {
			return nil, err
		}
		if count == 1 {
			if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
				return nil, err
			}
		}
		if count <= l.limit {
			return time.Duration(0), nil
		}
		ttl, err := l.client.TTL(ctx, key).Result()
		if err != nil {
			return nil, err
		}
		if ttl <= 0 {
			// Key lost its expiry; restart the window.
			if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
				return nil, err
			}
			ttl = l.window
		}
		return ttl, nil
	})
	if err != nil {
		return 0, err
	}
	return res.(time.Duration), nil
}
