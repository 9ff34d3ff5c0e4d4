package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AchilleasB/smart-city/citizen-services/internal/core/domain"
	"github.com/AchilleasB/smart-city/citizen-services/internal/core/ports"
)

const (
	DefaultOtpTTL = 10 * time.Minute

	otpMin = 100000
	otpMax = 999999
)

// VerificationChannel binds an identifier type to the transport that delivers its codes.
type VerificationChannel struct {
	Type   domain.Channel
	Sender ports.OtpSender
}

// OtpService issues and verifies one-time codes. Email and mobile flows share
// this implementation and differ only by channel.
type OtpService struct {
	repo     ports.OtpRepository
	channels map[domain.Channel]ports.OtpSender
	ttl      time.Duration
	metrics  ports.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

var _ ports.OtpService = (*OtpService)(nil)

func NewOtpService(
	repo ports.OtpRepository,
	ttl time.Duration,
	metrics ports.Metrics,
	logger *zap.Logger,
	channels ...VerificationChannel,
) *OtpService {
	if ttl <= 0 {
		ttl = DefaultOtpTTL
	}
	byType := make(map[domain.Channel]ports.OtpSender, len(channels))
	for _, ch := range channels {
		byType[ch.Type] = ch.Sender
	}
	return &OtpService{
		repo:     repo,
		channels: byType,
		ttl:      ttl,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock replaces the time source.
func (s *OtpService) WithClock(now func() time.Time) *OtpService {
	s.now = now
	return s
}

func (s *OtpService) Issue(ctx context.Context, channel domain.Channel, identifier string) error {
	sender, ok := s.channels[channel]
	if !ok {
		return domain.Invalid("type", "unsupported channel "+string(channel))
	}
	identifier = normalizeIdentifier(channel, identifier)
	if identifier == "" {
		return domain.Invalid(string(channel), "is required")
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}

	entry := domain.OtpEntry{
		Identifier: identifier,
		Code:       code,
		Type:       channel,
		ExpiresAt:  s.now().UTC().Add(s.ttl),
	}
	if err := s.repo.ReplaceOtp(ctx, entry); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}

	if err := sender.SendOtp(ctx, identifier, code); err != nil {
		// An undeliverable code must not stay live for its whole window.
		if delErr := s.repo.DeleteOtp(ctx, identifier, channel); delErr != nil {
			s.logger.Error("failed to discard undelivered otp",
				zap.String("channel", string(channel)), zap.Error(delErr))
		}
		s.logger.Warn("otp delivery failed", zap.String("channel", string(channel)), zap.Error(err))
		return fmt.Errorf("%w: %v", domain.ErrDelivery, err)
	}

	s.metrics.OtpIssued(channel)
	s.logger.Debug("otp issued", zap.String("channel", string(channel)))
	return nil
}

func (s *OtpService) Verify(ctx context.Context, channel domain.Channel, identifier, code string) error {
	if _, ok := s.channels[channel]; !ok {
		return domain.Invalid("type", "unsupported channel "+string(channel))
	}
	identifier = normalizeIdentifier(channel, identifier)
	code = strings.TrimSpace(code)

	entry, err := s.repo.FindOtp(ctx, identifier, channel, code)
	if errors.Is(err, domain.ErrNotFound) {
		s.metrics.OtpVerified(channel, "invalid")
		return domain.ErrInvalidOtp
	}
	if err != nil {
		return fmt.Errorf("find otp: %w", err)
	}

	if entry.ExpiredAt(s.now().UTC()) {
		s.metrics.OtpVerified(channel, "expired")
		return domain.ErrExpiredOtp
	}

	if err := s.repo.DeleteOtp(ctx, identifier, channel); err != nil {
		return fmt.Errorf("consume otp: %w", err)
	}
	s.metrics.OtpVerified(channel, "ok")
	return nil
}

// generateCode draws uniformly from [100000, 999999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+otpMin, 10), nil
}

func normalizeIdentifier(channel domain.Channel, identifier string) string {
	identifier = strings.TrimSpace(identifier)
	if channel == domain.ChannelEmail {
		return strings.ToLower(identifier)
	}
	return identifier
}
