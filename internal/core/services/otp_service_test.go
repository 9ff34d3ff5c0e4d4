package services_test

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AchilleasB/smart-city/citizen-services/internal/core/domain"
	"github.com/AchilleasB/smart-city/citizen-services/internal/core/services"
	"github.com/AchilleasB/smart-city/citizen-services/internal/mocks"
)

type otpFixture struct {
	store   *mocks.MockStore
	email   *mocks.MockOtpSender
	sms     *mocks.MockOtpSender
	metrics *mocks.MockMetrics
	now     time.Time
	svc     *services.OtpService
}

func newOtpFixture() *otpFixture {
	f := &otpFixture{
		store:   mocks.NewMockStore(),
		email:   mocks.NewMockOtpSender(),
		sms:     mocks.NewMockOtpSender(),
		metrics: mocks.NewMockMetrics(),
		now:     time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.svc = services.NewOtpService(f.store, 10*time.Minute, f.metrics, zap.NewNop(),
		services.VerificationChannel{Type: domain.ChannelEmail, Sender: f.email},
		services.VerificationChannel{Type: domain.ChannelMobile, Sender: f.sms},
	).WithClock(func() time.Time { return f.now })
	return f
}

func TestOtpService_IssueAndVerify(t *testing.T) {
	ctx := context.Background()
	f := newOtpFixture()

	require.NoError(t, f.svc.Issue(ctx, domain.ChannelEmail, "A@X.com"))

	code, ok := f.email.LastCode("a@x.com")
	require.True(t, ok, "code should be delivered to the normalized address")
	n, err := strconv.Atoi(code)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 100000)
	assert.LessOrEqual(t, n, 999999)

	entry, ok := f.store.OtpFor("a@x.com", domain.ChannelEmail)
	require.True(t, ok)
	assert.Equal(t, f.now.Add(10*time.Minute), entry.ExpiresAt)

	require.NoError(t, f.svc.Verify(ctx, domain.ChannelEmail, "a@x.com", code))

	// single use
	err = f.svc.Verify(ctx, domain.ChannelEmail, "a@x.com", code)
	assert.ErrorIs(t, err, domain.ErrInvalidOtp)

	assert.Equal(t, 1, f.metrics.Issued[domain.ChannelEmail])
	assert.Equal(t, 1, f.metrics.Verifications["email/ok"])
	assert.Equal(t, 1, f.metrics.Verifications["email/invalid"])
}

func TestOtpService_ReissueReplacesPriorCode(t *testing.T) {
	ctx := context.Background()
	f := newOtpFixture()
	f.store.SeedOtp(domain.OtpEntry{
		Identifier: "+31600000000", Code: "111111", Type: domain.ChannelMobile, ExpiresAt: f.now.Add(time.Minute),
	})

	require.NoError(t, f.svc.Issue(ctx, domain.ChannelMobile, "+31600000000"))
	code, _ := f.sms.LastCode("+31600000000")

	if code != "111111" {
		err := f.svc.Verify(ctx, domain.ChannelMobile, "+31600000000", "111111")
		assert.ErrorIs(t, err, domain.ErrInvalidOtp)
	}
	assert.NoError(t, f.svc.Verify(ctx, domain.ChannelMobile, "+31600000000", code))
	assert.Equal(t, 0, f.email.Count())
}

func TestOtpService_Expiry(t *testing.T) {
	ctx := context.Background()
	f := newOtpFixture()

	require.NoError(t, f.svc.Issue(ctx, domain.ChannelEmail, "a@x.com"))
	code, _ := f.email.LastCode("a@x.com")

	f.now = f.now.Add(10*time.Minute + time.Second)
	err := f.svc.Verify(ctx, domain.ChannelEmail, "a@x.com", code)
	assert.ErrorIs(t, err, domain.ErrExpiredOtp)
	assert.Equal(t, 1, f.metrics.Verifications["email/expired"])
}

func TestOtpService_WrongIdentifierOrChannel(t *testing.T) {
	ctx := context.Background()
	f := newOtpFixture()

	require.NoError(t, f.svc.Issue(ctx, domain.ChannelEmail, "a@x.com"))
	code, _ := f.email.LastCode("a@x.com")

	assert.ErrorIs(t, f.svc.Verify(ctx, domain.ChannelEmail, "b@x.com", code), domain.ErrInvalidOtp)
	assert.ErrorIs(t, f.svc.Verify(ctx, domain.ChannelMobile, "a@x.com", code), domain.ErrInvalidOtp)
	assert.ErrorIs(t, f.svc.Verify(ctx, domain.Channel("fax"), "a@x.com", code), domain.ErrValidation)
}

func TestOtpService_DeliveryFailureDiscardsEntry(t *testing.T) {
	ctx := context.Background()
	f := newOtpFixture()
	f.email.SendError = errors.New("smtp down")

	err := f.svc.Issue(ctx, domain.ChannelEmail, "a@x.com")
	assert.ErrorIs(t, err, domain.ErrDelivery)

	_, ok := f.store.OtpFor("a@x.com", domain.ChannelEmail)
	assert.False(t, ok, "undelivered code must not stay live")
	assert.Equal(t, 0, f.metrics.Issued[domain.ChannelEmail])
}

func TestOtpService_IssueValidation(t *testing.T) {
	ctx := context.Background()
	f := newOtpFixture()

	assert.ErrorIs(t, f.svc.Issue(ctx, domain.ChannelEmail, "   "), domain.ErrValidation)
	assert.ErrorIs(t, f.svc.Issue(ctx, domain.Channel("fax"), "x"), domain.ErrValidation)

	f.store.ReplaceOtpError = errors.New("disk full")
	err := f.svc.Issue(ctx, domain.ChannelEmail, "a@x.com")
	require.Error(t, err)
	assert.Equal(t, 0, f.email.Count())
}
