package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AchilleasB/smart-city/citizen-services/internal/config"
	"github.com/AchilleasB/smart-city/citizen-services/internal/core/ports"
)

type published struct {
	key string
	msg amqp.Publishing
}

type fakeChannel struct {
	sent []published
	err  error
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, published{key: key, msg: msg})
	return nil
}

func newTestBroker(ch *fakeChannel) *RabbitMQBroker {
	return newBrokerWithChannel(ch, config.NewCircuitBreaker(config.BreakerRabbitMQ, zap.NewNop()))
}

func TestEmailOtpSender(t *testing.T) {
	ch := &fakeChannel{}
	sender := NewEmailOtpSender(newTestBroker(ch), "otp.email", 10*time.Minute)

	require.NoError(t, sender.SendOtp(context.Background(), "a@x.com", "123456"))
	require.Len(t, ch.sent, 1)
	assert.Equal(t, "otp.email", ch.sent[0].key)
	assert.Equal(t, amqp.Persistent, ch.sent[0].msg.DeliveryMode)

	var msg OtpEmailMessage
	require.NoError(t, sonic.Unmarshal(ch.sent[0].msg.Body, &msg))
	assert.Equal(t, "a@x.com", msg.To)
	assert.Equal(t, "123456", msg.Code)
	assert.Equal(t, 10, msg.ExpiresIn)
}

func TestComplaintEventPublisher(t *testing.T) {
	ch := &fakeChannel{}
	pub := NewComplaintEventPublisher(newTestBroker(ch), "complaint.events")

	evt := ports.ComplaintStatusChanged{EventID: "e-1", ComplaintID: 7, Status: "RESOLVED"}
	require.NoError(t, pub.PublishComplaintEvent(context.Background(), evt))
	require.Len(t, ch.sent, 1)

	var got ports.ComplaintStatusChanged
	require.NoError(t, sonic.Unmarshal(ch.sent[0].msg.Body, &got))
	assert.Equal(t, int64(7), got.ComplaintID)
	assert.Equal(t, "RESOLVED", got.Status)
}

func TestBroker_FailuresOpenBreaker(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	broker := newTestBroker(ch)

	for i := 0; i < 3; i++ {
		assert.Error(t, broker.Publish(context.Background(), "q", []byte("{}")))
	}
	assert.False(t, broker.Healthy())

	ch.err = nil
	assert.Error(t, broker.Publish(context.Background(), "q", []byte("{}")), "open breaker rejects calls")
	assert.Empty(t, ch.sent)
}

func TestBroker_CancelledContext(t *testing.T) {
	ch := &fakeChannel{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, newTestBroker(ch).Publish(ctx, "q", []byte("{}")), context.Canceled)
	assert.Empty(t, ch.sent)
}
