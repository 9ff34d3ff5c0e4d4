package messaging

import (
	"context"
	"time"

	"github.com/bytedance/sonic"

	"github.com/AchilleasB/smart-city/citizen-services/internal/core/ports"
)

// OtpEmailMessage is consumed by the mailer service.
type OtpEmailMessage struct {
	To        string `json:"to"`
	Subject   string `json:"subject"`
	Code      string `json:"code"`
	ExpiresIn int    `json:"expires_in_minutes"`
}

// EmailOtpSender hands OTP emails to the mail queue.
type EmailOtpSender struct {
	broker *RabbitMQBroker
	queue  string
	ttl    time.Duration
}

var _ ports.OtpSender = (*EmailOtpSender)(nil)

func NewEmailOtpSender(broker *RabbitMQBroker, queue string, ttl time.Duration) *EmailOtpSender {
	return &EmailOtpSender{broker: broker, queue: queue, ttl: ttl}
}

func (s *EmailOtpSender) SendOtp(ctx context.Context, identifier, code string) error {
	body, err := sonic.Marshal(OtpEmailMessage{
		To:        identifier,
		Subject:   "Your verification code",
		Code:      code,
		ExpiresIn: int(s.ttl / time.Minute),
	})
	if err != nil {
		return err
	}
	return s.broker.Publish(ctx, s.queue, body)
}

// ComplaintEventPublisher forwards complaint status events for notification consumers.
type ComplaintEventPublisher struct {
	broker *RabbitMQBroker
	queue  string
}

var _ ports.ComplaintEventPublisher = (*ComplaintEventPublisher)(nil)

func NewComplaintEventPublisher(broker *RabbitMQBroker, queue string) *ComplaintEventPublisher {
	return &ComplaintEventPublisher{broker: broker, queue: queue}
}

func (p *ComplaintEventPublisher) PublishComplaintEvent(ctx context.Context, evt ports.ComplaintStatusChanged) error {
	body, err := sonic.Marshal(evt)
	if err != nil {
		return err
	}
	return p.broker.Publish(ctx, p.queue, body)
}
