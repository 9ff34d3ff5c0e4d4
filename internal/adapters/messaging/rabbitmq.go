package messaging

import (
	"context"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/AchilleasB/smart-city/citizen-services/internal/config"
)

// channel is the part of *amqp.Channel the broker publishes through.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// RabbitMQBroker publishes JSON messages to durable queues on the default exchange.
type RabbitMQBroker struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	pub  channel
	mu   sync.Mutex
	cb   *gobreaker.CircuitBreaker
}

// NewRabbitMQBroker dials amqpURL and declares every queue it will publish to.
func NewRabbitMQBroker(amqpURL string, logger *zap.Logger, queues ...string) (*RabbitMQBroker, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	for _, q := range queues {
		_, err = ch.QueueDeclare(
			q,
			true,  // durable
			false, // autoDelete
			false, // exclusive
			false, // noWait
			nil,
		)
		if err != nil {
			ch.Close()
			conn.Close()
			return nil, err
		}
	}

	return &RabbitMQBroker{
		conn: conn,
		ch:   ch,
		pub:  ch,
		cb:   config.NewCircuitBreaker(config.BreakerRabbitMQ, logger),
	}, nil
}

func newBrokerWithChannel(pub channel, cb *gobreaker.CircuitBreaker) *RabbitMQBroker {
	return &RabbitMQBroker{pub: pub, cb: cb}
}

// Publish sends body to queue as a persistent message.
func (b *RabbitMQBroker) Publish(ctx context.Context, queue string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := b.cb.Execute(func() (interface{}, error) {
		b.mu.Lock()
		defer b.mu.Unlock()
		return nil, b.pub.PublishWithContext(
			ctx,
			"",    // default exchange
			queue, // routing key == queue name
			false, // mandatory
			false, // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Body:         body,
			},
		)
	})
	return err
}

// Healthy reports whether the connection is open and the breaker is not open.
func (b *RabbitMQBroker) Healthy() bool {
	if b.conn != nil && b.conn.IsClosed() {
		return false
	}
	return b.cb.State() != gobreaker.StateOpen
}

func (b *RabbitMQBroker) Close() error {
	if b.ch != nil {
		if err := b.ch.Close(); err != nil {
			return err
		}
	}
	if b.conn != nil {
		return b.conn.Close()
	}
	return nil
}
