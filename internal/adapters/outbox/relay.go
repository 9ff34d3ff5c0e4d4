package outbox

import (
	"context"
	"database/sql"
	"errors"
	"sync/atomic"
	"time"

	"github.com/bytedance/sonic"
	"github.com/lib/pq"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/AchilleasB/smart-city/citizen-services/internal/config"
	"github.com/AchilleasB/smart-city/citizen-services/internal/core/ports"
)

const (
	// PostgreSQL NOTIFY/LISTEN configuration
	listenerMinReconnectInterval = 10 * time.Second
	listenerMaxReconnectInterval = time.Minute
	outboxChannelName            = "outbox_channel"

	eventProcessTimeout     = 30 * time.Second
	batchProcessTimeout     = 60 * time.Second
	periodicProcessInterval = 90 * time.Second

	healthCheckStaleThreshold = 5 * time.Minute

	maxEventsPerBatch = 100
)

const markProcessed = `UPDATE outbox_events SET processed_at = NOW() WHERE id = $1`

// Relay forwards complaint events written to outbox_events to the broker.
// It wakes on NOTIFY from the insert trigger and sweeps the table periodically
// for anything it missed.
type Relay struct {
	db        *sql.DB
	dbURL     string
	publisher ports.ComplaintEventPublisher
	dbCB      *gobreaker.CircuitBreaker
	logger    *zap.Logger

	lastProcessed atomic.Int64
	healthy       atomic.Bool
}

func NewRelay(db *sql.DB, dbURL string, publisher ports.ComplaintEventPublisher, logger *zap.Logger) *Relay {
	r := &Relay{
		db:        db,
		dbURL:     dbURL,
		publisher: publisher,
		dbCB:      config.NewCircuitBreaker(config.BreakerRelayDB, logger),
		logger:    logger,
	}
	r.touch()
	r.healthy.Store(true)
	return r
}

// IsHealthy is the liveness answer. An open breaker is degraded, not dead.
func (r *Relay) IsHealthy() bool {
	return r.healthy.Load()
}

// IsReady reports whether events are flowing.
func (r *Relay) IsReady() bool {
	if r.dbCB.State() == gobreaker.StateOpen {
		return false
	}
	last := time.Unix(0, r.lastProcessed.Load())
	if time.Since(last) > healthCheckStaleThreshold {
		return false
	}
	return r.healthy.Load()
}

func (r *Relay) touch() {
	r.lastProcessed.Store(time.Now().UnixNano())
}

// Start blocks until ctx is cancelled.
func (r *Relay) Start(ctx context.Context) error {
	reportProblem := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			r.logger.Warn("outbox listener problem", zap.Int("event", int(ev)), zap.Error(err))
		}
	}

	listener := pq.NewListener(r.dbURL, listenerMinReconnectInterval, listenerMaxReconnectInterval, reportProblem)
	defer listener.Close()

	if err := listener.Listen(outboxChannelName); err != nil {
		return err
	}
	r.logger.Info("outbox relay listening", zap.String("channel", outboxChannelName))

	if err := r.ProcessBacklog(ctx); err != nil {
		r.logger.Error("outbox startup backlog failed", zap.Error(err))
	}

	ticker := time.NewTicker(periodicProcessInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("outbox relay shutting down")
			return ctx.Err()

		case notification := <-listener.Notify:
			if notification == nil {
				// pq sends nil after re-establishing the connection.
				r.logger.Warn("outbox listener reconnected, sweeping backlog")
				if err := r.ProcessBacklog(ctx); err != nil {
					r.healthy.Store(false)
					r.logger.Error("outbox sweep after reconnect failed", zap.Error(err))
				}
				continue
			}

			if err := r.ProcessEvent(ctx, notification.Extra); err != nil {
				r.logger.Error("outbox event failed", zap.String("event_id", notification.Extra), zap.Error(err))
			}

		case <-ticker.C:
			go listener.Ping()
			if err := r.ProcessBacklog(ctx); err != nil {
				r.logger.Error("outbox periodic sweep failed", zap.Error(err))
			}
		}
	}
}

type record struct {
	ID        string
	EventType string
	Payload   []byte
}

// ProcessEvent publishes one event and marks it processed. Events already
// processed or locked by another relay are skipped.
func (r *Relay) ProcessEvent(ctx context.Context, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, eventProcessTimeout)
	defer cancel()

	_, err := r.dbCB.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		var rec record
		err = tx.QueryRowContext(ctx, `
			SELECT id, event_type, payload
			FROM outbox_events
			WHERE id = $1 AND processed_at IS NULL
			FOR UPDATE SKIP LOCKED`, eventID).Scan(&rec.ID, &rec.EventType, &rec.Payload)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		if err := r.deliver(ctx, rec); err != nil {
			return nil, err
		}
		if _, err := tx.ExecContext(ctx, markProcessed, rec.ID); err != nil {
			return nil, err
		}
		return nil, tx.Commit()
	})
	if err == nil {
		r.success()
	}
	return err
}

// ProcessBacklog publishes up to maxEventsPerBatch pending events, oldest
// first. An event whose publish fails stays pending for the next sweep.
func (r *Relay) ProcessBacklog(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, batchProcessTimeout)
	defer cancel()

	_, err := r.dbCB.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		rows, err := tx.QueryContext(ctx, `
			SELECT id, event_type, payload
			FROM outbox_events
			WHERE processed_at IS NULL
			ORDER BY created_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED`, maxEventsPerBatch)
		if err != nil {
			return nil, err
		}

		var records []record
		for rows.Next() {
			var rec record
			if err := rows.Scan(&rec.ID, &rec.EventType, &rec.Payload); err != nil {
				rows.Close()
				return nil, err
			}
			records = append(records, rec)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}

		for _, rec := range records {
			if err := r.deliver(ctx, rec); err != nil {
				r.logger.Warn("outbox publish failed, will retry", zap.String("event_id", rec.ID), zap.Error(err))
				continue
			}
			if _, err := tx.ExecContext(ctx, markProcessed, rec.ID); err != nil {
				return nil, err
			}
			r.logger.Debug("outbox event processed", zap.String("event_id", rec.ID))
		}
		return nil, tx.Commit()
	})
	if err == nil {
		r.success()
	}
	return err
}

// deliver publishes rec. Undecodable payloads and unknown event types are
// dropped (nil error) so that they do not block the queue forever.
func (r *Relay) deliver(ctx context.Context, rec record) error {
	if rec.EventType != ports.ComplaintStatusChangedEvent {
		r.logger.Warn("outbox event type not routed", zap.String("event_id", rec.ID), zap.String("event_type", rec.EventType))
		return nil
	}
	var evt ports.ComplaintStatusChanged
	if err := sonic.Unmarshal(rec.Payload, &evt); err != nil {
		r.logger.Error("outbox payload undecodable, dropping", zap.String("event_id", rec.ID), zap.Error(err))
		return nil
	}
	return r.publisher.PublishComplaintEvent(ctx, evt)
}

func (r *Relay) success() {
	r.touch()
	r.healthy.Store(true)
}
