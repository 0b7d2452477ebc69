package webhook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"award-registration/internal/logger"
	"award-registration/internal/models"
	"award-registration/internal/utils"
)

// Sink observes verified confirmations.
type Sink interface {
	Deliver(ctx context.Context, c models.Confirmation) error
}

// LogSink writes the operational confirmation line.
type LogSink struct {
	Log *logger.Logger
}

func (s LogSink) Deliver(_ context.Context, c models.Confirmation) error {
	s.Log.LogPayment("CONFIRMED", c.IntentID, fmt.Sprintf("Payment confirmed: %s (%s) %s %s",
		c.BuyerName(), c.Email, utils.FormatCents(c.Amount), c.Tier))
	return nil
}

// Publisher is satisfied by the Kafka producer.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// DefaultPublishTimeout bounds how long a callback acknowledgement waits on
// the broker.
const DefaultPublishTimeout = 3 * time.Second

// KafkaSink publishes confirmations keyed by intent id.
type KafkaSink struct {
	Publisher Publisher
	Topic     string
	// Timeout defaults to DefaultPublishTimeout.
	Timeout time.Duration
}

func (s KafkaSink) Deliver(ctx context.Context, c models.Confirmation) error {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.Publisher.Publish(ctx, s.Topic, c.IntentID, c)
}

// Emitter is satisfied by the SSE confirmation emitter.
type Emitter interface {
	Emit(c models.Confirmation) int
}

type EmitterSink struct {
	Emitter Emitter
}

func (s EmitterSink) Deliver(_ context.Context, c models.Confirmation) error {
	s.Emitter.Emit(c)
	return nil
}

// MultiSink delivers to every sink even when some fail.
type MultiSink []Sink

func (m MultiSink) Deliver(ctx context.Context, c models.Confirmation) error {
	var errs []error
	for _, s := range m {
		if err := s.Deliver(ctx, c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
