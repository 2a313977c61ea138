// Package events provides a PostgreSQL-backed pub/sub EventBus built on Watermill.
//
// Publishing goes through NewTxPublisher so the event row is written in the
// same transaction as the business data: either both are committed or neither.
// All instances with the same service name share a consumer group, so each
// message is processed by exactly one instance.
//
// Message handlers should be idempotent. A handler error Nacks the message and
// Watermill redelivers it; there is no bus-level retry loop.
//
// OTel trace context is injected into message metadata on publish and
// extracted on subscribe.
package events

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/ghuser/itemsapi/pkg/logger"
)

const shutdownTimeout = 30 * time.Second

// Handler processes a single message. Returning an error Nacks the message.
type Handler func(context.Context, *message.Message) error

// EventBus is a PostgreSQL-backed pub/sub EventBus built on Watermill's SQL transport.
// Publishing is transactional only (PublishTx); the bus owns no long-lived publisher.
type EventBus struct {
	subscriber *watermillsql.Subscriber
	log        logger.Logger
	wg         sync.WaitGroup
}

// NewEventBus builds a subscriber on db and creates the Watermill tables for
// each of topics, so transactional publishers never need to initialize
// schema themselves.
func NewEventBus(db *sql.DB, consumerGroup string, log logger.Logger, topics ...string) (*EventBus, error) {
	wlog := &slogAdapter{log: log}

	sub, err := watermillsql.NewSubscriber(
		db,
		watermillsql.SubscriberConfig{
			SchemaAdapter:    watermillsql.DefaultPostgreSQLSchema{},
			OffsetsAdapter:   watermillsql.DefaultPostgreSQLOffsetsAdapter{},
			InitializeSchema: true,
			ConsumerGroup:    consumerGroup,
		},
		wlog,
	)
	if err != nil {
		return nil, fmt.Errorf("events: new subscriber: %w", err)
	}

	for _, topic := range topics {
		if err := sub.SubscribeInitialize(topic); err != nil {
			_ = sub.Close()
			return nil, fmt.Errorf("events: initialize topic %s: %w", topic, err)
		}
	}

	return &EventBus{
		subscriber: sub,
		log:        log,
	}, nil
}

// NewTxPublisher returns a Publisher bound to tx. Publish calls on it are
// part of tx and become visible to subscribers only after commit.
func (q *EventBus) NewTxPublisher(tx *sql.Tx) (message.Publisher, error) {
	pub, err := watermillsql.NewPublisher(
		tx,
		watermillsql.PublisherConfig{
			SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
			AutoInitializeSchema: false,
		},
		&slogAdapter{log: q.log},
	)
	if err != nil {
		return nil, fmt.Errorf("events: new tx publisher: %w", err)
	}
	return pub, nil
}

// PublishTx publishes msgs to topic inside tx, carrying the trace context of ctx.
func (q *EventBus) PublishTx(ctx context.Context, tx *sql.Tx, topic string, msgs ...*message.Message) error {
	pub, err := q.NewTxPublisher(tx)
	if err != nil {
		return err
	}
	injectTrace(ctx, msgs)
	if err := pub.Publish(topic, msgs...); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: publish to %s: %w", topic, err)
	}
	return nil
}

// Subscribe consumes topic in the background until ctx is cancelled or the
// bus is closed. All in-flight handlers complete before Close returns.
func (q *EventBus) Subscribe(ctx context.Context, topic string, handler Handler) error {
	ch, err := q.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return fmt.Errorf("events: subscribe to %s: %w", topic, err)
	}

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		for msg := range ch {
			dispatch(extractTrace(ctx, msg), msg, handler, q.log.With("topic", topic))
		}
	}()

	return nil
}

// dispatch runs handler and Acks or Nacks msg. Returns true when acked.
func dispatch(ctx context.Context, msg *message.Message, handler Handler, log logger.Logger) bool {
	if err := handler(ctx, msg); err != nil {
		log.ErrorContext(ctx, "events: handler failed, message nacked",
			"message_uuid", msg.UUID,
			"error", err,
		)
		msg.Nack()
		return false
	}
	msg.Ack()
	return true
}

func injectTrace(ctx context.Context, msgs []*message.Message) {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for _, msg := range msgs {
		for k, v := range carrier {
			msg.Metadata.Set(k, v)
		}
	}
}

func extractTrace(ctx context.Context, msg *message.Message) context.Context {
	carrier := propagation.MapCarrier{}
	for k, v := range msg.Metadata {
		carrier[k] = v
	}
	return otel.GetTextMapPropagator().Extract(ctx, carrier)
}

// Close stops the subscriber and waits for in-flight handlers (30 s max).
// The database handle belongs to the caller.
func (q *EventBus) Close() error {
	if err := q.subscriber.Close(); err != nil {
		return fmt.Errorf("events: close subscriber: %w", err)
	}

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(shutdownTimeout):
		q.log.Error("events: timed out waiting for in-flight handlers to complete")
	}
	return nil
}

// slogAdapter bridges logger.Logger to watermill.LoggerAdapter.
type slogAdapter struct{ log logger.Logger }

func (a *slogAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.log.Error(msg, append(fieldsToArgs(fields), "error", err)...)
}
func (a *slogAdapter) Info(msg string, fields watermill.LogFields) {
	a.log.Info(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) Debug(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) Trace(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &slogAdapter{log: a.log.With(fieldsToArgs(fields)...)}
}

func fieldsToArgs(fields watermill.LogFields) []any {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return args
}
