package events

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.opentelemetry.io/otel/trace"

	"github.com/ghuser/itemsapi/pkg/logger"
)

func setupTracer() *sdktrace.TracerProvider {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return tp
}

func isClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func TestDispatch_AcksOnSuccess(t *testing.T) {
	msg := message.NewMessage(watermill.NewUUID(), nil)
	ok := dispatch(context.Background(), msg, func(context.Context, *message.Message) error {
		return nil
	}, logger.Discard())

	if !ok {
		t.Fatal("expected dispatch to report ack")
	}
	if !isClosed(msg.Acked()) {
		t.Error("expected message to be acked")
	}
}

func TestDispatch_NacksOnError(t *testing.T) {
	var buf bytes.Buffer
	msg := message.NewMessage(watermill.NewUUID(), nil)
	ok := dispatch(context.Background(), msg, func(context.Context, *message.Message) error {
		return errors.New("cache down")
	}, logger.NewWithWriter(&buf, "info"))

	if ok {
		t.Fatal("expected dispatch to report nack")
	}
	if !isClosed(msg.Nacked()) {
		t.Error("expected message to be nacked")
	}
	if !bytes.Contains(buf.Bytes(), []byte("cache down")) {
		t.Errorf("expected handler error in log, got %s", buf.String())
	}
}

func TestTracePropagation_InjectExtract(t *testing.T) {
	tp := setupTracer()
	defer tp.Shutdown(context.Background()) //nolint:errcheck

	ctx, span := otel.Tracer("test").Start(context.Background(), "publish-span")
	defer span.End()
	wantTraceID := span.SpanContext().TraceID()

	msg := message.NewMessage(watermill.NewUUID(), nil)
	injectTrace(ctx, []*message.Message{msg})

	got := trace.SpanFromContext(extractTrace(context.Background(), msg)).SpanContext()
	if !got.IsValid() {
		t.Fatal("extracted span context is not valid")
	}
	if got.TraceID() != wantTraceID {
		t.Errorf("trace ID mismatch: want %s, got %s", wantTraceID, got.TraceID())
	}
}

func TestFieldsToArgs(t *testing.T) {
	args := fieldsToArgs(watermill.LogFields{"topic": "item.created"})
	if len(args) != 2 || args[0] != "topic" || args[1] != "item.created" {
		t.Fatalf("unexpected args: %v", args)
	}
}

// The SQL transport accepts database/sql handles directly.
func TestStdSQLHandlesSatisfyTransport(t *testing.T) {
	var _ watermillsql.Beginner = (*sql.DB)(nil)
	var _ watermillsql.ContextExecutor = (*sql.DB)(nil)
	var _ watermillsql.ContextExecutor = (*sql.Tx)(nil)
}

// Integration tests, skipped unless TEST_DATABASE_URL is set.
func TestEventBusIntegration(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping integration tests")
	}

	db, err := sql.Open("pgx", url)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	const topic = "events_test.created"
	bus, err := NewEventBus(db, "events-test", logger.Discard(), topic)
	if err != nil {
		t.Fatalf("NewEventBus: %v", err)
	}
	defer bus.Close()

	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := bus.PublishTx(context.Background(), tx, topic, message.NewMessage(watermill.NewUUID(), []byte(`{}`))); err != nil {
		_ = tx.Rollback()
		t.Fatalf("PublishTx: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
}
