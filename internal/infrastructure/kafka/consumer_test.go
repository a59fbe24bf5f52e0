package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"hdrcommit/internal/infrastructure/telemetry"
	"hdrcommit/internal/streaming"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

type fakeReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []int64
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.queue) == 0 {
		r.cancel()
		return kafka.Message{}, ctx.Err()
	}
	message := r.queue[0]
	r.queue = r.queue[1:]
	return message, nil
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, msg := range msgs {
		r.committed = append(r.committed, msg.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func alertPayload(t *testing.T, block uint64) []byte {
	t.Helper()
	payload, err := streaming.Encode(streaming.Message{
		Type:        streaming.MessageTypeMismatch,
		ChainID:     137,
		BlockNumber: block,
		Mismatched:  []string{"hash", "commitment"},
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return payload
}

func TestConsumerDeliversAlerts(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	producerCtx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))
	var headers []kafka.Header
	telemetry.InjectKafkaHeaders(producerCtx, &headers)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	reader := &fakeReader{cancel: cancel, queue: []kafka.Message{
		{Offset: 1, Value: alertPayload(t, 5000), Headers: headers},
		{Offset: 2, Value: []byte("not json")},
		{Offset: 3, Value: alertPayload(t, 5001)},
	}}

	var (
		blocks []uint64
		traces []trace.TraceID
	)
	consumer, err := newConsumer(reader, 137, func(ctx context.Context, msg streaming.Message) error {
		blocks = append(blocks, msg.BlockNumber)
		traces = append(traces, trace.SpanContextFromContext(ctx).TraceID())
		return nil
	})
	if err != nil {
		t.Fatalf("new consumer: %v", err)
	}
	if err := consumer.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	if len(blocks) != 2 || blocks[0] != 5000 || blocks[1] != 5001 {
		t.Fatalf("unexpected alerts %v", blocks)
	}
	if traces[0] != traceID {
		t.Fatalf("trace context not restored from headers: %s", traces[0])
	}
	if len(reader.committed) != 3 {
		t.Fatalf("expected every message committed, got %v", reader.committed)
	}
}

func TestConsumerLeavesFailedAlertUncommitted(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	reader := &fakeReader{cancel: cancel, queue: []kafka.Message{{Offset: 7, Value: alertPayload(t, 9)}}}

	consumer, err := newConsumer(reader, 137, func(ctx context.Context, msg streaming.Message) error {
		return errors.New("sink down")
	})
	if err != nil {
		t.Fatalf("new consumer: %v", err)
	}
	consumer.retryGap = time.Millisecond
	_ = consumer.Run(ctx)

	if len(reader.committed) != 0 {
		t.Fatalf("failed alert must not be committed, got %v", reader.committed)
	}
}

func TestNewConsumerValidates(t *testing.T) {
	handler := func(context.Context, streaming.Message) error { return nil }
	if _, err := NewConsumer(ConsumerConfig{ChainID: 1}, handler); err == nil {
		t.Fatalf("expected brokers error")
	}
	if _, err := NewConsumer(ConsumerConfig{Brokers: []string{"localhost:9092"}}, handler); err == nil {
		t.Fatalf("expected chain id error")
	}
	if _, err := newConsumer(&fakeReader{}, 1, nil); err == nil {
		t.Fatalf("expected handler error")
	}
}
