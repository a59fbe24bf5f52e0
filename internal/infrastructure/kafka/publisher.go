package kafka

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hdrcommit/internal/application"
	"hdrcommit/internal/infrastructure/telemetry"
	"hdrcommit/internal/streaming"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultTopicPrefix = "hdrcommit-mismatch"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher streams mismatch alerts to one topic per chain.
type Publisher struct {
	writer messageWriter
	prefix string
	now    func() time.Time
}

type PublisherConfig struct {
	Brokers     []string
	TopicPrefix string
}

func NewPublisher(cfg PublisherConfig) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return newPublisher(writer, cfg.TopicPrefix), nil
}

func newPublisher(writer messageWriter, prefix string) *Publisher {
	if strings.TrimSpace(prefix) == "" {
		prefix = defaultTopicPrefix
	}
	return &Publisher{writer: writer, prefix: prefix, now: time.Now}
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func (p *Publisher) NotifyMismatch(ctx context.Context, report *application.Report) error {
	msg, err := streaming.FromReport(report, p.now())
	if err != nil {
		return err
	}

	ctx, span := otel.Tracer("hdrcommit/kafka").Start(ctx, "kafka.publish_mismatch", trace.WithSpanKind(trace.SpanKindProducer))
	defer span.End()
	span.SetAttributes(
		attribute.Int64("chain.id", int64(msg.ChainID)),
		attribute.Int64("block.number", int64(msg.BlockNumber)),
		attribute.StringSlice("mismatched", msg.Mismatched),
	)
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		msg.TraceID = sc.TraceID().String()
	}

	payload, err := streaming.Encode(msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	headers := make([]kafka.Header, 0, 2)
	telemetry.InjectKafkaHeaders(ctx, &headers)

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Topic:   p.topicForChain(msg.ChainID),
		Key:     []byte(fmt.Sprintf("block:%d", msg.BlockNumber)),
		Value:   payload,
		Headers: headers,
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("kafka publish: %w", err)
	}
	return nil
}

func (p *Publisher) topicForChain(chainID uint64) string {
	return fmt.Sprintf("%s-%d", p.prefix, chainID)
}
