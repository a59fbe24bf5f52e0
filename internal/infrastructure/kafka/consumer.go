package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"hdrcommit/internal/infrastructure/telemetry"
	"hdrcommit/internal/streaming"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultGroupID = "hdrcommit-alerts"

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// AlertHandler receives every decoded mismatch alert.
type AlertHandler func(ctx context.Context, msg streaming.Message) error

type ConsumerConfig struct {
	Brokers     []string
	GroupID     string
	TopicPrefix string
	ChainID     uint64
}

// Consumer reads the mismatch topic of one chain, the counterpart of Publisher.
type Consumer struct {
	reader   messageReader
	handler  AlertHandler
	chainID  uint64
	retryGap time.Duration
}

func NewConsumer(cfg ConsumerConfig, handler AlertHandler) (*Consumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	if cfg.ChainID == 0 {
		return nil, errors.New("chain id is required")
	}
	prefix := cfg.TopicPrefix
	if strings.TrimSpace(prefix) == "" {
		prefix = defaultTopicPrefix
	}
	groupID := cfg.GroupID
	if strings.TrimSpace(groupID) == "" {
		groupID = defaultGroupID
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  groupID,
		Topic:    fmt.Sprintf("%s-%d", prefix, cfg.ChainID),
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return newConsumer(reader, cfg.ChainID, handler)
}

func newConsumer(reader messageReader, chainID uint64, handler AlertHandler) (*Consumer, error) {
	if handler == nil {
		return nil, errors.New("alert handler is required")
	}
	return &Consumer{reader: reader, handler: handler, chainID: chainID, retryGap: 500 * time.Millisecond}, nil
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

// Run consumes until ctx is done. Undecodable messages are committed and
// skipped; a handler failure leaves the message uncommitted.
func (c *Consumer) Run(ctx context.Context) error {
	tracer := otel.Tracer("hdrcommit/kafka")
	for {
		message, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Warn("kafka fetch failed", "chain_id", c.chainID, "err", err)
			if !sleepCtx(ctx, c.retryGap) {
				return ctx.Err()
			}
			continue
		}

		decoded, err := streaming.Decode(message.Value)
		if err != nil {
			slog.Warn("alert decode failed", "topic", message.Topic, "offset", message.Offset, "err", err)
			c.commit(ctx, message)
			continue
		}
		if decoded.ChainID != c.chainID {
			slog.Warn("alert for unexpected chain", "topic", message.Topic, "chain_id", decoded.ChainID)
		}

		msgCtx := telemetry.ExtractKafkaHeaders(ctx, message.Headers)
		msgCtx, span := tracer.Start(msgCtx, "kafka.consume_mismatch", trace.WithSpanKind(trace.SpanKindConsumer))
		span.SetAttributes(
			attribute.Int64("chain.id", int64(decoded.ChainID)),
			attribute.Int64("block.number", int64(decoded.BlockNumber)),
		)
		if err := c.handler(msgCtx, decoded); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.End()
			slog.Warn("alert handler failed", "block", decoded.BlockNumber, "err", err)
			if !sleepCtx(ctx, c.retryGap) {
				return ctx.Err()
			}
			continue
		}
		span.End()
		c.commit(ctx, message)
	}
}

func (c *Consumer) commit(ctx context.Context, message kafka.Message) {
	if err := c.reader.CommitMessages(ctx, message); err != nil {
		slog.Warn("kafka commit failed", "topic", message.Topic, "offset", message.Offset, "err", err)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
