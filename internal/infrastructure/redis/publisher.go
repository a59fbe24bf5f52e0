package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"hdrcommit/internal/application"
	"hdrcommit/internal/streaming"

	"github.com/redis/go-redis/v9"
)

const defaultChannel = "hdrcommit:mismatch"

type pubSubClient interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
	Close() error
}

type Config struct {
	Addr    string
	Channel string
}

// Publisher broadcasts mismatch alerts on a Redis pub/sub channel. Nothing is
// stored: subscribers that are not connected miss the alert.
type Publisher struct {
	client  pubSubClient
	channel string
	now     func() time.Time
}

func NewPublisher(cfg Config) (*Publisher, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, errors.New("redis addr is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return newPublisher(client, cfg.Channel), nil
}

func newPublisher(client pubSubClient, channel string) *Publisher {
	if strings.TrimSpace(channel) == "" {
		channel = defaultChannel
	}
	return &Publisher{client: client, channel: channel, now: time.Now}
}

func (p *Publisher) Close() error {
	return p.client.Close()
}

func (p *Publisher) NotifyMismatch(ctx context.Context, report *application.Report) error {
	msg, err := streaming.FromReport(report, p.now())
	if err != nil {
		return err
	}
	payload, err := streaming.Encode(msg)
	if err != nil {
		return err
	}
	receivers, err := p.client.Publish(ctx, p.channel, payload).Result()
	if err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	if receivers == 0 {
		slog.Debug("mismatch alert had no subscribers", "channel", p.channel, "block", msg.BlockNumber)
	}
	return nil
}
