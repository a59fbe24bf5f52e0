// Package alerting wires the configured mismatch sinks into one notifier.
package alerting

import (
	"io"
	"log/slog"

	"hdrcommit/internal/application"
	"hdrcommit/internal/config"
	"hdrcommit/internal/infrastructure/kafka"
	"hdrcommit/internal/infrastructure/redis"
)

// Notifiers connects every sink configured in cfg. A sink that cannot be
// reached is skipped with a warning so checks still run. The returned func
// closes the connected sinks.
func Notifiers(cfg config.Config) (application.Notifiers, func()) {
	var (
		notifiers application.Notifiers
		closers   []io.Closer
	)
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err := kafka.NewPublisher(kafka.PublisherConfig{
			Brokers:     cfg.KafkaBrokers,
			TopicPrefix: cfg.KafkaTopicPrefix,
		})
		if err != nil {
			slog.Warn("kafka alerts disabled", "err", err)
		} else {
			notifiers = append(notifiers, publisher)
			closers = append(closers, publisher)
		}
	}
	if cfg.RedisAddr != "" {
		publisher, err := redis.NewPublisher(redis.Config{Addr: cfg.RedisAddr, Channel: cfg.RedisChannel})
		if err != nil {
			slog.Warn("redis alerts disabled", "addr", cfg.RedisAddr, "err", err)
		} else {
			notifiers = append(notifiers, publisher)
			closers = append(closers, publisher)
		}
	}
	return notifiers, func() {
		for _, closer := range closers {
			if err := closer.Close(); err != nil {
				slog.Warn("close notifier", "err", err)
			}
		}
	}
}
