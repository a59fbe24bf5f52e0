package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"hdrcommit/internal/config"
	"hdrcommit/internal/infrastructure/kafka"
	"hdrcommit/internal/infrastructure/logging"
	"hdrcommit/internal/infrastructure/telemetry"
	"hdrcommit/internal/streaming"
)

var version = "dev"

func main() {
	envFile := flag.String("env-file", "", "load environment variables from this file")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*envFile)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if len(cfg.KafkaBrokers) == 0 {
		log.Fatalf("KAFKA_BROKERS is required")
	}
	if len(cfg.AlertChainIDs) == 0 {
		log.Fatalf("ALERT_CHAIN_IDS is required")
	}

	rotating, err := logging.Init(logging.Config{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		Service:    "hdrcommit-alerts",
	})
	if err != nil {
		log.Fatalf("logging error: %v", err)
	}
	if rotating != nil {
		defer rotating.Close()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdownTracing, err := telemetry.InitTracer(ctx, "hdrcommit-alerts", version, cfg.OtelEndpoint)
	if err != nil {
		slog.Warn("tracing init failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracing(shutdownCtx); err != nil {
				slog.Warn("tracing shutdown failed", "err", err)
			}
		}()
	}

	var wg sync.WaitGroup
	for _, chainID := range cfg.AlertChainIDs {
		consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
			Brokers:     cfg.KafkaBrokers,
			GroupID:     cfg.KafkaGroupID,
			TopicPrefix: cfg.KafkaTopicPrefix,
			ChainID:     chainID,
		}, logAlert)
		if err != nil {
			log.Fatalf("kafka consumer error: %v", err)
		}
		defer consumer.Close()

		wg.Add(1)
		go func(chain uint64) {
			defer wg.Done()
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("alert consumer stopped", "chain_id", chain, "err", err)
			}
		}(chainID)
	}

	slog.Info("following mismatch alerts", "chains", cfg.AlertChainIDs, "group", cfg.KafkaGroupID)
	<-ctx.Done()
	wg.Wait()
}

func logAlert(ctx context.Context, msg streaming.Message) error {
	slog.WarnContext(ctx, "provider mismatch",
		"chain_id", msg.ChainID,
		"block", msg.BlockNumber,
		"tag", msg.BlockTag,
		"mismatched", strings.Join(msg.Mismatched, ","),
		"primary", msg.Primary.Endpoint,
		"primary_commitment", msg.Primary.Commitment,
		"secondary", msg.Secondary.Endpoint,
		"secondary_commitment", msg.Secondary.Commitment,
		"observed_at", time.Unix(msg.ObservedAt, 0).UTC(),
	)
	return nil
}
