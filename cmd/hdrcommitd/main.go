package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hdrcommit/internal/application"
	"hdrcommit/internal/config"
	"hdrcommit/internal/infrastructure/alerting"
	"hdrcommit/internal/infrastructure/ethrpc"
	"hdrcommit/internal/infrastructure/logging"
	"hdrcommit/internal/infrastructure/telemetry"
	"hdrcommit/internal/interfaces/httpapi"
)

var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

func main() {
	envFile := flag.String("env-file", "", "load environment variables from this file")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*envFile)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := serve(cfg); err != nil {
		log.Fatalf("%v", err)
	}
}

func serve(cfg config.Config) error {

	rotating, err := logging.Init(logging.Config{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		Service:    "hdrcommitd",
	})
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if rotating != nil {
		defer rotating.Close()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdownTracing, err := telemetry.InitTracer(ctx, "hdrcommitd", version, cfg.OtelEndpoint)
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

	primary, err := ethrpc.NewClient(ethrpc.Config{URL: cfg.RPCURL, Timeout: cfg.RPCTimeout})
	if err != nil {
		return fmt.Errorf("rpc: %w", err)
	}

	metrics := httpapi.NewMetrics()
	single, err := application.NewChecker(primary, nil, nil, metrics)
	if err != nil {
		return err
	}

	var cross httpapi.Checker
	if cfg.RPCURL2 != "" {
		secondary, err := ethrpc.NewClient(ethrpc.Config{URL: cfg.RPCURL2, Timeout: cfg.RPCTimeout})
		if err != nil {
			return fmt.Errorf("rpc: %w", err)
		}
		notifiers, closeNotifiers := alerting.Notifiers(cfg)
		defer closeNotifiers()
		checker, err := application.NewChecker(primary, secondary, notifiers, metrics)
		if err != nil {
			return err
		}
		cross = checker
		slog.Info("cross-check enabled", "primary", primary.Endpoint(), "secondary", secondary.Endpoint(), "notifiers", len(notifiers))
	}

	server, err := httpapi.NewServer(single, cross, primary, metrics, httpapi.BuildInfo{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
	})
	if err != nil {
		return err
	}

	if cross != nil && cfg.WatchInterval > 0 {
		watcher, err := application.NewWatcher(primary, cross, application.WatcherConfig{
			Confirmations: cfg.WatchConfirms,
			PollInterval:  cfg.WatchInterval,
		})
		if err != nil {
			return err
		}
		go func() {
			if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("watcher stopped", "err", err)
			}
		}()
		slog.Info("watching new blocks", "interval", cfg.WatchInterval, "confirmations", cfg.WatchConfirms)
	}

	slog.Info("http server listening", "addr", cfg.HTTPAddr, "primary", primary.Endpoint())
	if err := server.ListenAndServe(ctx, cfg.HTTPAddr); err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	slog.Info("http server stopped")
	return nil
}
