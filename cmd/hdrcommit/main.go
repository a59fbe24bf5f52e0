package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hdrcommit/internal/application"
	"hdrcommit/internal/config"
	"hdrcommit/internal/domain"
	"hdrcommit/internal/infrastructure/alerting"
	"hdrcommit/internal/infrastructure/ethrpc"
	"hdrcommit/internal/infrastructure/logging"
	"hdrcommit/internal/infrastructure/telemetry"
	"hdrcommit/internal/interfaces/render"
)

var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

const (
	exitOK       = 0
	exitFailure  = 1
	exitUsage    = 2
	exitMismatch = 3
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("hdrcommit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	rpc1 := fs.String("rpc1", "", "primary RPC URL (overrides RPC_URL)")
	rpc2 := fs.String("rpc2", "", "secondary RPC URL for cross-checking (overrides RPC_URL_2)")
	block := fs.String("block", "", "block number (decimal or 0x hex) or latest|finalized|safe|earliest (overrides BLOCK)")
	output := fs.String("output", "", "report format: text or json (overrides OUTPUT)")
	envFile := fs.String("env-file", "", "load environment variables from this file")
	timeout := fs.Duration("timeout", 0, "per-request RPC timeout (overrides RPC_TIMEOUT)")
	strict := fs.Bool("strict", false, "exit with status 3 when providers disagree")
	showVersion := fs.Bool("version", false, "print version and exit")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: hdrcommit [flags]\n\nCommits to an Ethereum block header and optionally cross-checks it against a second provider.\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if *showVersion {
		fmt.Fprintf(stdout, "hdrcommit %s (commit %s, built %s)\n", version, commit, buildTime)
		return exitOK
	}

	cfg, err := config.LoadFromEnv(*envFile)
	if err != nil {
		fmt.Fprintf(stderr, "config error: %v\n", err)
		return exitUsage
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "rpc1":
			cfg.RPCURL = *rpc1
		case "rpc2":
			cfg.RPCURL2 = *rpc2
		case "block":
			cfg.Block = *block
		case "output":
			cfg.Output = *output
		case "timeout":
			cfg.RPCTimeout = *timeout
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "config error: %v\n", err)
		fs.Usage()
		return exitUsage
	}
	tag, err := domain.ParseBlockTag(cfg.Block)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return exitUsage
	}

	rotating, err := logging.Init(logging.Config{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		Service:    "hdrcommit",
		Stderr:     true,
	})
	if err != nil {
		fmt.Fprintf(stderr, "logging error: %v\n", err)
		return exitFailure
	}
	if rotating != nil {
		defer rotating.Close()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdownTracing, err := telemetry.InitTracer(ctx, "hdrcommit", version, cfg.OtelEndpoint)
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
		fmt.Fprintf(stderr, "rpc error: %v\n", err)
		return exitUsage
	}
	var secondary application.HeaderSource
	if cfg.RPCURL2 != "" {
		client, err := ethrpc.NewClient(ethrpc.Config{URL: cfg.RPCURL2, Timeout: cfg.RPCTimeout})
		if err != nil {
			fmt.Fprintf(stderr, "rpc error: %v\n", err)
			return exitUsage
		}
		secondary = client
	}

	notifiers, closeNotifiers := alerting.Notifiers(cfg)
	defer closeNotifiers()

	checker, err := application.NewChecker(primary, secondary, notifiers, nil)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return exitFailure
	}

	slog.Debug("checking block", "block", tag.String(), "primary", primary.Endpoint(), "cross_check", checker.HasSecondary())
	report, checkErr := checker.Check(ctx, tag)
	if err := render.Write(stdout, cfg.Output, render.NewView(report, checkErr)); err != nil {
		fmt.Fprintf(stderr, "render error: %v\n", err)
		return exitFailure
	}

	switch {
	case checkErr != nil:
		return exitFailure
	case *strict && report.Mismatch():
		return exitMismatch
	}
	return exitOK
}
