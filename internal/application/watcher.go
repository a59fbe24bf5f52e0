package application

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"hdrcommit/internal/domain"
)

type HeightSource interface {
	LatestBlockNumber(ctx context.Context) (uint64, error)
}

type BlockChecker interface {
	Check(ctx context.Context, tag domain.BlockTag) (*Report, error)
}

// WatcherConfig tunes the poll loop. BatchSize caps how many heights one
// tick checks while catching up.
type WatcherConfig struct {
	Confirmations uint64
	PollInterval  time.Duration
	BatchSize     uint64
}

// Watcher cross-checks every block height as the chain advances. Heights
// are pinned numerically so both providers are asked for the same block.
type Watcher struct {
	heights HeightSource
	checker BlockChecker
	cfg     WatcherConfig
}

func NewWatcher(heights HeightSource, checker BlockChecker, cfg WatcherConfig) (*Watcher, error) {
	if heights == nil || checker == nil {
		return nil, errors.New("watcher dependencies must not be nil")
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 12 * time.Second
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 64
	}
	return &Watcher{heights: heights, checker: checker, cfg: cfg}, nil
}

// Run polls until ctx is done. The first tick checks the confirmed head;
// later ticks walk every height after the last completed one, at most
// BatchSize per tick. A failed check ends the sweep and is retried first on
// the next tick.
func (w *Watcher) Run(ctx context.Context) error {
	var (
		next    uint64
		started bool
	)
	for {
		latest, err := w.heights.LatestBlockNumber(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Warn("watch: latest block", "err", err)
		} else if latest >= w.cfg.Confirmations {
			target := latest - w.cfg.Confirmations
			if !started {
				next, started = target, true
			}
			toBlock := target
			if next <= target && target-next >= w.cfg.BatchSize {
				toBlock = next + w.cfg.BatchSize - 1
			}
			for next <= toBlock {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				if _, err := w.checker.Check(ctx, domain.BlockNumber(next)); err != nil {
					if ctx.Err() != nil {
						return ctx.Err()
					}
					slog.Warn("watch: check failed", "block", next, "err", err)
					break
				}
				next++
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.cfg.PollInterval):
		}
	}
}
