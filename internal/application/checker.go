package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"hdrcommit/internal/commitment"
	"hdrcommit/internal/domain"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	LabelPrimary   = "PRIMARY"
	LabelSecondary = "SECONDARY"
)

type HeaderSource interface {
	Endpoint() string
	HeaderByTag(ctx context.Context, tag domain.BlockTag) (domain.HeaderRecord, error)
}

type Notifier interface {
	NotifyMismatch(ctx context.Context, report *Report) error
}

type CheckObserver interface {
	OnCheck(report *Report, err error)
}

// Bundle is one provider's view of a block together with its commitment.
type Bundle struct {
	Label      string
	Endpoint   string
	Network    string
	Header     domain.HeaderRecord
	Commitment commitment.Commitment
}

type Report struct {
	Tag        domain.BlockTag
	Primary    *Bundle
	Secondary  *Bundle
	Comparison *commitment.Comparison
	Elapsed    time.Duration
}

// Mismatch is true when two providers were compared and disagree anywhere.
func (r *Report) Mismatch() bool {
	return r != nil && r.Comparison != nil && !r.Comparison.Consistent()
}

type Checker struct {
	primary   HeaderSource
	secondary HeaderSource
	notifier  Notifier
	observer  CheckObserver
}

// NewChecker wires the providers. secondary, notifier and observer may be nil.
func NewChecker(primary, secondary HeaderSource, notifier Notifier, observer CheckObserver) (*Checker, error) {
	if primary == nil {
		return nil, errors.New("primary header source is required")
	}
	return &Checker{primary: primary, secondary: secondary, notifier: notifier, observer: observer}, nil
}

// HasSecondary reports whether a cross-check provider is configured.
func (c *Checker) HasSecondary() bool {
	return c.secondary != nil
}

// Check fetches the block from every configured provider and commits to each
// header. A numeric tag pins both providers to the same height; a named tag is
// resolved by each provider independently. When the secondary fails, the
// returned report still carries the primary bundle alongside the error.
func (c *Checker) Check(ctx context.Context, tag domain.BlockTag) (*Report, error) {
	start := time.Now()
	ctx, span := otel.Tracer("hdrcommit/checker").Start(ctx, "checker.check",
		trace.WithAttributes(
			attribute.String("block.tag", tag.String()),
			attribute.Bool("checker.cross_check", c.secondary != nil),
		),
	)
	defer span.End()

	report, err := c.check(ctx, tag)
	report.Elapsed = time.Since(start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else if report.Comparison != nil {
		span.SetAttributes(attribute.Bool("commitment.match", report.Comparison.CommitmentMatch))
	}
	if report.Primary != nil {
		span.SetAttributes(attribute.Int64("block.number", int64(report.Primary.Header.Number)))
	}

	if c.observer != nil {
		c.observer.OnCheck(report, err)
	}
	if err == nil && report.Mismatch() {
		slog.Warn("providers disagree",
			"block", report.Primary.Header.Number,
			"mismatched", fieldNames(report.Comparison.Mismatched()),
			"primary", report.Primary.Commitment.Hex(),
			"secondary", report.Secondary.Commitment.Hex(),
		)
		if c.notifier != nil {
			if notifyErr := c.notifier.NotifyMismatch(ctx, report); notifyErr != nil {
				slog.Warn("mismatch notification failed", "err", notifyErr)
			}
		}
	}
	return report, err
}

func (c *Checker) check(ctx context.Context, tag domain.BlockTag) (*Report, error) {
	report := &Report{Tag: tag}

	sources := []HeaderSource{c.primary}
	if c.secondary != nil {
		sources = append(sources, c.secondary)
	}
	headers := make([]domain.HeaderRecord, len(sources))
	errs := make([]error, len(sources))

	var g errgroup.Group
	for i, source := range sources {
		g.Go(func() error {
			headers[i], errs[i] = source.HeaderByTag(ctx, tag)
			return nil
		})
	}
	_ = g.Wait()

	if errs[0] != nil {
		return report, fmt.Errorf("primary: %w", errs[0])
	}
	primary, err := newBundle(LabelPrimary, c.primary, headers[0])
	if err != nil {
		return report, fmt.Errorf("primary: %w", err)
	}
	report.Primary = primary
	slog.Debug("header committed",
		"label", primary.Label,
		"endpoint", primary.Endpoint,
		"block", primary.Header.Number,
		"commitment", primary.Commitment.Hex(),
	)

	if c.secondary == nil {
		return report, nil
	}
	if errs[1] != nil {
		return report, fmt.Errorf("secondary: %w", errs[1])
	}
	secondary, err := newBundle(LabelSecondary, c.secondary, headers[1])
	if err != nil {
		return report, fmt.Errorf("secondary: %w", err)
	}

	comparison, err := commitment.Compare(primary.Header, secondary.Header)
	if err != nil {
		return report, fmt.Errorf("compare: %w", err)
	}
	report.Secondary = secondary
	report.Comparison = &comparison
	return report, nil
}

func newBundle(label string, source HeaderSource, header domain.HeaderRecord) (*Bundle, error) {
	c, err := commitment.Commit(header)
	if err != nil {
		return nil, err
	}
	return &Bundle{
		Label:      label,
		Endpoint:   source.Endpoint(),
		Network:    domain.NetworkName(header.ChainID),
		Header:     header,
		Commitment: c,
	}, nil
}

func fieldNames(fields []domain.Field) []string {
	names := make([]string, 0, len(fields))
	for _, field := range fields {
		names = append(names, field.String())
	}
	return names
}
