package httpapi

import (
	"errors"
	"sync"
	"time"

	"hdrcommit/internal/application"
	"hdrcommit/internal/domain"
	"hdrcommit/internal/infrastructure/ethrpc"
)

// Metrics counts check outcomes. It satisfies application.CheckObserver and
// may be shared by several checkers.
type Metrics struct {
	mu              sync.RWMutex
	startTime       time.Time
	checks          uint64
	crossChecks     uint64
	errors          uint64
	encodingErrs    uint64
	fetchErrs       uint64
	notFound        uint64
	mismatches      uint64
	lastBlock       uint64
	lastCheckTime   time.Time
	lastElapsed     time.Duration
	fieldMismatches [domain.FieldCount]uint64
}

func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

func (m *Metrics) OnCheck(report *application.Report, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checks++
	m.lastCheckTime = time.Now()
	if report != nil {
		m.lastElapsed = report.Elapsed
		if report.Primary != nil {
			m.lastBlock = report.Primary.Header.Number
		}
		if report.Comparison != nil {
			m.crossChecks++
			if !report.Comparison.Consistent() {
				m.mismatches++
				for _, field := range report.Comparison.Mismatched() {
					m.fieldMismatches[field]++
				}
			}
		}
	}
	if err == nil {
		return
	}
	m.errors++
	var fetchErr *ethrpc.FetchError
	switch {
	case errors.Is(err, ethrpc.ErrBlockNotFound):
		m.notFound++
	case errors.Is(err, domain.ErrEncoding):
		m.encodingErrs++
	case errors.As(err, &fetchErr):
		m.fetchErrs++
	}
}

type Snapshot struct {
	StartTime       time.Time
	Checks          uint64
	CrossChecks     uint64
	Errors          uint64
	EncodingErrors  uint64
	FetchErrors     uint64
	NotFound        uint64
	Mismatches      uint64
	LastBlock       uint64
	LastCheckTime   time.Time
	LastElapsed     time.Duration
	FieldMismatches map[string]uint64
}

func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fields := make(map[string]uint64, domain.FieldCount)
	for _, field := range domain.Fields {
		fields[field.String()] = m.fieldMismatches[field]
	}
	return Snapshot{
		StartTime:       m.startTime,
		Checks:          m.checks,
		CrossChecks:     m.crossChecks,
		Errors:          m.errors,
		EncodingErrors:  m.encodingErrs,
		FetchErrors:     m.fetchErrs,
		NotFound:        m.notFound,
		Mismatches:      m.mismatches,
		LastBlock:       m.lastBlock,
		LastCheckTime:   m.lastCheckTime,
		LastElapsed:     m.lastElapsed,
		FieldMismatches: fields,
	}
}
