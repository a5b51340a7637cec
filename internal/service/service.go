// Package service is the report engine: one method per analytics tool. Each
// method queries the measurements store, computes its report and attaches
// the narrative context. Empty results are reported through the status field;
// only storage failures are returned as errors.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ANIKETSHETTY47/solar-analyst/internal/config"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/domain"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/query"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/report"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/repository"
)

const (
	dateLayout = "2006-01-02"
	day        = 24 * time.Hour

	msgUnknownLogger  = "No data exists for this logger. Verify the logger ID is correct."
	msgUnknownLoggers = "No data exists for these loggers. Verify the logger IDs are correct."
)

// Store is the data access the engine needs. *repository.Store satisfies it.
type Store interface {
	Select(ctx context.Context, dest any, q query.Query) error
	Get(ctx context.Context, dest any, q query.Query) error
	AnchorDate(ctx context.Context) (time.Time, error)
	Health(ctx context.Context) repository.HealthStatus
}

var _ Store = (*repository.Store)(nil)

type Engine struct {
	store Store
	cfg   config.AnalyticsConfig
	log   zerolog.Logger
	now   func() time.Time
}

type Option func(*Engine)

func WithLogger(l zerolog.Logger) Option { return func(e *Engine) { e.log = l } }

// WithClock replaces the wall clock. The engine only consults it to detect
// stale data in the fleet overview.
func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

func New(store Store, cfg config.AnalyticsConfig, opts ...Option) *Engine {
	e := &Engine{store: store, cfg: cfg, log: zerolog.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) anchor(ctx context.Context) (time.Time, error) {
	a, err := e.store.AnchorDate(ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("anchor date: %w", err)
	}
	return a.UTC(), nil
}

// recovery is the outcome of a smart-recovery lookup.
type recovery struct {
	status report.Status
	rng    *report.AvailableRange
}

func (r recovery) found() bool { return r.status == report.StatusNoDataInWindow }

func (r recovery) bounds() (string, string) { return *r.rng.Start, *r.rng.End }

// recoverRange asks the store which days do hold data for the key in q.
func (e *Engine) recoverRange(ctx context.Context, q query.Query) (recovery, error) {
	var dr domain.DataRange
	if err := e.store.Get(ctx, &dr, q); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return recovery{}, fmt.Errorf("smart recovery: %w", err)
	}
	if !dr.MinDate.Valid || !dr.MaxDate.Valid {
		e.log.Debug().Str("query", q.Name).Msg("smart recovery: key has no data")
		return recovery{status: report.StatusNoData, rng: report.EmptyRange()}, nil
	}
	start, end := formatDate(dr.MinDate.Time), formatDate(dr.MaxDate.Time)
	e.log.Debug().Str("query", q.Name).Str("start", start).Str("end", end).Msg("smart recovery: data outside window")
	return recovery{status: report.StatusNoDataInWindow, rng: report.Range(start, end)}, nil
}

// recoveryMessage picks the unknown-key message or formats the window miss.
func recoveryMessage(rec recovery, unknown, window string) string {
	if !rec.found() {
		return unknown
	}
	start, end := rec.bounds()
	return fmt.Sprintf("%s Data exists from %s to %s.", window, start, end)
}

func formatDate(t time.Time) string { return t.UTC().Format(dateLayout) }

func formatTimestamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func nullable(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func ptr[T any](v T) *T { return &v }
