// Package repository executes report queries against the measurements store.
// Every call goes through a retry policy and a circuit breaker; the package
// also owns the anchor-date cache and the connectivity probe.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/ANIKETSHETTY47/solar-analyst/internal/config"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/domain"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/query"
)

// DB is the slice of *sqlx.DB the store needs.
type DB interface {
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	PingContext(ctx context.Context) error
	Rebind(query string) string
	Stats() sql.DBStats
}

var _ DB = (*sqlx.DB)(nil)

type Store struct {
	db       DB
	policy   RetryPolicy
	breaker  *gobreaker.CircuitBreaker[struct{}]
	anchor   *AnchorCache
	log      zerolog.Logger
	sleep    func(context.Context, time.Duration) error
	now      func() time.Time
	timeout  time.Duration
	poolSize int
}

type Option func(*Store)

func WithRetryPolicy(p RetryPolicy) Option { return func(s *Store) { s.policy = p } }
func WithLogger(l zerolog.Logger) Option   { return func(s *Store) { s.log = l } }

// WithSleepFunc replaces the wait between attempts, for tests. The caller's
// context is still checked once fn returns.
func WithSleepFunc(fn func(time.Duration)) Option {
	return func(s *Store) {
		s.sleep = func(ctx context.Context, d time.Duration) error {
			fn(d)
			return ctx.Err()
		}
	}
}

// WithClock sets the clock used when the table is empty and no anchor exists.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// WithQueryTimeout bounds each attempt; zero leaves the caller's deadline alone.
func WithQueryTimeout(d time.Duration) Option { return func(s *Store) { s.timeout = d } }

// WithPoolSize is the steady-state pool size; connections beyond it are
// reported as overflow.
func WithPoolSize(n int) Option { return func(s *Store) { s.poolSize = n } }

func WithBreaker(cfg config.BreakerConfig) Option {
	return func(s *Store) { s.breaker = newBreaker(cfg, s) }
}

func newBreaker(cfg config.BreakerConfig, s *Store) *gobreaker.CircuitBreaker[struct{}] {
	return gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "measurements-db",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !IsRetryable(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			s.log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	})
}

func New(db DB, opts ...Option) *Store {
	s := &Store{
		db:      db,
		policy:  DefaultRetryPolicy(),
		log:     zerolog.Nop(),
		sleep:   sleepContext,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.breaker == nil {
		s.breaker = newBreaker(config.BreakerConfig{ConsecutiveFailures: 5, OpenTimeout: 30 * time.Second}, s)
	}
	if s.policy.MaxAttempts < 1 {
		s.policy.MaxAttempts = 1
	}
	s.anchor = NewAnchorCache(s.loadAnchor)
	return s
}

// Select runs q and scans every row into dest, a pointer to a slice.
func (s *Store) Select(ctx context.Context, dest any, q query.Query) error {
	text, args, err := s.bind(q)
	if err != nil {
		return err
	}
	return s.run(ctx, q.Name, func(ctx context.Context) error {
		resetSlice(dest)
		return s.db.SelectContext(ctx, dest, text, args...)
	})
}

// Get runs q and scans exactly one row into dest.
func (s *Store) Get(ctx context.Context, dest any, q query.Query) error {
	text, args, err := s.bind(q)
	if err != nil {
		return err
	}
	return s.run(ctx, q.Name, func(ctx context.Context) error {
		return s.db.GetContext(ctx, dest, text, args...)
	})
}

func (s *Store) bind(q query.Query) (string, []any, error) {
	args := q.Args
	if args == nil {
		args = map[string]any{}
	}
	text, bound, err := sqlx.Named(q.SQL, args)
	if err != nil {
		return "", nil, fmt.Errorf("bind query %s: %w", q.Name, err)
	}
	return s.db.Rebind(text), bound, nil
}

func (s *Store) run(ctx context.Context, name string, fn func(context.Context) error) error {
	var err error
	for attempt := 0; attempt < s.policy.MaxAttempts; attempt++ {
		_, err = s.breaker.Execute(func() (struct{}, error) {
			actx, cancel := s.attemptContext(ctx)
			defer cancel()
			return struct{}{}, fn(actx)
		})
		if err == nil {
			return nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			break
		}
		if !IsRetryable(err) || ctx.Err() != nil {
			break
		}
		if attempt < s.policy.MaxAttempts-1 {
			wait := s.policy.Backoff(attempt)
			s.log.Warn().Err(err).Str("query", name).Int("attempt", attempt+1).Dur("wait", wait).Msg("retrying query")
			if serr := s.sleep(ctx, wait); serr != nil {
				err = errors.Join(err, serr)
				break
			}
		}
	}
	return fmt.Errorf("query %s: %w", name, err)
}

// sleepContext waits for d or until ctx is done, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *Store) attemptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// resetSlice empties dest so a retried Select does not append duplicates.
func resetSlice(dest any) {
	v := reflect.ValueOf(dest)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return
	}
	if e := v.Elem(); e.Kind() == reflect.Slice {
		e.Set(reflect.Zero(e.Type()))
	}
}

func (s *Store) loadAnchor(ctx context.Context) (time.Time, error) {
	var row domain.Anchor
	if err := s.Get(ctx, &row, query.AnchorDate()); err != nil {
		return time.Time{}, err
	}
	if !row.Latest.Valid {
		return s.now().UTC(), nil
	}
	return row.Latest.Time.UTC(), nil
}

// AnchorDate returns the cached latest data timestamp.
func (s *Store) AnchorDate(ctx context.Context) (time.Time, error) {
	return s.anchor.Get(ctx)
}

func (s *Store) Anchor() *AnchorCache { return s.anchor }
