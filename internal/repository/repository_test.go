package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ANIKETSHETTY47/solar-analyst/internal/config"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/domain"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/query"
)

type mockDB struct {
	mock.Mock
}

func (m *mockDB) SelectContext(ctx context.Context, dest any, q string, args ...any) error {
	return m.Called(ctx, dest, q, args).Error(0)
}

func (m *mockDB) GetContext(ctx context.Context, dest any, q string, args ...any) error {
	return m.Called(ctx, dest, q, args).Error(0)
}

func (m *mockDB) PingContext(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// Rebind mimics sqlx's dollar bindvars closely enough for these tests.
func (m *mockDB) Rebind(q string) string { return q }

func (m *mockDB) Stats() sql.DBStats {
	return m.Called().Get(0).(sql.DBStats)
}

func newTestStore(db DB, opts ...Option) (*Store, *[]time.Duration) {
	var slept []time.Duration
	base := []Option{
		WithRetryPolicy(RetryPolicy{MaxAttempts: 3, MinWait: time.Millisecond, MaxWait: 4 * time.Millisecond}),
		WithSleepFunc(func(d time.Duration) { slept = append(slept, d) }),
	}
	return New(db, append(base, opts...)...), &slept
}

func TestSelect_RetriesTransientErrorsWithoutDuplicatingRows(t *testing.T) {
	db := new(mockDB)
	transient := &pgconn.PgError{Code: "40001"}
	appendRow := func(args mock.Arguments) {
		dest := args.Get(1).(*[]domain.LoggerSummary)
		*dest = append(*dest, domain.LoggerSummary{LoggerID: "INV-001"})
	}
	db.On("SelectContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(appendRow).Return(transient).Once()
	db.On("SelectContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(appendRow).Return(nil).Once()

	store, slept := newTestStore(db)
	var rows []domain.LoggerSummary
	err := store.Select(context.Background(), &rows, query.LoggerList())

	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Len(t, *slept, 1)
	db.AssertNumberOfCalls(t, "SelectContext", 2)
}

func TestSelect_StopsOnPermanentError(t *testing.T) {
	db := new(mockDB)
	syntax := &pgconn.PgError{Code: "42601", Message: "syntax error"}
	db.On("SelectContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(syntax)

	store, slept := newTestStore(db)
	var rows []domain.LoggerSummary
	err := store.Select(context.Background(), &rows, query.LoggerList())

	require.Error(t, err)
	assert.ErrorAs(t, err, new(*pgconn.PgError))
	assert.Contains(t, err.Error(), query.NameLoggerList)
	assert.Empty(t, *slept)
	db.AssertNumberOfCalls(t, "SelectContext", 1)
}

func TestSelect_GivesUpAfterMaxAttempts(t *testing.T) {
	db := new(mockDB)
	db.On("SelectContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(driver.ErrBadConn)

	store, slept := newTestStore(db)
	var rows []domain.LoggerSummary
	err := store.Select(context.Background(), &rows, query.LoggerList())

	assert.ErrorIs(t, err, driver.ErrBadConn)
	assert.Len(t, *slept, 2)
	db.AssertNumberOfCalls(t, "SelectContext", 3)
}

func TestSelect_CancelledDuringBackoffReturnsPromptly(t *testing.T) {
	db := new(mockDB)
	db.On("SelectContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(driver.ErrBadConn)

	store := New(db, WithRetryPolicy(RetryPolicy{MaxAttempts: 3, MinWait: time.Hour, MaxWait: time.Hour}))
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	start := time.Now()
	var rows []domain.LoggerSummary
	err := store.Select(ctx, &rows, query.LoggerList())

	assert.Less(t, time.Since(start), 5*time.Second)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, driver.ErrBadConn)
	db.AssertNumberOfCalls(t, "SelectContext", 1)
}

func TestSelect_SleepFuncStillHonoursCancellation(t *testing.T) {
	db := new(mockDB)
	db.On("SelectContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(driver.ErrBadConn)

	ctx, cancel := context.WithCancel(context.Background())
	store, slept := newTestStore(db, WithSleepFunc(func(time.Duration) { cancel() }))
	var rows []domain.LoggerSummary
	err := store.Select(ctx, &rows, query.LoggerList())

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, *slept)
	db.AssertNumberOfCalls(t, "SelectContext", 1)
}

func TestSelect_BindsNamedArguments(t *testing.T) {
	db := new(mockDB)
	db.On("SelectContext", mock.Anything, mock.Anything,
		mock.MatchedBy(func(q string) bool { return !containsNamed(q) }),
		[]any{"INV-001", "2024-06-15"}).Return(nil)

	store, _ := newTestStore(db)
	var rows []domain.CurveSample
	require.NoError(t, store.Select(context.Background(), &rows, query.PowerCurve("INV-001", "2024-06-15")))
	db.AssertExpectations(t)
}

func containsNamed(q string) bool {
	return strings.Contains(q, ":logger_id") || strings.Contains(q, ":date")
}

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	db := new(mockDB)
	db.On("GetContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(driver.ErrBadConn)

	store, _ := newTestStore(db,
		WithRetryPolicy(RetryPolicy{MaxAttempts: 1, MinWait: time.Millisecond, MaxWait: time.Millisecond}),
		WithBreaker(config.BreakerConfig{ConsecutiveFailures: 2, OpenTimeout: time.Minute}),
	)

	var row domain.FleetCount
	for i := 0; i < 2; i++ {
		assert.ErrorIs(t, store.Get(context.Background(), &row, query.FleetCount()), driver.ErrBadConn)
	}
	err := store.Get(context.Background(), &row, query.FleetCount())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker is open")
	db.AssertNumberOfCalls(t, "GetContext", 2)
}

func TestBreaker_IgnoresNoRows(t *testing.T) {
	db := new(mockDB)
	db.On("GetContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(sql.ErrNoRows)

	store, _ := newTestStore(db,
		WithBreaker(config.BreakerConfig{ConsecutiveFailures: 1, OpenTimeout: time.Minute}),
	)
	var row domain.LoggerType
	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, store.Get(context.Background(), &row, query.LoggerType("X")), sql.ErrNoRows)
	}
	db.AssertNumberOfCalls(t, "GetContext", 3)
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, false},
		{"bad conn", driver.ErrBadConn, true},
		{"connection exception", &pgconn.PgError{Code: "08006"}, true},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, true},
		{"undefined column", &pgconn.PgError{Code: "42703"}, false},
		{"no rows", sql.ErrNoRows, false},
		{"plain", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestBackoff_StaysWithinBounds(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 5, MinWait: 100 * time.Millisecond, MaxWait: time.Second}
	assert.Equal(t, p.MinWait, p.Backoff(0))
	for attempt := 1; attempt < 8; attempt++ {
		d := p.Backoff(attempt)
		assert.GreaterOrEqual(t, d, p.MinWait)
		assert.LessOrEqual(t, d, p.MaxWait)
	}
}

func TestAnchorDate_LoadsOnceAndRefreshes(t *testing.T) {
	db := new(mockDB)
	first := time.Date(2024, 6, 15, 18, 45, 0, 0, time.UTC)
	second := first.Add(24 * time.Hour)
	setAnchor := func(ts time.Time) func(mock.Arguments) {
		return func(args mock.Arguments) {
			*args.Get(1).(*domain.Anchor) = domain.Anchor{Latest: sql.NullTime{Time: ts, Valid: true}}
		}
	}
	db.On("GetContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Run(setAnchor(first)).Return(nil).Once()
	db.On("GetContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Run(setAnchor(second)).Return(nil).Once()

	store, _ := newTestStore(db)
	ctx := context.Background()

	got, err := store.AnchorDate(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	got, err = store.AnchorDate(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, got)
	db.AssertNumberOfCalls(t, "GetContext", 1)

	got, err = store.Anchor().Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestAnchorDate_EmptyTableFallsBackToClock(t *testing.T) {
	db := new(mockDB)
	db.On("GetContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	store, _ := newTestStore(db, WithClock(func() time.Time { return now }))
	got, err := store.AnchorDate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, now, got)
}

func TestAnchorCache_ClearForcesReload(t *testing.T) {
	calls := 0
	c := NewAnchorCache(func(context.Context) (time.Time, error) {
		calls++
		return time.Unix(int64(calls), 0), nil
	})
	ctx := context.Background()

	_, _ = c.Get(ctx)
	_, _ = c.Get(ctx)
	assert.Equal(t, 1, calls)

	c.Clear()
	got, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, time.Unix(2, 0), got)
}

func TestAnchorCache_FailedRefreshKeepsValue(t *testing.T) {
	fail := false
	c := NewAnchorCache(func(context.Context) (time.Time, error) {
		if fail {
			return time.Time{}, errors.New("db down")
		}
		return time.Unix(100, 0), nil
	})
	ctx := context.Background()
	_, err := c.Get(ctx)
	require.NoError(t, err)

	fail = true
	_, err = c.Refresh(ctx)
	assert.Error(t, err)

	got, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, time.Unix(100, 0), got)
}

func TestHealth(t *testing.T) {
	t.Run("healthy with overflow", func(t *testing.T) {
		db := new(mockDB)
		db.On("PingContext", mock.Anything).Return(nil)
		db.On("Stats").Return(sql.DBStats{MaxOpenConnections: 15, OpenConnections: 7, InUse: 2, Idle: 5})

		store, _ := newTestStore(db, WithPoolSize(5))
		h := store.Health(context.Background())

		assert.Equal(t, StatusHealthy, h.Status)
		assert.Empty(t, h.Error)
		assert.Equal(t, PoolStats{PoolSize: 5, CheckedIn: 5, CheckedOut: 2, Overflow: 2}, h.Pool)
	})

	t.Run("unhealthy", func(t *testing.T) {
		db := new(mockDB)
		db.On("PingContext", mock.Anything).Return(errors.New("connection refused"))

		store, _ := newTestStore(db)
		h := store.Health(context.Background())

		assert.Equal(t, StatusUnhealthy, h.Status)
		assert.Equal(t, "connection refused", h.Error)
		db.AssertNotCalled(t, "Stats")
	})
}
