package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"math"
	"math/rand/v2"
	"net"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ANIKETSHETTY47/solar-analyst/internal/config"
)

// RetryPolicy configures the retry loop wrapped around each query.
type RetryPolicy struct {
	MaxAttempts int
	MinWait     time.Duration
	MaxWait     time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		MinWait:     200 * time.Millisecond,
		MaxWait:     2 * time.Second,
	}
}

func RetryPolicyFrom(cfg config.RetryConfig) RetryPolicy {
	return RetryPolicy{MaxAttempts: cfg.MaxAttempts, MinWait: cfg.MinWait, MaxWait: cfg.MaxWait}
}

// Backoff is exponential with full jitter, clamped to [MinWait, MaxWait].
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	base := float64(p.MinWait) * math.Pow(2, float64(attempt))
	if base > float64(p.MaxWait) {
		base = float64(p.MaxWait)
	}
	minWait := float64(p.MinWait)
	if base <= minWait {
		return p.MinWait
	}
	return time.Duration(minWait + rand.Float64()*(base-minWait))
}

// SQLSTATE codes worth another attempt: serialization and deadlock
// failures, resource exhaustion and server shutdown.
var retryableStates = map[string]bool{
	"40001": true,
	"40P01": true,
	"53000": true,
	"53300": true,
	"57P01": true,
	"57P02": true,
	"57P03": true,
}

// IsRetryable reports whether err is a transient storage failure. Caller
// cancellation and deadlines are never retried.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 08: connection exception.
		return strings.HasPrefix(pgErr.Code, "08") || retryableStates[pgErr.Code]
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return pgconn.SafeToRetry(err)
}
