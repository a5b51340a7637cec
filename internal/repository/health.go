package repository

import (
	"context"
	"time"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

type PoolStats struct {
	PoolSize   int
	CheckedIn  int
	CheckedOut int
	Overflow   int
}

type HealthStatus struct {
	Status string
	Error  string
	Pool   PoolStats
}

const healthTimeout = 5 * time.Second

// Health pings the database and reports pool usage. It never returns an
// error; failures are described in the status.
func (s *Store) Health(ctx context.Context) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.log.Error().Err(err).Msg("database health probe failed")
		return HealthStatus{Status: StatusUnhealthy, Error: err.Error()}
	}

	st := s.db.Stats()
	pool := PoolStats{
		PoolSize:   s.poolSize,
		CheckedIn:  st.Idle,
		CheckedOut: st.InUse,
	}
	if pool.PoolSize == 0 {
		pool.PoolSize = st.MaxOpenConnections
	}
	if over := st.OpenConnections - pool.PoolSize; over > 0 {
		pool.Overflow = over
	}
	return HealthStatus{Status: StatusHealthy, Pool: pool}
}
