package service

import (
	"context"

	"github.com/ANIKETSHETTY47/solar-analyst/internal/domain"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/narrative"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/query"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/report"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/repository"
)

// ListLoggers returns every logger with its data range and record count.
func (e *Engine) ListLoggers(ctx context.Context) (*report.LoggerList, error) {
	var rows []domain.LoggerSummary
	if err := e.store.Select(ctx, &rows, query.LoggerList()); err != nil {
		return nil, err
	}
	out := &report.LoggerList{Type: report.TypeLoggerList, Count: len(rows), Loggers: make([]report.LoggerInfo, 0, len(rows))}
	for _, r := range rows {
		info := report.LoggerInfo{LoggerID: r.LoggerID, LoggerType: r.LoggerType, RecordCount: r.RecordCount}
		if r.EarliestData.Valid {
			info.EarliestData = ptr(formatTimestamp(r.EarliestData.Time))
		}
		if r.LatestData.Valid {
			info.LatestData = ptr(formatTimestamp(r.LatestData.Time))
		}
		out.Loggers = append(out.Loggers, info)
	}
	narrative.Attach(out)
	return out, nil
}

// HealthCheck reports database connectivity. It never fails.
func (e *Engine) HealthCheck(ctx context.Context) *report.HealthCheck {
	h := e.store.Health(ctx)
	if h.Status != repository.StatusHealthy {
		msg := h.Error
		if msg == "" {
			msg = "unknown error"
		}
		return &report.HealthCheck{Type: report.TypeHealthCheck, Status: report.ServiceDegraded, Database: msg}
	}
	return &report.HealthCheck{
		Type:     report.TypeHealthCheck,
		Status:   report.ServiceHealthy,
		Database: report.ServiceHealthy,
		PoolStats: &report.PoolStats{
			PoolSize:   h.Pool.PoolSize,
			CheckedIn:  h.Pool.CheckedIn,
			CheckedOut: h.Pool.CheckedOut,
			Overflow:   h.Pool.Overflow,
		},
	}
}
