package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ANIKETSHETTY47/solar-analyst/internal/domain"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/narrative"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/query"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/report"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/stats"
)

// FleetOverview aggregates current power, today's energy and device counts
// across every logger. "Current" and "today" are relative to the anchor.
func (e *Engine) FleetOverview(ctx context.Context) (*report.FleetOverview, error) {
	anchor, err := e.anchor(ctx)
	if err != nil {
		return nil, err
	}

	var (
		power  domain.FleetPower
		energy domain.FleetEnergy
		count  domain.FleetCount
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ignoreNoRows(e.store.Get(gctx, &power, query.FleetPower(anchor.Add(-e.cfg.FleetActiveWindow))))
	})
	g.Go(func() error {
		return ignoreNoRows(e.store.Get(gctx, &energy, query.FleetEnergy(formatDate(anchor))))
	})
	g.Go(func() error {
		return ignoreNoRows(e.store.Get(gctx, &count, query.FleetCount()))
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fleet overview: %w", err)
	}

	total, active := int(count.TotalCount), int(power.ActiveLoggers)
	percent := 0.0
	if total > 0 {
		percent = float64(active) / float64(total) * 100
	}
	watts := power.TotalPowerWatts.Float64

	out := &report.FleetOverview{
		Type:      report.TypeFleetOverview,
		Timestamp: formatTimestamp(anchor),
		Status: report.FleetStatus{
			TotalLoggers:  total,
			ActiveLoggers: active,
			PercentOnline: stats.Round(percent, 1),
			FleetHealth:   fleetHealth(percent),
			ExactPercent:  percent,
		},
		Production: report.FleetProduction{
			CurrentTotalPowerWatts: stats.Round(watts, 2),
			TodayTotalEnergyKWh:    stats.Round(energy.TotalDailyKWh.Float64, 2),
			SiteAvgIrradiance:      stats.Round(power.AvgIrradiance.Float64, 2),
		},
		Summary: fmt.Sprintf("Site generating %.1f kW total. %d/%d devices active.", watts/1000, active, total),
	}

	today := e.now().UTC().Truncate(day)
	if dataDay := anchor.Truncate(day); today.After(dataDay) {
		out.DateMismatch = &report.DateMismatch{
			RequestedDate:  formatDate(today),
			ActualDataDate: formatDate(dataDay),
			DaysDifference: int(today.Sub(dataDay) / day),
			IsHistorical:   true,
		}
	}
	narrative.Attach(out)
	return out, nil
}

func fleetHealth(percent float64) string {
	switch {
	case percent > 90:
		return report.FleetHealthy
	case percent > 50:
		return report.FleetDegraded
	default:
		return report.FleetCritical
	}
}

func ignoreNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	return err
}
