package service

import (
	"context"
	"fmt"
	"math"

	"github.com/ANIKETSHETTY47/solar-analyst/internal/domain"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/narrative"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/query"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/report"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/stats"
)

const (
	msgNoCapacity = "Cannot infer system capacity - no power data found"

	// theoreticalScale turns irradiance × kW × efficiency into watts. It is
	// an empirical constant.
	theoreticalScale = 10
)

// InferCapacity rounds the all-time peak up to the next 0.5 kW.
func InferCapacity(peakWatts float64) float64 {
	return math.Ceil(peakWatts/500) * 0.5
}

// PerformanceRatio compares actual output with the theoretical output for
// the day's irradiance. capacityKW overrides the capacity inferred from the
// logger's all-time peak.
func (e *Engine) PerformanceRatio(ctx context.Context, loggerID, date string, capacityKW *float64) (*report.PerformanceReport, error) {
	out := &report.PerformanceReport{Type: report.TypePerformanceReport, LoggerID: loggerID, Date: date}

	var capacity float64
	if capacityKW != nil {
		capacity = *capacityKW
	} else {
		var peak domain.PeakPower
		if err := e.store.Get(ctx, &peak, query.PeakPower(loggerID)); err != nil {
			return nil, err
		}
		if !peak.PeakWatts.Valid {
			rec, err := e.recoverRange(ctx, query.LoggerRange(loggerID))
			if err != nil {
				return nil, err
			}
			out.Status, out.AvailableRange, out.Message = rec.status, rec.rng, msgNoCapacity
			narrative.Attach(out)
			return out, nil
		}
		capacity = InferCapacity(peak.PeakWatts.Float64)
	}
	out.InferredCapacityKW = ptr(capacity)

	var rows []domain.PerformanceSample
	if err := e.store.Select(ctx, &rows, query.Performance(loggerID, date)); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		rec, err := e.recoverRange(ctx, query.LoggerRange(loggerID))
		if err != nil {
			return nil, err
		}
		out.Status, out.AvailableRange = rec.status, rec.rng
		out.Message = recoveryMessage(rec, msgUnknownLogger, fmt.Sprintf("No data for %s.", date))
		narrative.Attach(out)
		return out, nil
	}

	ratios := make([]float64, len(rows))
	power := make([]float64, len(rows))
	irr := make([]float64, len(rows))
	for i, r := range rows {
		theoretical := r.Irradiance * capacity * e.cfg.ReferencePanelEfficiency * theoreticalScale
		ratios[i] = stats.Clamp(r.Power/theoretical, 0, e.cfg.MaxPerformanceRatio)
		power[i], irr[i] = r.Power, r.Irradiance
	}
	pr := stats.Mean(ratios) * 100

	class, note := classifyPerformance(pr)
	out.Status = report.StatusOK
	out.PerformanceRatio = ptr(stats.Round(pr, 1))
	out.ExactRatio = pr
	out.Classification = class
	out.Interpretation = fmt.Sprintf("Your system is operating at %.0f%% efficiency (%s)", pr, note)
	out.Metrics = &report.PerformanceMetrics{
		AvgPowerWatts:  stats.Round(stats.Mean(power), 1),
		PeakPowerWatts: stats.Round(stats.Max(power), 1),
		AvgIrradiance:  stats.Round(stats.Mean(irr), 1),
		DataPoints:     len(rows),
	}
	narrative.Attach(out)
	return out, nil
}

func classifyPerformance(pr float64) (class, note string) {
	switch {
	case pr >= 80:
		return report.ClassNormal, "Normal: 80-100%"
	case pr >= 60:
		return report.ClassLow, "Below optimal - consider inspection"
	default:
		return report.ClassCritical, "Critical - immediate attention needed"
	}
}
