package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ANIKETSHETTY47/solar-analyst/internal/domain"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/narrative"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/query"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/report"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/stats"
)

// AnalyzeHealth flags daytime outages: samples with zero or missing power
// while irradiance is above the configured threshold.
func (e *Engine) AnalyzeHealth(ctx context.Context, loggerID string, days int) (*report.AnomalyReport, error) {
	anchor, err := e.anchor(ctx)
	if err != nil {
		return nil, err
	}
	var rows []domain.HealthSample
	if err := e.store.Select(ctx, &rows, query.HealthAnalysis(loggerID, anchor.Add(-time.Duration(days)*day))); err != nil {
		return nil, err
	}

	out := &report.AnomalyReport{Type: report.TypeAnomalyReport, LoggerID: loggerID, Points: []report.AnomalyPoint{}}
	if len(rows) == 0 {
		rec, err := e.recoverRange(ctx, query.LoggerRange(loggerID))
		if err != nil {
			return nil, err
		}
		out.Status, out.AvailableRange = rec.status, rec.rng
		out.Message = recoveryMessage(rec, msgUnknownLogger, fmt.Sprintf("No data in the last %d days.", days))
		narrative.Attach(out)
		return out, nil
	}

	count := 0
	for _, r := range rows {
		outage := !r.Power.Valid || r.Power.Float64 == 0
		if !outage || !r.Irradiance.Valid || r.Irradiance.Float64 <= e.cfg.AnomalyIrradianceThreshold {
			continue
		}
		count++
		if len(out.Points) < e.cfg.AnomalyResultLimit {
			out.Points = append(out.Points, report.AnomalyPoint{
				Timestamp:        formatTimestamp(r.Timestamp),
				ActivePowerWatts: nullable(r.Power),
				Irradiance:       nullable(r.Irradiance),
				Reason:           report.ReasonDaytimeOutage,
			})
		}
	}

	out.Status = report.StatusOK
	out.DaysAnalyzed = ptr(days)
	out.TotalRecords = ptr(len(rows))
	out.AnomalyCount = ptr(count)
	narrative.Attach(out)
	return out, nil
}

type curvePoint struct {
	at         time.Time
	power      *float64
	irradiance *float64
}

// PowerCurve returns one day of power and irradiance, downsampled by
// averaging when the day has more samples than the configured maximum.
func (e *Engine) PowerCurve(ctx context.Context, loggerID, date string) (*report.PowerCurve, error) {
	var rows []domain.CurveSample
	if err := e.store.Select(ctx, &rows, query.PowerCurve(loggerID, date)); err != nil {
		return nil, err
	}

	out := &report.PowerCurve{Type: report.TypePowerCurve, LoggerID: loggerID, Date: date, Data: []report.PowerCurvePoint{}}
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

	points := make([]curvePoint, len(rows))
	for i, r := range rows {
		points[i] = curvePoint{at: r.Timestamp, power: nullable(r.Power), irradiance: nullable(r.Irradiance)}
	}
	if len(points) > e.cfg.MaxDataPoints {
		points = resampleCurve(points, e.cfg.ResampleInterval)
	}

	for _, p := range points {
		out.Data = append(out.Data, report.PowerCurvePoint{
			Timestamp:  formatTimestamp(p.at),
			Power:      p.power,
			Irradiance: p.irradiance,
		})
	}
	out.Status = report.StatusOK
	out.RecordCount = ptr(len(out.Data))
	out.SummaryStats = curveStats(points)
	narrative.Attach(out)
	return out, nil
}

func resampleCurve(points []curvePoint, width time.Duration) []curvePoint {
	ts := make([]time.Time, len(points))
	for i, p := range points {
		ts[i] = p.at
	}
	starts, idx := stats.Bins(ts, width)
	power := make([]stats.Accumulator, len(starts))
	irr := make([]stats.Accumulator, len(starts))
	for i, p := range points {
		power[idx[i]].Add(p.power)
		irr[idx[i]].Add(p.irradiance)
	}
	out := make([]curvePoint, len(starts))
	for i, start := range starts {
		out[i] = curvePoint{at: start, power: power[i].Mean(), irradiance: irr[i].Mean()}
	}
	return out
}

// curveStats summarizes the non-null power values. Energy is the mean power
// times sample count times the median sample spacing, so gaps in the data
// do not inflate it.
func curveStats(points []curvePoint) *report.SummaryStats {
	var values []float64
	var at []time.Time
	all := make([]time.Time, len(points))
	for i, p := range points {
		all[i] = p.at
		if p.power != nil {
			values = append(values, *p.power)
			at = append(at, p.at)
		}
	}
	if len(values) == 0 {
		return &report.SummaryStats{}
	}

	peakIdx := stats.ArgMax(values)
	avg := stats.Mean(values)
	out := &report.SummaryStats{
		PeakValue: ptr(stats.Round(values[peakIdx], 1)),
		PeakTime:  ptr(at[peakIdx].UTC().Format("15:04")),
		AvgValue:  ptr(stats.Round(avg, 1)),
		Trend:     ptr(stats.Trend(values)),
	}
	if gap, ok := stats.MedianGap(all); ok {
		hours := float64(len(values)) * gap.Hours()
		out.TotalEnergy = ptr(stats.Round(avg*hours/1000, 2))
	}
	return out
}
