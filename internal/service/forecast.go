package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/ANIKETSHETTY47/solar-analyst/internal/domain"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/narrative"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/query"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/report"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/stats"
)

// Forecast projects daily production from the historical average of the
// configured history window. Confidence follows the coefficient of
// variation of the daily yields.
func (e *Engine) Forecast(ctx context.Context, loggerID string, daysAhead int) (*report.ProductionForecast, error) {
	if daysAhead < 1 {
		daysAhead = 1
	}
	if daysAhead > e.cfg.ForecastMaxDays {
		daysAhead = e.cfg.ForecastMaxDays
	}
	anchor, err := e.anchor(ctx)
	if err != nil {
		return nil, err
	}

	history := e.cfg.ForecastHistoryDays
	var rows []domain.DailyEnergy
	if err := e.store.Select(ctx, &rows, query.Forecast(loggerID, anchor.Add(-time.Duration(history)*day))); err != nil {
		return nil, err
	}

	out := &report.ProductionForecast{Type: report.TypeProductionForecast, LoggerID: loggerID}
	if len(rows) == 0 {
		rec, err := e.recoverRange(ctx, query.LoggerRange(loggerID))
		if err != nil {
			return nil, err
		}
		out.Status, out.AvailableRange = rec.status, rec.rng
		out.Message = recoveryMessage(rec, msgUnknownLogger, fmt.Sprintf("No energy data in the last %d days.", history))
		narrative.Attach(out)
		return out, nil
	}
	if len(rows) < e.cfg.ForecastMinHistoryDays {
		// Rows are newest first.
		out.Status = report.StatusNoDataInWindow
		out.AvailableRange = report.Range(formatDate(rows[len(rows)-1].Date), formatDate(rows[0].Date))
		out.Message = fmt.Sprintf("Insufficient historical data for forecasting (need at least %d days)", e.cfg.ForecastMinHistoryDays)
		narrative.Attach(out)
		return out, nil
	}

	daily := make([]float64, len(rows))
	for i, r := range rows {
		daily[i] = r.DailyKWh
	}
	mean := stats.Mean(daily)
	sd := stats.SampleStdDev(daily)
	confidence := forecastConfidence(mean, sd)

	expected := stats.Round(mean, 2)
	lo := stats.Round(math.Max(0, mean-sd), 2)
	hi := stats.Round(mean+sd, 2)
	start := anchor.Truncate(day)
	out.Forecasts = make([]report.ForecastDay, daysAhead)
	for i := range out.Forecasts {
		out.Forecasts[i] = report.ForecastDay{
			Date:        formatDate(start.AddDate(0, 0, i+1)),
			ExpectedKWh: expected,
			RangeMin:    lo,
			RangeMax:    hi,
			Confidence:  confidence,
		}
	}

	out.Status = report.StatusOK
	out.Method = report.MethodHistoricalAverage
	out.BasedOnDays = ptr(len(rows))
	out.HistoricalStats = &report.HistoricalStats{
		AverageKWh: expected,
		StdDevKWh:  stats.Round(sd, 2),
		MinKWh:     stats.Round(stats.Min(daily), 2),
		MaxKWh:     stats.Round(stats.Max(daily), 2),
	}
	out.Summary = fmt.Sprintf("Expected ~%.1f kWh/day based on last %d days (%s confidence)", mean, len(rows), confidence)
	narrative.Attach(out)
	return out, nil
}

func forecastConfidence(mean, sd float64) string {
	cv := 1.0
	if mean > 0 {
		cv = sd / mean
	}
	switch {
	case cv < 0.15:
		return report.ConfidenceHigh
	case cv < 0.30:
		return report.ConfidenceMedium
	default:
		return report.ConfidenceLow
	}
}
