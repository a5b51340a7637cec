package narrative

import (
	"fmt"

	"github.com/ANIKETSHETTY47/solar-analyst/internal/report"
)

func Forecast(r *report.ProductionForecast) *report.Envelope {
	var hist report.HistoricalStats
	if r.HistoricalStats != nil {
		hist = *r.HistoricalStats
	}
	basedOn := 0
	if r.BasedOnDays != nil {
		basedOn = *r.BasedOnDays
	}
	confidence := report.ConfidenceLow
	if len(r.Forecasts) > 0 {
		confidence = r.Forecasts[0].Confidence
	}
	ahead := len(r.Forecasts)

	summary := fmt.Sprintf("Expect about %.1f kWh per day over the next %d %s, "+
		"based on the last %d days of production (%s confidence).",
		hist.AverageKWh, ahead, plural(ahead, "day", "days"), basedOn, confidence)

	variation := 100.0
	if hist.AverageKWh > 0 {
		variation = hist.StdDevKWh / hist.AverageKWh * 100
	}
	sev := report.SeverityInfo
	if confidence == report.ConfidenceLow {
		sev = report.SeverityWarning
	}
	insights := []report.Insight{
		insight(report.InsightPerformance, sev, capitalize(confidence)+" forecast confidence",
			fmt.Sprintf("Daily output varied by %.0f%% over the last %d days.", variation, basedOn),
			fmt.Sprintf("%.1f kWh/day", hist.AverageKWh),
			fmt.Sprintf("%.1f-%.1f kWh range", hist.MinKWh, hist.MaxKWh)),
		insight(report.InsightPerformance, report.SeverityInfo, "Recent production range",
			fmt.Sprintf("Daily output ranged from %.1f to %.1f kWh.", hist.MinKWh, hist.MaxKWh),
			fmt.Sprintf("%.1f kWh max", hist.MaxKWh), ""),
	}

	var steps []report.NextStep
	if confidence == report.ConfidenceLow {
		steps = append(steps, step(report.PriorityRecommended, "Check for irregular production",
			"Large day-to-day swings may hide outages",
			report.ToolAnalyzeHealth, map[string]any{"logger_id": r.LoggerID, "days": 14}))
	}
	steps = append(steps,
		step(report.PrioritySuggested, "Estimate upcoming savings", "Turn the expected output into dollars",
			report.ToolFinancialSavings, loggerParams(r.LoggerID)),
		step(report.PriorityOptional, "Review a recent power curve", "See what a typical day looks like",
			report.ToolPowerCurve, loggerParams(r.LoggerID)),
	)

	color := report.ColorWarning
	switch confidence {
	case report.ConfidenceHigh:
		color = report.ColorSuccess
	case report.ConfidenceMedium:
		color = report.ColorNeutral
	}
	return envelope(summary, insights, steps, &report.UISuggestion{
		PreferredComponent: report.ComponentChartBar,
		DisplayMode:        report.DisplayStandard,
		HighlightMetric:    "expectedKwh",
		ColorScheme:        color,
	}, "")
}
