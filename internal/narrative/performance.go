package narrative

import (
	"fmt"

	"github.com/ANIKETSHETTY47/solar-analyst/internal/report"
)

// Performance alerts only for the critical classification.
func Performance(r *report.PerformanceReport) *report.Envelope {
	pr := deref(r.PerformanceRatio)
	if r.ExactRatio != 0 {
		pr = r.ExactRatio
	}
	capacity := deref(r.InferredCapacityKW)
	var m report.PerformanceMetrics
	if r.Metrics != nil {
		m = *r.Metrics
	}

	var summary, title string
	sev := report.SeverityInfo
	benchmark := "80% is healthy"
	switch r.Classification {
	case report.ClassNormal:
		summary = fmt.Sprintf("Great news! Your system is running at %.0f%% efficiency on %s. "+
			"This is within the healthy range (80-100%%), meaning your panels are converting "+
			"sunlight into electricity effectively.", pr, r.Date)
		title = "Good efficiency"
		benchmark = "80-100% typical"
	case report.ClassLow:
		summary = fmt.Sprintf("Your system operated at %.0f%% efficiency on %s, which is below optimal. "+
			"This could be due to shading, dirty panels, or equipment issues. "+
			"A professional inspection might help identify the cause.", pr, r.Date)
		title = "Low efficiency"
		sev = report.SeverityWarning
	default:
		summary = fmt.Sprintf("Attention needed: Your system only achieved %.0f%% efficiency on %s. "+
			"This is significantly below normal and suggests a problem that should be investigated.", pr, r.Date)
		title = "Critical efficiency"
		sev = report.SeverityCritical
	}

	insights := []report.Insight{
		insight(report.InsightPerformance, sev, title,
			fmt.Sprintf("Performance ratio of %.0f%% measures how well your system converts available sunlight.", pr),
			fmt.Sprintf("%.0f%%", pr), benchmark),
	}
	if m.PeakPowerWatts > 0 {
		utilization := 0.0
		if capacity != 0 {
			utilization = m.PeakPowerWatts / (capacity * 1000) * 100
		}
		insights = append(insights, insight(report.InsightPerformance, report.SeverityInfo, "Peak output",
			fmt.Sprintf("Your system reached %.0fW peak, using %.0f%% of its %.1fkW capacity.",
				m.PeakPowerWatts, utilization, capacity),
			fmt.Sprintf("%.0f W", m.PeakPowerWatts), fmt.Sprintf("%.1f kW capacity", capacity)))
	}
	if irr := m.AvgIrradiance; irr > 0 {
		quality := "limited"
		switch {
		case irr > 700:
			quality = "excellent"
		case irr > 400:
			quality = "good"
		case irr > 200:
			quality = "moderate"
		}
		insights = append(insights, insight(report.InsightPerformance, report.SeverityInfo,
			capitalize(quality)+" sunlight conditions",
			fmt.Sprintf("Average irradiance of %.0f W/m² throughout the day.", irr),
			fmt.Sprintf("%.0f W/m²", irr), ""))
	}

	var steps []report.NextStep
	if r.Classification != report.ClassNormal {
		reason, p := "Efficiency is critically low", report.PriorityUrgent
		if r.Classification == report.ClassLow {
			reason, p = "Efficiency is below optimal", report.PriorityRecommended
		}
		steps = append(steps,
			step(p, "Check for system issues", reason,
				report.ToolAnalyzeHealth, map[string]any{"logger_id": r.LoggerID, "days": 7}),
			step(report.PriorityRecommended, "Look for error codes", "May explain the efficiency drop",
				report.ToolDiagnoseErrors, map[string]any{"logger_id": r.LoggerID, "days": 7}),
		)
	} else {
		steps = append(steps,
			step(report.PrioritySuggested, "View production patterns", "See your power curve for this day",
				report.ToolPowerCurve, map[string]any{"logger_id": r.LoggerID, "date": r.Date}),
			step(report.PrioritySuggested, "Calculate your savings", "See the financial benefit of this production",
				report.ToolFinancialSavings, loggerParams(r.LoggerID)),
		)
	}
	steps = append(steps, step(report.PriorityOptional, "Compare with other inverters",
		"See if others perform similarly", report.ToolCompareLoggers, map[string]any{"date": r.Date}))

	color := report.ColorWarning
	var alert string
	switch r.Classification {
	case report.ClassNormal:
		color = report.ColorSuccess
	case report.ClassCritical:
		color = report.ColorDanger
		alert = fmt.Sprintf("System efficiency at %.0f%% - investigation needed", pr)
	}
	return envelope(summary, insights, steps, &report.UISuggestion{
		PreferredComponent: report.ComponentMetricCard,
		DisplayMode:        report.DisplayDetailed,
		HighlightMetric:    "performanceRatio",
		ColorScheme:        color,
	}, alert)
}
