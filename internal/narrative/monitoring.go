package narrative

import (
	"fmt"

	"github.com/ANIKETSHETTY47/solar-analyst/internal/report"
)

var trendDescriptions = map[string]string{
	"rising":  "Output increased throughout the day, indicating improving conditions.",
	"falling": "Output decreased over the day, possibly due to afternoon clouds or shading.",
	"stable":  "Consistent production throughout the day shows reliable performance.",
}

func PowerCurve(r *report.PowerCurve) *report.Envelope {
	var st report.SummaryStats
	if r.SummaryStats != nil {
		st = *r.SummaryStats
	}
	peak, energy := deref(st.PeakValue), deref(st.TotalEnergy)
	trend := ""
	if st.Trend != nil {
		trend = *st.Trend
	}

	energyStr := "some energy"
	if energy != 0 {
		energyStr = fmt.Sprintf("%.1f kWh", energy)
	}
	peakStr := "peak power"
	if peak != 0 {
		peakStr = fmt.Sprintf("%.0f W", peak)
	}
	timeStr := "midday"
	if st.PeakTime != nil && *st.PeakTime != "" {
		timeStr = *st.PeakTime
	}
	summary := fmt.Sprintf("Inverter %s produced %s on %s, peaking at %s around %s.",
		r.LoggerID, energyStr, r.Date, peakStr, timeStr)

	var insights []report.Insight
	if peak != 0 && st.PeakTime != nil {
		insights = append(insights, insight(report.InsightPerformance, report.SeverityInfo,
			"Peak performance",
			fmt.Sprintf("Maximum output of %.0f W occurred at %s.", peak, *st.PeakTime),
			fmt.Sprintf("%.0f W", peak), ""))
	}
	if trend != "" {
		sev := report.SeverityInfo
		if trend == "falling" {
			sev = report.SeverityWarning
		}
		insights = append(insights, insight(report.InsightPerformance, sev,
			"Production was "+trend, trendDescriptions[trend], "", ""))
	}
	if energy != 0 {
		assessment := "light"
		switch {
		case energy > 20:
			assessment = "strong"
		case energy > 10:
			assessment = "moderate"
		}
		insights = append(insights, insight(report.InsightPerformance, report.SeverityInfo,
			capitalize(assessment)+" daily output",
			fmt.Sprintf("Total generation of %.1f kWh for this day.", energy),
			fmt.Sprintf("%.1f kWh", energy), ""))
	}

	steps := []report.NextStep{
		step(report.PrioritySuggested, "Compare with other inverters on this date",
			"See how this unit performs relative to others",
			report.ToolCompareLoggers, map[string]any{"date": r.Date}),
		step(report.PrioritySuggested, "Calculate efficiency for this date",
			"Check if output matches irradiance levels",
			report.ToolPerformanceRatio, map[string]any{"logger_id": r.LoggerID, "date": r.Date}),
	}
	if trend == "falling" {
		steps = append([]report.NextStep{
			step(report.PriorityRecommended, "Check for anomalies or issues",
				"Declining production may indicate a problem",
				report.ToolAnalyzeHealth, map[string]any{"logger_id": r.LoggerID, "days": 7}),
		}, steps...)
	}

	color := report.ColorWarning
	if trend == "rising" || trend == "stable" {
		color = report.ColorSuccess
	}
	return envelope(summary, insights, steps, &report.UISuggestion{
		PreferredComponent: report.ComponentChartComposed,
		DisplayMode:        report.DisplayStandard,
		HighlightMetric:    "peakValue",
		ColorScheme:        color,
	}, "")
}

// Anomaly alerts when more than three outages were found.
func Anomaly(r *report.AnomalyReport) *report.Envelope {
	count, total, days := 0, 0, 0
	if r.AnomalyCount != nil {
		count = *r.AnomalyCount
	}
	if r.TotalRecords != nil {
		total = *r.TotalRecords
	}
	if r.DaysAnalyzed != nil {
		days = *r.DaysAnalyzed
	}

	var summary, alert string
	switch {
	case count == 0:
		summary = fmt.Sprintf("Good news! Inverter %s shows no anomalies in the past %d days. "+
			"The system appears to be operating normally.", r.LoggerID, days)
	case count <= 3:
		summary = fmt.Sprintf("Inverter %s had %d anomaly %s in the past %d days. "+
			"These are periods where the inverter wasn't producing power despite good sunlight.",
			r.LoggerID, count, plural(count, "event", "events"), days)
	default:
		summary = fmt.Sprintf("Inverter %s shows %d anomalies in the past %d days. "+
			"This needs attention - the system may have an issue.", r.LoggerID, count, days)
		alert = fmt.Sprintf("%d anomalies detected - investigation recommended", count)
	}

	var insights []report.Insight
	var steps []report.NextStep
	if count > 0 {
		rate := 0.0
		if total > 0 {
			rate = float64(count) / float64(total) * 100
		}
		sev := report.SeverityInfo
		switch {
		case count > 10:
			sev = report.SeverityCritical
		case count > 3:
			sev = report.SeverityWarning
		}
		insights = append(insights, insight(report.InsightPerformance, sev,
			"Daytime outages detected",
			fmt.Sprintf("Found %d periods where power was zero despite sufficient sunlight. "+
				"This represents %.1f%% of readings.", count, rate),
			fmt.Sprint(count), "vs 0 expected"))
		steps = append(steps,
			step(report.PriorityRecommended, "Show power curve for affected days",
				"Visualize when the outages occurred",
				report.ToolPowerCurve, loggerParams(r.LoggerID)),
			step(report.PriorityRecommended, "Check error codes in system logs",
				"May reveal the cause of the outages",
				report.ToolDiagnoseErrors, map[string]any{"logger_id": r.LoggerID, "days": days}),
		)
	} else {
		insights = append(insights, insight(report.InsightPerformance, report.SeverityInfo,
			"No issues found", "The inverter operated normally during all sunlight hours.", "", ""))
		steps = append(steps,
			step(report.PrioritySuggested, "Calculate efficiency ratio",
				"Verify system is performing at full capacity",
				report.ToolPerformanceRatio, loggerParams(r.LoggerID)),
			step(report.PrioritySuggested, "View financial savings",
				"See how much money this healthy system is saving",
				report.ToolFinancialSavings, loggerParams(r.LoggerID)),
		)
	}

	ui := &report.UISuggestion{
		PreferredComponent: report.ComponentStatusBadge,
		DisplayMode:        report.DisplaySummary,
		ColorScheme:        report.ColorSuccess,
	}
	if count > 0 {
		ui.PreferredComponent = report.ComponentDataTable
		ui.DisplayMode = report.DisplayDetailed
		ui.ColorScheme = report.ColorWarning
		if count > 10 {
			ui.ColorScheme = report.ColorDanger
		}
	}
	return envelope(summary, insights, steps, ui, alert)
}
