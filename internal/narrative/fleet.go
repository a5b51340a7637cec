package narrative

import (
	"fmt"

	"github.com/ANIKETSHETTY47/solar-analyst/internal/report"
)

// Fleet alerts for a critical fleet or for stale data. The stale-data note
// wins when both apply.
func Fleet(r *report.FleetOverview) *report.Envelope {
	st, prod := r.Status, r.Production
	powerKW := prod.CurrentTotalPowerWatts / 1000
	offline := st.TotalLoggers - st.ActiveLoggers
	online := st.PercentOnline
	if st.ExactPercent != 0 {
		online = st.ExactPercent
	}

	var dateWarning, alert string
	if dm := r.DateMismatch; dm != nil && dm.IsHistorical {
		ago := fmt.Sprintf("%d %s ago", dm.DaysDifference, plural(dm.DaysDifference, "day", "days"))
		dateWarning = fmt.Sprintf("Note: This data is from %s (%s). ", dm.ActualDataDate, ago)
		alert = fmt.Sprintf("Showing data from %s (%s)", dm.ActualDataDate, ago)
	}

	var summary string
	var health report.Insight
	switch st.FleetHealth {
	case report.FleetHealthy:
		summary = fmt.Sprintf("%sYour solar site is running smoothly! All %d inverters are online "+
			"and generating %.1f kW of clean power. You've already produced %.1f kWh today.",
			dateWarning, st.ActiveLoggers, powerKW, prod.TodayTotalEnergyKWh)
		health = insight(report.InsightOperational, report.SeverityInfo, "All systems operational",
			fmt.Sprintf("All %d inverters are communicating and producing power.", st.ActiveLoggers),
			fmt.Sprintf("%.0f%%", online), "")
	case report.FleetDegraded:
		summary = fmt.Sprintf("%sYour site is generating %.1f kW, but %d of your %d "+
			"inverters appear to be offline. Today's production is %.1f kWh so far.",
			dateWarning, powerKW, offline, st.TotalLoggers, prod.TodayTotalEnergyKWh)
		health = insight(report.InsightOperational, report.SeverityWarning,
			fmt.Sprintf("%d device(s) offline", offline),
			"Some inverters aren't reporting data. This could affect your production.",
			fmt.Sprintf("%.0f%%", online), "")
	default:
		summary = fmt.Sprintf("%sAttention needed: Only %d of %d inverters are online. "+
			"Your site is generating just %.1f kW. Check your system status.",
			dateWarning, st.ActiveLoggers, st.TotalLoggers, powerKW)
		health = insight(report.InsightOperational, report.SeverityCritical, "Many devices offline",
			fmt.Sprintf("Only %d of %d devices are responding.", st.ActiveLoggers, st.TotalLoggers),
			fmt.Sprintf("%.0f%%", online), "")
		if alert == "" {
			alert = fmt.Sprintf("Only %.0f%% of devices online", online)
		}
	}

	insights := []report.Insight{health}
	if prod.CurrentTotalPowerWatts > 0 {
		insights = append(insights, insight(report.InsightPerformance, report.SeverityInfo, "Current generation",
			fmt.Sprintf("Your site is currently producing %.1f kW of power.", powerKW),
			fmt.Sprintf("%.1f kW", powerKW), ""))
	}
	if irr := prod.SiteAvgIrradiance; irr > 0 {
		quality := "low"
		switch {
		case irr > 800:
			quality = "excellent"
		case irr > 500:
			quality = "good"
		case irr > 200:
			quality = "moderate"
		}
		insights = append(insights, insight(report.InsightPerformance, report.SeverityInfo,
			capitalize(quality)+" sunlight",
			fmt.Sprintf("Current irradiance is %.0f W/m².", irr),
			fmt.Sprintf("%.0f W/m²", irr), ""))
	}

	var steps []report.NextStep
	if st.FleetHealth != report.FleetHealthy {
		p := report.PriorityRecommended
		if st.FleetHealth == report.FleetCritical {
			p = report.PriorityUrgent
		}
		steps = append(steps, step(p, "Check which devices are offline",
			fmt.Sprintf("%d device(s) not reporting", offline), report.ToolListLoggers, nil))
	}
	steps = append(steps,
		step(report.PrioritySuggested, "View detailed performance for your best inverter",
			"See production curves and efficiency", report.ToolPowerCurve, nil),
		step(report.PrioritySuggested, "Calculate your energy savings",
			fmt.Sprintf("See how much %.1f kWh saves you", prod.TodayTotalEnergyKWh),
			report.ToolFinancialSavings, nil),
	)

	color := report.ColorWarning
	switch st.FleetHealth {
	case report.FleetHealthy:
		color = report.ColorSuccess
	case report.FleetCritical:
		color = report.ColorDanger
	}
	return envelope(summary, insights, steps, &report.UISuggestion{
		PreferredComponent: report.ComponentMetricGrid,
		DisplayMode:        report.DisplayStandard,
		HighlightMetric:    "totalPowerWatts",
		ColorScheme:        color,
	}, alert)
}
