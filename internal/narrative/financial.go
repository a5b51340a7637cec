package narrative

import (
	"fmt"

	"github.com/ANIKETSHETTY47/solar-analyst/internal/report"
)

func Financial(r *report.FinancialReport) *report.Envelope {
	days := 0
	if r.DaysWithData != nil {
		days = *r.DaysWithData
	}
	totalKWh, savings := deref(r.TotalEnergyKWh), deref(r.SavingsUSD)
	co2, trees := deref(r.CO2OffsetKg), deref(r.TreesEquivalent)

	var avgKWh, avgSavings float64
	if days > 0 {
		avgKWh = totalKWh / float64(days)
		avgSavings = savings / float64(days)
	}

	summary := fmt.Sprintf("Your solar panels have saved you $%.2f over the past %d days! "+
		"That's $%.2f per day on average. "+
		"You've also prevented %.0f kg of CO2 from entering the atmosphere.", savings, days, avgSavings, co2)

	insights := []report.Insight{
		insight(report.InsightFinancial, report.SeverityInfo, "You're saving money",
			fmt.Sprintf("At this rate, you'll save about $%.0f/month or $%.0f/year.", avgSavings*30, avgSavings*365),
			fmt.Sprintf("$%.2f", savings), fmt.Sprintf("$%.2f/day", avgSavings)),
	}
	if trees >= 1 {
		insights = append(insights, insight(report.InsightFinancial, report.SeverityInfo, "Environmental impact",
			fmt.Sprintf("Your clean energy is equivalent to planting %.0f trees!", trees),
			fmt.Sprintf("%.0f kg CO2", co2), ""))
	}
	insights = append(insights, insight(report.InsightFinancial, report.SeverityInfo, "Energy generated",
		fmt.Sprintf("Your system produced %.1f kWh - that's %.1f kWh per day.", totalKWh, avgKWh),
		fmt.Sprintf("%.1f kWh", totalKWh), ""))

	steps := []report.NextStep{
		step(report.PrioritySuggested, "Check system efficiency", "Ensure you're maximizing your savings",
			report.ToolPerformanceRatio, loggerParams(r.LoggerID)),
		step(report.PrioritySuggested, "View your power production patterns", "See when your panels generate the most",
			report.ToolPowerCurve, loggerParams(r.LoggerID)),
		step(report.PriorityOptional, "Forecast future production", "Plan ahead for expected savings",
			report.ToolForecast, map[string]any{"logger_id": r.LoggerID, "days_ahead": 7}),
	}

	return envelope(summary, insights, steps, &report.UISuggestion{
		PreferredComponent: report.ComponentMetricGrid,
		DisplayMode:        report.DisplayDetailed,
		HighlightMetric:    "savingsUsd",
		ColorScheme:        report.ColorSuccess,
	}, "")
}
