package narrative

import (
	"fmt"

	"github.com/ANIKETSHETTY47/solar-analyst/internal/report"
)

type metricLabel struct {
	name, unit, peakUnit string
}

var metricLabels = map[string]metricLabel{
	"power":      {"power output", "W", "kW"},
	"energy":     {"energy production", "kWh", "kWh"},
	"irradiance": {"sunlight levels", "W/m²", "W/m²"},
}

type seriesStats struct {
	id        string
	avg, peak float64
}

// seriesSummary averages each logger's non-null values, in logger order.
// Loggers without any value are skipped.
func seriesSummary(r *report.Comparison) []seriesStats {
	var out []seriesStats
	for _, id := range r.LoggerIDs {
		var sum, peak float64
		n := 0
		for _, p := range r.Data {
			v, ok := p.Value(id)
			if !ok || v == nil {
				continue
			}
			if n == 0 || *v > peak {
				peak = *v
			}
			sum += *v
			n++
		}
		if n > 0 {
			out = append(out, seriesStats{id: id, avg: sum / float64(n), peak: peak})
		}
	}
	return out
}

// Comparison ranks loggers by average value. The spread between best and
// worst drives the framing; above 40% it raises an alert.
func Comparison(r *report.Comparison) *report.Envelope {
	label, ok := metricLabels[r.Metric]
	if !ok {
		label = metricLabel{name: r.Metric}
	}
	stats := seriesSummary(r)

	var best, worst *seriesStats
	for i := range stats {
		if best == nil || stats[i].avg > best.avg {
			best = &stats[i]
		}
		if worst == nil || stats[i].avg < worst.avg {
			worst = &stats[i]
		}
	}
	spread := 0.0
	if best != nil && best.avg > 0 {
		spread = (best.avg - worst.avg) / best.avg * 100
	}

	dateStr := "over the selected period"
	if r.Date != nil {
		dateStr = "on " + *r.Date
	}
	n := len(r.LoggerIDs)

	var summary string
	switch {
	case len(stats) < 2:
		summary = fmt.Sprintf("Comparing %s for %d inverters %s.", label.name, n, dateStr)
	case spread < 10:
		summary = fmt.Sprintf("Your inverters are performing consistently %s! "+
			"All %d units show similar %s, with only %.0f%% variation.", dateStr, n, label.name, spread)
	case spread < 30:
		summary = fmt.Sprintf("Comparing %d inverters %s: %s leads with the highest %s, "+
			"while %s trails at %.0f%% lower.", n, dateStr, best.id, label.name, worst.id, spread)
	default:
		summary = fmt.Sprintf("There's a significant difference between your inverters %s. "+
			"%s is your best performer, outproducing %s by %.0f%%.", dateStr, best.id, worst.id, spread)
	}

	var insights []report.Insight
	if best != nil {
		peak, unit := best.peak, label.peakUnit
		if r.Metric == "power" {
			if peak > 1000 {
				peak /= 1000
			} else {
				unit = label.unit
			}
		}
		insights = append(insights, insight(report.InsightPerformance, report.SeverityInfo,
			"Top performer: "+best.id,
			fmt.Sprintf("Highest average %s with peak of %.1f %s.", label.name, peak, unit),
			fmt.Sprintf("%.1f %s avg", best.avg, label.unit), ""))
	}
	if worst != nil && worst.id != best.id && spread > 15 {
		sev := report.SeverityInfo
		if spread > 30 {
			sev = report.SeverityWarning
		}
		insights = append(insights, insight(report.InsightPerformance, sev,
			"Underperformer: "+worst.id,
			fmt.Sprintf("Averaging %.0f%% less than the best performer.", spread),
			fmt.Sprintf("%.1f %s avg", worst.avg, label.unit),
			fmt.Sprintf("vs %.1f %s", best.avg, label.unit)))
	}
	if spread < 10 && len(stats) >= 2 {
		insights = append(insights, insight(report.InsightPerformance, report.SeverityInfo,
			"Consistent fleet performance",
			"All inverters are performing within a tight range - a sign of a healthy system.",
			fmt.Sprintf("<%.0f%% spread", spread), ""))
	}

	var steps []report.NextStep
	if worst != nil && spread > 20 {
		p := report.PrioritySuggested
		if spread > 30 {
			p = report.PriorityRecommended
		}
		steps = append(steps, step(p, "Investigate "+worst.id,
			fmt.Sprintf("Performing %.0f%% below the top unit", spread),
			report.ToolAnalyzeHealth, map[string]any{"logger_id": worst.id, "days": 7}))
	}
	if best != nil {
		params := loggerParams(best.id)
		if r.Date != nil {
			params["date"] = *r.Date
		}
		steps = append(steps, step(report.PrioritySuggested, fmt.Sprintf("View %s power curve", best.id),
			"See the production pattern of your best performer", report.ToolPowerCurve, params))
	}
	steps = append(steps, step(report.PriorityOptional, "Compare on another metric",
		"See if the pattern holds for energy or irradiance",
		report.ToolCompareLoggers, map[string]any{"logger_ids": r.LoggerIDs}))

	color := report.ColorDanger
	switch {
	case spread < 15:
		color = report.ColorSuccess
	case spread < 40:
		color = report.ColorWarning
	}

	var alert string
	if spread > 40 {
		alert = fmt.Sprintf("%s is underperforming by %.0f%%", worst.id, spread)
	}
	return envelope(summary, insights, steps, &report.UISuggestion{
		PreferredComponent: report.ComponentChartLine,
		DisplayMode:        report.DisplayDetailed,
		ColorScheme:        color,
	}, alert)
}
