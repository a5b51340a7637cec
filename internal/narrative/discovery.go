package narrative

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ANIKETSHETTY47/solar-analyst/internal/report"
)

func LoggerList(r *report.LoggerList) *report.Envelope {
	if r.Count == 0 {
		return envelope("No loggers found. The measurements table has no data yet.",
			[]report.Insight{insight(report.InsightOperational, report.SeverityWarning, "No devices reporting",
				"No inverter has written any measurements.", "0", "")},
			[]report.NextStep{step(report.PriorityRecommended, "Check service health",
				"Confirm the database is reachable", report.ToolHealthCheck, nil)},
			&report.UISuggestion{
				PreferredComponent: report.ComponentStatusBadge,
				DisplayMode:        report.DisplaySummary,
				ColorScheme:        report.ColorNeutral,
			}, "")
	}

	types := map[string]bool{}
	busiest := r.Loggers[0]
	for _, l := range r.Loggers {
		types[l.LoggerType] = true
		if l.RecordCount > busiest.RecordCount {
			busiest = l
		}
	}
	names := make([]string, 0, len(types))
	for t := range types {
		names = append(names, t)
	}
	sort.Strings(names)

	summary := fmt.Sprintf("Found %d %s across %d device %s.",
		r.Count, plural(r.Count, "logger", "loggers"), len(names), plural(len(names), "type", "types"))

	insights := []report.Insight{
		insight(report.InsightOperational, report.SeverityInfo, "Device types",
			"Types present: "+strings.Join(names, ", ")+".", fmt.Sprint(len(names)), ""),
		insight(report.InsightOperational, report.SeverityInfo, "Most data: "+busiest.LoggerID,
			fmt.Sprintf("%s has the longest history with %d records.", busiest.LoggerID, busiest.RecordCount),
			fmt.Sprintf("%d records", busiest.RecordCount), ""),
	}

	first := r.Loggers[0]
	curve := loggerParams(first.LoggerID)
	if first.LatestData != nil && len(*first.LatestData) >= len("2006-01-02") {
		curve["date"] = (*first.LatestData)[:len("2006-01-02")]
	}
	steps := []report.NextStep{
		step(report.PrioritySuggested, "Get a site-wide overview", "See how the whole fleet is doing right now",
			report.ToolFleetOverview, nil),
		step(report.PrioritySuggested, "Check "+first.LoggerID+" for outages", "Start with a quick health scan",
			report.ToolAnalyzeHealth, map[string]any{"logger_id": first.LoggerID, "days": 7}),
		step(report.PriorityOptional, "View "+first.LoggerID+" power curve", "See its most recent day of production",
			report.ToolPowerCurve, curve),
	}
	return envelope(summary, insights, steps, &report.UISuggestion{
		PreferredComponent: report.ComponentDataTable,
		DisplayMode:        report.DisplayStandard,
		ColorScheme:        report.ColorNeutral,
	}, "")
}
