// Package narrative derives the human-readable context attached to each
// report: a summary sentence, insights, suggested next steps, a UI hint and,
// for urgent conditions, an alert. Every builder is a pure function of the
// report it describes.
package narrative

import (
	"fmt"
	"strings"

	"github.com/ANIKETSHETTY47/solar-analyst/internal/report"
)

const (
	maxInsights  = 3
	maxNextSteps = 3
)

// Attach builds the context for r and stores it on the report. Reports that
// carry no narrative are left untouched.
func Attach(r report.Report) {
	switch v := r.(type) {
	case *report.LoggerList:
		v.Context = LoggerList(v)
	case *report.AnomalyReport:
		if v.Status != report.StatusOK {
			v.Context = NoData(report.ToolAnalyzeHealth, v.Status, v.Message, v.AvailableRange, loggerParams(v.LoggerID))
			return
		}
		v.Context = Anomaly(v)
	case *report.PowerCurve:
		if v.Status != report.StatusOK {
			v.Context = NoData(report.ToolPowerCurve, v.Status, v.Message, v.AvailableRange, loggerParams(v.LoggerID))
			return
		}
		v.Context = PowerCurve(v)
	case *report.Comparison:
		if v.Status != report.StatusOK {
			params := map[string]any{"logger_ids": v.LoggerIDs, "metric": v.Metric}
			v.Context = NoData(report.ToolCompareLoggers, v.Status, v.Message, v.AvailableRange, params)
			return
		}
		v.Context = Comparison(v)
	case *report.FinancialReport:
		if v.Status != report.StatusOK {
			v.Context = NoData(report.ToolFinancialSavings, v.Status, v.Message, v.AvailableRange, loggerParams(v.LoggerID))
			return
		}
		v.Context = Financial(v)
	case *report.PerformanceReport:
		if v.Status != report.StatusOK {
			v.Context = NoData(report.ToolPerformanceRatio, v.Status, v.Message, v.AvailableRange, loggerParams(v.LoggerID))
			return
		}
		v.Context = Performance(v)
	case *report.ProductionForecast:
		if v.Status != report.StatusOK {
			v.Context = NoData(report.ToolForecast, v.Status, v.Message, v.AvailableRange, loggerParams(v.LoggerID))
			return
		}
		v.Context = Forecast(v)
	case *report.DiagnosticsReport:
		if v.Status != report.StatusOK {
			v.Context = NoData(report.ToolDiagnoseErrors, v.Status, v.Message, v.AvailableRange, loggerParams(v.LoggerID))
			return
		}
		v.Context = Diagnostics(v)
	case *report.FleetOverview:
		v.Context = Fleet(v)
	}
}

// NoData describes a report that found nothing in the requested window.
// For an unknown key it points back at discovery; otherwise it suggests
// re-running tool inside the range that does hold data.
func NoData(tool string, status report.Status, message string, rng *report.AvailableRange, params map[string]any) *report.Envelope {
	if status == report.StatusNoData || rng == nil || rng.Start == nil || rng.End == nil {
		return envelope(
			message,
			[]report.Insight{{
				Type:        report.InsightOperational,
				Severity:    report.SeverityWarning,
				Title:       "No data found",
				Description: message,
			}},
			[]report.NextStep{{
				Priority: report.PriorityRecommended,
				Action:   "List available loggers",
				Reason:   "Confirm the logger ID exists and see which dates have data",
				ToolHint: report.ToolListLoggers,
			}},
			&report.UISuggestion{
				PreferredComponent: report.ComponentStatusBadge,
				DisplayMode:        report.DisplaySummary,
				ColorScheme:        report.ColorNeutral,
			},
			"",
		)
	}

	start, end := *rng.Start, *rng.End
	retryTool, retryParams := retryInRange(tool, start, end, params)
	return envelope(
		message,
		[]report.Insight{{
			Type:        report.InsightOperational,
			Severity:    report.SeverityInfo,
			Title:       "Data available for another period",
			Description: fmt.Sprintf("Data exists from %s to %s.", start, end),
			Metric:      fmt.Sprintf("%s to %s", start, end),
		}},
		[]report.NextStep{{
			Priority: report.PriorityRecommended,
			Action:   "Retry with the latest available date",
			Reason:   fmt.Sprintf("The most recent data is from %s", end),
			ToolHint: retryTool,
			Params:   retryParams,
		}},
		&report.UISuggestion{
			PreferredComponent: report.ComponentAlertBanner,
			DisplayMode:        report.DisplayCompact,
			ColorScheme:        report.ColorWarning,
		},
		"",
	)
}

// retryInRange picks the follow-up call for a window miss. Forecasts cannot
// be re-anchored, so they fall back to the last day's power curve.
func retryInRange(tool, start, end string, base map[string]any) (string, map[string]any) {
	params := make(map[string]any, len(base)+2)
	for k, v := range base {
		params[k] = v
	}
	switch tool {
	case report.ToolPowerCurve, report.ToolCompareLoggers, report.ToolPerformanceRatio:
		params["date"] = end
	case report.ToolFinancialSavings:
		params["start_date"] = start
		params["end_date"] = end
	case report.ToolForecast:
		params["date"] = end
		return report.ToolPowerCurve, params
	}
	return tool, params
}

func envelope(summary string, insights []report.Insight, steps []report.NextStep, ui *report.UISuggestion, alert string) *report.Envelope {
	if len(insights) > maxInsights {
		insights = insights[:maxInsights]
	}
	if len(steps) > maxNextSteps {
		steps = steps[:maxNextSteps]
	}
	if insights == nil {
		insights = []report.Insight{}
	}
	if steps == nil {
		steps = []report.NextStep{}
	}
	return &report.Envelope{
		Summary:      summary,
		Insights:     insights,
		NextSteps:    steps,
		UISuggestion: ui,
		Alert:        alert,
	}
}

func insight(kind report.InsightType, sev report.Severity, title, desc, metric, benchmark string) report.Insight {
	return report.Insight{
		Type:        kind,
		Severity:    sev,
		Title:       title,
		Description: desc,
		Metric:      metric,
		Benchmark:   benchmark,
	}
}

func step(p report.Priority, action, reason, tool string, params map[string]any) report.NextStep {
	return report.NextStep{Priority: p, Action: action, Reason: reason, ToolHint: tool, Params: params}
}

func loggerParams(id string) map[string]any {
	return map[string]any{"logger_id": id}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func severityOf(level string) report.Severity {
	switch level {
	case report.HealthCritical:
		return report.SeverityCritical
	case report.HealthWarning:
		return report.SeverityWarning
	default:
		return report.SeverityInfo
	}
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
