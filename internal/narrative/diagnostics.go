package narrative

import (
	"fmt"
	"strings"

	"github.com/ANIKETSHETTY47/solar-analyst/internal/report"
)

var healthDescriptions = map[string]string{
	report.HealthGood:     "No errors detected - your system is running cleanly.",
	report.HealthInfo:     "Some informational messages present, but no action required.",
	report.HealthWarning:  "Warnings detected that may need attention.",
	report.HealthCritical: "Critical errors found that require immediate attention.",
}

// Diagnostics alerts when at least one critical issue is present.
func Diagnostics(r *report.DiagnosticsReport) *report.Envelope {
	counts := report.CountSeverities(r.Issues)
	if r.Severities != nil {
		counts = *r.Severities
	}
	critical, warning, info := counts.Critical, counts.Warning, counts.Info
	days := periodDays(r.Period)
	id := r.LoggerID

	var summary string
	switch {
	case len(r.Issues) == 0:
		summary = fmt.Sprintf("Great news! Your inverter %s has no error codes in the past %d days. "+
			"The system appears to be operating normally without any issues.", id, days)
	case critical > 0:
		summary = fmt.Sprintf("Attention needed: Found %d critical issue(s) on inverter %s. "+
			"These errors may be affecting your production and should be addressed promptly.", critical, id)
	case warning > 0:
		summary = fmt.Sprintf("Your inverter %s has %d warning(s) from the past %d days. "+
			"While not critical, these should be monitored or addressed when convenient.", id, warning, days)
	default:
		summary = fmt.Sprintf("Inverter %s shows %d informational message(s) from the past %d days. "+
			"These are generally normal operational notes.", id, info, days)
	}

	issueCount := len(r.Issues)
	if r.IssueCount != nil {
		issueCount = *r.IssueCount
	}
	insights := []report.Insight{
		insight(report.InsightOperational, severityOf(r.OverallHealth),
			"System health: "+strings.ToUpper(r.OverallHealth),
			healthDescriptions[r.OverallHealth],
			fmt.Sprintf("%d issue(s)", issueCount), ""),
	}
	if len(r.Issues) > 0 {
		top := r.Issues[0]
		insights = append(insights, insight(report.InsightOperational, severityOf(top.Severity),
			"Top issue: "+top.Code,
			fmt.Sprintf("%s - Occurred %d time(s).", top.Description, top.Occurrences),
			fmt.Sprintf("%dx", top.Occurrences), ""))
		if top.SuggestedFix != "" {
			insights = append(insights, insight(report.InsightOperational, report.SeverityInfo,
				"Recommended action", top.SuggestedFix, "", ""))
		}
	}

	windowParams := map[string]any{"logger_id": id, "days": days}
	var steps []report.NextStep
	switch {
	case critical > 0:
		steps = append(steps,
			step(report.PriorityUrgent, "Check system performance", "Critical errors may be impacting production",
				report.ToolAnalyzeHealth, windowParams),
			step(report.PriorityRecommended, "View production patterns", "See if errors correlate with production drops",
				report.ToolPowerCurve, loggerParams(id)),
		)
	case warning > 0:
		steps = append(steps,
			step(report.PriorityRecommended, "Monitor system health", "Keep an eye on warning trends",
				report.ToolAnalyzeHealth, windowParams),
			step(report.PrioritySuggested, "Check system efficiency", "Verify performance isn't affected",
				report.ToolPerformanceRatio, loggerParams(id)),
		)
	default:
		steps = append(steps,
			step(report.PrioritySuggested, "View production summary", "See how well your healthy system is performing",
				report.ToolPowerCurve, loggerParams(id)),
			step(report.PrioritySuggested, "Calculate your savings", "See the financial benefit of this clean operation",
				report.ToolFinancialSavings, loggerParams(id)),
		)
	}
	steps = append(steps, step(report.PriorityOptional, "Compare with other inverters",
		"Check if issues are isolated to this unit", report.ToolCompareLoggers, nil))

	ui := &report.UISuggestion{
		PreferredComponent: report.ComponentStatusBadge,
		DisplayMode:        report.DisplaySummary,
	}
	if len(r.Issues) > 0 {
		ui.PreferredComponent = report.ComponentDataTable
		ui.DisplayMode = report.DisplayDetailed
	}
	switch r.OverallHealth {
	case report.HealthGood:
		ui.ColorScheme = report.ColorSuccess
	case report.HealthCritical:
		ui.ColorScheme = report.ColorDanger
	case report.HealthWarning:
		ui.ColorScheme = report.ColorWarning
	default:
		ui.ColorScheme = report.ColorNeutral
	}

	var alert string
	if critical > 0 {
		alert = fmt.Sprintf("%d critical error(s) require attention", critical)
	}
	return envelope(summary, insights, steps, ui, alert)
}

// periodDays reads N back out of "Last N days".
func periodDays(period string) int {
	var n int
	if _, err := fmt.Sscanf(period, "Last %d days", &n); err != nil {
		return 0
	}
	return n
}
