package report

// InsightType categorizes an insight.
type InsightType string

const (
	InsightPerformance InsightType = "performance"
	InsightFinancial   InsightType = "financial"
	InsightOperational InsightType = "operational"
	InsightMaintenance InsightType = "maintenance"
	InsightWeather     InsightType = "weather"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

type Priority string

const (
	PriorityUrgent      Priority = "urgent"
	PriorityRecommended Priority = "recommended"
	PrioritySuggested   Priority = "suggested"
	PriorityOptional    Priority = "optional"
)

type Component string

const (
	ComponentChartLine     Component = "chart_line"
	ComponentChartBar      Component = "chart_bar"
	ComponentChartComposed Component = "chart_composed"
	ComponentChartPie      Component = "chart_pie"
	ComponentMetricCard    Component = "metric_card"
	ComponentMetricGrid    Component = "metric_grid"
	ComponentStatusBadge   Component = "status_badge"
	ComponentAlertBanner   Component = "alert_banner"
	ComponentDataTable     Component = "data_table"
)

type DisplayMode string

const (
	DisplayCompact  DisplayMode = "compact"
	DisplayStandard DisplayMode = "standard"
	DisplayDetailed DisplayMode = "detailed"
	DisplaySummary  DisplayMode = "summary"
)

type ColorScheme string

const (
	ColorSuccess ColorScheme = "success"
	ColorWarning ColorScheme = "warning"
	ColorDanger  ColorScheme = "danger"
	ColorNeutral ColorScheme = "neutral"
)

// Insight is one observation about a report, e.g. "Low efficiency detected".
type Insight struct {
	Type        InsightType `json:"type"`
	Severity    Severity    `json:"severity"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Metric      string      `json:"metric,omitempty"`
	Benchmark   string      `json:"benchmark,omitempty"`
}

// NextStep suggests a follow-up tool call. Params pre-fill that call.
type NextStep struct {
	Priority Priority       `json:"priority"`
	Action   string         `json:"action"`
	Reason   string         `json:"reason"`
	ToolHint string         `json:"tool_hint,omitempty"`
	Params   map[string]any `json:"params,omitempty"`
}

// UISuggestion is a rendering hint; clients may ignore it.
type UISuggestion struct {
	PreferredComponent Component   `json:"preferred_component"`
	DisplayMode        DisplayMode `json:"display_mode"`
	HighlightMetric    string      `json:"highlight_metric,omitempty"`
	ColorScheme        ColorScheme `json:"color_scheme,omitempty"`
}

// Envelope is the narrative attached to a report.
type Envelope struct {
	Summary      string        `json:"summary"`
	Insights     []Insight     `json:"insights"`
	NextSteps    []NextStep    `json:"next_steps"`
	UISuggestion *UISuggestion `json:"ui_suggestion,omitempty"`
	Alert        string        `json:"alert,omitempty"`
}
