package tools

import "github.com/ANIKETSHETTY47/solar-analyst/internal/report"

// Param describes one tool argument in the HTTP tool listing.
type Param struct {
	Name        string `json:"-"`
	Type        string `json:"type"`
	Items       *Items `json:"items,omitempty"`
	Description string `json:"description"`
	Required    bool   `json:"required,omitempty"`
	Default     any    `json:"default,omitempty"`
}

type Items struct {
	Type string `json:"type"`
}

// Definition is a tool's public description.
type Definition struct {
	Name        string
	Description string
	Params      []Param
}

func loggerIDParam() Param {
	return Param{Name: "logger_id", Type: "string", Description: "Logger/inverter serial number", Required: true}
}

func dateParam(desc string, required bool) Param {
	return Param{Name: "date", Type: "string", Description: desc, Required: required}
}

var definitions = []Definition{
	{
		Name: report.ToolListLoggers,
		Description: "List all available loggers/inverters in the system. Returns logger IDs, types, and data date ranges. " +
			"Use this to discover valid logger IDs before calling other tools.",
	},
	{
		Name:        report.ToolAnalyzeHealth,
		Description: "Analyze inverter health by detecting anomalies like daytime outages (power = 0 when irradiance > 50 W/m2).",
		Params: []Param{
			loggerIDParam(),
			{Name: "days", Type: "integer", Description: "Number of days to analyze (1-365)", Default: defaultHealthDays},
		},
	},
	{
		Name:        report.ToolPowerCurve,
		Description: "Get power and irradiance timeseries for a specific date. Returns data suitable for charting.",
		Params:      []Param{loggerIDParam(), dateParam("Date in YYYY-MM-DD format", true)},
	},
	{
		Name: report.ToolCompareLoggers,
		Description: "Compare multiple loggers on a specific metric for a given date. " +
			"Returns merged timeseries data suitable for multi-line charts.",
		Params: []Param{
			{Name: "logger_ids", Type: "array", Items: &Items{Type: "string"}, Description: "List of logger IDs to compare (2-5)", Required: true},
			{Name: "metric", Type: "string", Description: "Metric to compare: 'power', 'energy', or 'irradiance'", Default: defaultMetric},
			dateParam("Date in YYYY-MM-DD format (optional)", false),
		},
	},
	{
		Name:        report.ToolFinancialSavings,
		Description: "Calculate financial savings from solar generation. Returns money saved, CO2 offset, and trees equivalent.",
		Params: []Param{
			loggerIDParam(),
			{Name: "start_date", Type: "string", Description: "Start date in YYYY-MM-DD format", Required: true},
			{Name: "end_date", Type: "string", Description: "End date in YYYY-MM-DD format (optional, defaults to the latest data date)"},
			{Name: "electricity_rate", Type: "number", Description: "Electricity rate in $/kWh (default 0.20)", Default: defaultRate},
		},
	},
	{
		Name:        report.ToolPerformanceRatio,
		Description: "Calculate the Performance Ratio (efficiency) for a system on a given date.",
		Params: []Param{
			loggerIDParam(),
			dateParam("Date in YYYY-MM-DD format", true),
			{Name: "capacity_kw", Type: "number", Description: "Override system capacity in kW (optional, auto-inferred if not provided)"},
		},
	},
	{
		Name:        report.ToolForecast,
		Description: "Forecast energy production for upcoming days using historical average.",
		Params: []Param{
			loggerIDParam(),
			{Name: "days_ahead", Type: "integer", Description: "Number of days to forecast (1-7)", Default: defaultDaysAhead},
		},
	},
	{
		Name:        report.ToolDiagnoseErrors,
		Description: "Diagnose system errors by scanning metadata for error codes. Returns human-readable descriptions and suggested fixes.",
		Params: []Param{
			loggerIDParam(),
			{Name: "days", Type: "integer", Description: "Number of days to scan for errors (1-30)", Default: defaultHealthDays},
		},
	},
	{
		Name: report.ToolFleetOverview,
		Description: "Get high-level status of the entire solar fleet (site-wide). " +
			"Returns total current power, total daily energy, and active device counts.",
	},
	{
		Name:        report.ToolHealthCheck,
		Description: "Check service health and database connectivity.",
	},
}

// Parameters keys the params by name, the shape of the HTTP listing.
func (d Definition) Parameters() map[string]Param {
	out := make(map[string]Param, len(d.Params))
	for _, p := range d.Params {
		out[p.Name] = p
	}
	return out
}

// InputSchema renders the params as a JSON Schema object.
func (d Definition) InputSchema() map[string]any {
	props := make(map[string]any, len(d.Params))
	required := []string{}
	for _, p := range d.Params {
		prop := map[string]any{"type": p.Type, "description": p.Description}
		if p.Items != nil {
			prop["items"] = map[string]any{"type": p.Items.Type}
		}
		if p.Default != nil {
			prop["default"] = p.Default
		}
		props[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}
	return map[string]any{"type": "object", "properties": props, "required": required}
}
