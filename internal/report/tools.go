package report

// Tool names, shared by the registry and by next-step hints.
const (
	ToolListLoggers      = "list_loggers"
	ToolAnalyzeHealth    = "analyze_inverter_health"
	ToolPowerCurve       = "get_power_curve"
	ToolCompareLoggers   = "compare_loggers"
	ToolFinancialSavings = "calculate_financial_savings"
	ToolPerformanceRatio = "calculate_performance_ratio"
	ToolForecast         = "forecast_production"
	ToolDiagnoseErrors   = "diagnose_error_codes"
	ToolFleetOverview    = "get_fleet_overview"
	ToolHealthCheck      = "health_check"
)
