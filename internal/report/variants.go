package report

type LoggerInfo struct {
	LoggerID     string  `json:"loggerId"`
	LoggerType   string  `json:"loggerType"`
	EarliestData *string `json:"earliestData"`
	LatestData   *string `json:"latestData"`
	RecordCount  int64   `json:"recordCount"`
}

type LoggerList struct {
	Type    Type         `json:"type"`
	Count   int          `json:"count"`
	Loggers []LoggerInfo `json:"loggers"`
	Context *Envelope    `json:"context,omitempty"`
}

type AnomalyPoint struct {
	Timestamp        string   `json:"timestamp"`
	ActivePowerWatts *float64 `json:"activePowerWatts"`
	Irradiance       *float64 `json:"irradiance"`
	Reason           string   `json:"reason"`
}

const ReasonDaytimeOutage = "daytime_outage"

// AnomalyReport lists daytime outages. AnomalyCount is the count before
// Points was truncated.
type AnomalyReport struct {
	Type           Type            `json:"type"`
	LoggerID       string          `json:"loggerId"`
	Status         Status          `json:"status"`
	AvailableRange *AvailableRange `json:"availableRange,omitempty"`
	DaysAnalyzed   *int            `json:"daysAnalyzed,omitempty"`
	TotalRecords   *int            `json:"totalRecords,omitempty"`
	AnomalyCount   *int            `json:"anomalyCount,omitempty"`
	Points         []AnomalyPoint  `json:"points"`
	Message        string          `json:"message,omitempty"`
	Context        *Envelope       `json:"context,omitempty"`
}

type PowerCurvePoint struct {
	Timestamp  string   `json:"timestamp"`
	Power      *float64 `json:"power"`
	Irradiance *float64 `json:"irradiance"`
}

type PowerCurve struct {
	Type           Type              `json:"type"`
	LoggerID       string            `json:"loggerId"`
	Date           string            `json:"date"`
	Status         Status            `json:"status"`
	AvailableRange *AvailableRange   `json:"availableRange,omitempty"`
	RecordCount    *int              `json:"recordCount,omitempty"`
	Data           []PowerCurvePoint `json:"data"`
	SummaryStats   *SummaryStats     `json:"summaryStats,omitempty"`
	Message        string            `json:"message,omitempty"`
	Context        *Envelope         `json:"context,omitempty"`
}

type Comparison struct {
	Type           Type              `json:"type"`
	Metric         string            `json:"metric"`
	LoggerIDs      []string          `json:"loggerIds"`
	Date           *string           `json:"date,omitempty"`
	Status         Status            `json:"status"`
	AvailableRange *AvailableRange   `json:"availableRange,omitempty"`
	RecordCount    *int              `json:"recordCount,omitempty"`
	Data           []ComparisonPoint `json:"data"`
	Message        string            `json:"message,omitempty"`
	Context        *Envelope         `json:"context,omitempty"`
}

type FinancialPeriod struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type FinancialReport struct {
	Type               Type            `json:"type"`
	LoggerID           string          `json:"loggerId"`
	Period             FinancialPeriod `json:"period"`
	Status             Status          `json:"status"`
	AvailableRange     *AvailableRange `json:"availableRange,omitempty"`
	DaysWithData       *int            `json:"daysWithData,omitempty"`
	TotalEnergyKWh     *float64        `json:"totalEnergyKwh,omitempty"`
	ElectricityRateUSD *float64        `json:"electricityRateUsd,omitempty"`
	SavingsUSD         *float64        `json:"savingsUsd,omitempty"`
	CO2OffsetKg        *float64        `json:"co2OffsetKg,omitempty"`
	TreesEquivalent    *float64        `json:"treesEquivalent,omitempty"`
	Summary            string          `json:"summary,omitempty"`
	Message            string          `json:"message,omitempty"`
	Context            *Envelope       `json:"context,omitempty"`
}

type PerformanceMetrics struct {
	AvgPowerWatts  float64 `json:"avgPowerWatts"`
	PeakPowerWatts float64 `json:"peakPowerWatts"`
	AvgIrradiance  float64 `json:"avgIrradiance"`
	DataPoints     int     `json:"dataPoints"`
}

// Performance classifications, distinct from the data Status.
const (
	ClassNormal   = "normal"
	ClassLow      = "low"
	ClassCritical = "critical"
)

type PerformanceReport struct {
	Type               Type                `json:"type"`
	LoggerID           string              `json:"loggerId"`
	Date               string              `json:"date"`
	InferredCapacityKW *float64            `json:"inferredCapacityKw,omitempty"`
	PerformanceRatio   *float64            `json:"performanceRatio,omitempty"`
	// ExactRatio is the unrounded ratio that Classification was derived from.
	ExactRatio         float64             `json:"-"`
	Status             Status              `json:"status"`
	Classification     string              `json:"classification,omitempty"`
	AvailableRange     *AvailableRange     `json:"availableRange,omitempty"`
	Metrics            *PerformanceMetrics `json:"metrics,omitempty"`
	Interpretation     string              `json:"interpretation,omitempty"`
	Message            string              `json:"message,omitempty"`
	Context            *Envelope           `json:"context,omitempty"`
}

type HistoricalStats struct {
	AverageKWh float64 `json:"averageKwh"`
	StdDevKWh  float64 `json:"stdDevKwh"`
	MinKWh     float64 `json:"minKwh"`
	MaxKWh     float64 `json:"maxKwh"`
}

const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

type ForecastDay struct {
	Date        string  `json:"date"`
	ExpectedKWh float64 `json:"expectedKwh"`
	RangeMin    float64 `json:"rangeMin"`
	RangeMax    float64 `json:"rangeMax"`
	Confidence  string  `json:"confidence"`
}

const MethodHistoricalAverage = "historical_average"

type ProductionForecast struct {
	Type            Type             `json:"type"`
	LoggerID        string           `json:"loggerId"`
	Status          Status           `json:"status"`
	AvailableRange  *AvailableRange  `json:"availableRange,omitempty"`
	Method          string           `json:"method,omitempty"`
	BasedOnDays     *int             `json:"basedOnDays,omitempty"`
	HistoricalStats *HistoricalStats `json:"historicalStats,omitempty"`
	Forecasts       []ForecastDay    `json:"forecasts,omitempty"`
	Summary         string           `json:"summary,omitempty"`
	Message         string           `json:"message,omitempty"`
	Context         *Envelope        `json:"context,omitempty"`
}

type DiagnosticIssue struct {
	Code         string `json:"code"`
	Description  string `json:"description"`
	Severity     string `json:"severity"`
	Occurrences  int    `json:"occurrences"`
	FirstSeen    string `json:"firstSeen"`
	LastSeen     string `json:"lastSeen"`
	SuggestedFix string `json:"suggestedFix"`
}

// SeverityCounts tallies issues by severity before the issue list is
// truncated.
type SeverityCounts struct {
	Critical int
	Warning  int
	Info     int
}

func CountSeverities(issues []DiagnosticIssue) SeverityCounts {
	var c SeverityCounts
	for _, is := range issues {
		switch is.Severity {
		case HealthCritical:
			c.Critical++
		case HealthWarning:
			c.Warning++
		case HealthInfo:
			c.Info++
		}
	}
	return c
}

// Diagnostics overall health; "good" when no issue was found.
const (
	HealthGood     = "good"
	HealthInfo     = "info"
	HealthWarning  = "warning"
	HealthCritical = "critical"
)

type DiagnosticsReport struct {
	Type           Type              `json:"type"`
	LoggerID       string            `json:"loggerId"`
	Status         Status            `json:"status"`
	AvailableRange *AvailableRange   `json:"availableRange,omitempty"`
	LoggerType     string            `json:"loggerType,omitempty"`
	Period         string            `json:"period,omitempty"`
	OverallHealth  string            `json:"overallHealth,omitempty"`
	IssueCount     *int              `json:"issueCount,omitempty"`
	Issues         []DiagnosticIssue `json:"issues"`
	Summary        string            `json:"summary,omitempty"`
	Message        string            `json:"message,omitempty"`
	Context        *Envelope         `json:"context,omitempty"`
	Severities     *SeverityCounts   `json:"-"`
}

const (
	FleetHealthy  = "Healthy"
	FleetDegraded = "Degraded"
	FleetCritical = "Critical"
)

type FleetStatus struct {
	TotalLoggers  int     `json:"totalLoggers"`
	ActiveLoggers int     `json:"activeLoggers"`
	PercentOnline float64 `json:"percentOnline"`
	FleetHealth   string  `json:"fleetHealth"`
	// ExactPercent is the unrounded PercentOnline that FleetHealth was
	// derived from.
	ExactPercent  float64 `json:"-"`
}

type FleetProduction struct {
	CurrentTotalPowerWatts float64 `json:"currentTotalPowerWatts"`
	TodayTotalEnergyKWh    float64 `json:"todayTotalEnergyKwh"`
	SiteAvgIrradiance      float64 `json:"siteAvgIrradiance"`
}

// DateMismatch is set when the newest data is older than today.
type DateMismatch struct {
	RequestedDate  string `json:"requestedDate"`
	ActualDataDate string `json:"actualDataDate"`
	DaysDifference int    `json:"daysDifference"`
	IsHistorical   bool   `json:"isHistorical"`
}

type FleetOverview struct {
	Type         Type            `json:"type"`
	Timestamp    string          `json:"timestamp"`
	Status       FleetStatus     `json:"status"`
	Production   FleetProduction `json:"production"`
	Summary      string          `json:"summary"`
	DateMismatch *DateMismatch   `json:"dateMismatch,omitempty"`
	Context      *Envelope       `json:"context,omitempty"`
}

type PoolStats struct {
	PoolSize   int `json:"pool_size"`
	CheckedIn  int `json:"checked_in"`
	CheckedOut int `json:"checked_out"`
	Overflow   int `json:"overflow"`
}

const (
	ServiceHealthy  = "healthy"
	ServiceDegraded = "degraded"
)

type HealthCheck struct {
	Type      Type       `json:"type"`
	Status    string     `json:"status"`
	Database  string     `json:"database"`
	PoolStats *PoolStats `json:"pool_stats,omitempty"`
}

// ErrorReport is returned for requests the engine refuses before querying.
type ErrorReport struct {
	Type    Type   `json:"type"`
	Message string `json:"message"`
}

func (*LoggerList) ReportType() Type         { return TypeLoggerList }
func (*AnomalyReport) ReportType() Type      { return TypeAnomalyReport }
func (*PowerCurve) ReportType() Type         { return TypePowerCurve }
func (*Comparison) ReportType() Type         { return TypeComparison }
func (*FinancialReport) ReportType() Type    { return TypeFinancialReport }
func (*PerformanceReport) ReportType() Type  { return TypePerformanceReport }
func (*ProductionForecast) ReportType() Type { return TypeProductionForecast }
func (*DiagnosticsReport) ReportType() Type  { return TypeDiagnosticsReport }
func (*FleetOverview) ReportType() Type      { return TypeFleetOverview }
func (*HealthCheck) ReportType() Type        { return TypeHealthCheck }
func (*ErrorReport) ReportType() Type        { return TypeError }

func (r *LoggerList) Narrative() *Envelope         { return r.Context }
func (r *AnomalyReport) Narrative() *Envelope      { return r.Context }
func (r *PowerCurve) Narrative() *Envelope         { return r.Context }
func (r *Comparison) Narrative() *Envelope         { return r.Context }
func (r *FinancialReport) Narrative() *Envelope    { return r.Context }
func (r *PerformanceReport) Narrative() *Envelope  { return r.Context }
func (r *ProductionForecast) Narrative() *Envelope { return r.Context }
func (r *DiagnosticsReport) Narrative() *Envelope  { return r.Context }
func (r *FleetOverview) Narrative() *Envelope      { return r.Context }
func (*HealthCheck) Narrative() *Envelope          { return nil }
func (*ErrorReport) Narrative() *Envelope          { return nil }

func (*LoggerList) sealed()         {}
func (*AnomalyReport) sealed()      {}
func (*PowerCurve) sealed()         {}
func (*Comparison) sealed()         {}
func (*FinancialReport) sealed()    {}
func (*PerformanceReport) sealed()  {}
func (*ProductionForecast) sealed() {}
func (*DiagnosticsReport) sealed()  {}
func (*FleetOverview) sealed()      {}
func (*HealthCheck) sealed()        {}
func (*ErrorReport) sealed()        {}
