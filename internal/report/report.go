// Package report defines the typed result of every analytics tool. Each
// variant carries a "type" discriminator so that encoded reports can be
// decoded back into the right Go type.
package report

import (
	"encoding/json"
	"fmt"
)

type Type string

const (
	TypeLoggerList         Type = "logger_list"
	TypeAnomalyReport      Type = "anomaly_report"
	TypePowerCurve         Type = "timeseries"
	TypeComparison         Type = "comparison"
	TypeFinancialReport    Type = "financial_report"
	TypePerformanceReport  Type = "performance_report"
	TypeProductionForecast Type = "production_forecast"
	TypeDiagnosticsReport  Type = "diagnostics_report"
	TypeFleetOverview      Type = "fleet_overview"
	TypeHealthCheck        Type = "health_check"
	TypeError              Type = "error"
)

// Status says whether a report found data for the requested window.
type Status string

const (
	StatusOK             Status = "ok"
	StatusNoData         Status = "no_data"
	StatusNoDataInWindow Status = "no_data_in_window"
)

// Report is implemented only by the variants in this package.
type Report interface {
	ReportType() Type
	// Narrative returns the attached context, or nil.
	Narrative() *Envelope
	sealed()
}

// AvailableRange is the smart-recovery answer. Both bounds are null for an
// unknown key and both are set when data exists outside the window.
type AvailableRange struct {
	Start *string `json:"start"`
	End   *string `json:"end"`
}

func EmptyRange() *AvailableRange { return &AvailableRange{} }

func Range(start, end string) *AvailableRange {
	return &AvailableRange{Start: &start, End: &end}
}

// SummaryStats are precomputed figures for narrative generation.
type SummaryStats struct {
	PeakValue   *float64 `json:"peakValue"`
	PeakTime    *string  `json:"peakTime"`
	AvgValue    *float64 `json:"avgValue"`
	TotalEnergy *float64 `json:"totalEnergy"`
	Trend       *string  `json:"trend"`
}

var factories = map[Type]func() Report{
	TypeLoggerList:         func() Report { return &LoggerList{} },
	TypeAnomalyReport:      func() Report { return &AnomalyReport{} },
	TypePowerCurve:         func() Report { return &PowerCurve{} },
	TypeComparison:         func() Report { return &Comparison{} },
	TypeFinancialReport:    func() Report { return &FinancialReport{} },
	TypePerformanceReport:  func() Report { return &PerformanceReport{} },
	TypeProductionForecast: func() Report { return &ProductionForecast{} },
	TypeDiagnosticsReport:  func() Report { return &DiagnosticsReport{} },
	TypeFleetOverview:      func() Report { return &FleetOverview{} },
	TypeHealthCheck:        func() Report { return &HealthCheck{} },
	TypeError:              func() Report { return &ErrorReport{} },
}

// Decode parses an encoded report, dispatching on its type field.
func Decode(data []byte) (Report, error) {
	var head struct {
		Type Type `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	newReport, ok := factories[head.Type]
	if !ok {
		return nil, fmt.Errorf("decode report: unknown type %q", head.Type)
	}
	r := newReport()
	if err := json.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("decode %s: %w", head.Type, err)
	}
	return r, nil
}
