// Package errorcodes is the read-only catalogue of logger error codes, keyed
// by logger type and then by code.
package errorcodes

import "fmt"

const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

type Definition struct {
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Fix         string `json:"fix"`
}

var catalogue = map[string]map[string]Definition{
	"goodwe": {
		"E001": {"Grid Voltage Out of Range", SeverityWarning, "Check grid connection and voltage stability"},
		"E002": {"Grid Frequency Out of Range", SeverityWarning, "Contact utility if persistent"},
		"E003": {"DC Voltage Too High", SeverityCritical, "Check PV string configuration"},
		"E004": {"Inverter Overtemperature", SeverityCritical, "Check ventilation and ambient temperature"},
		"E005": {"Isolation Fault", SeverityCritical, "Check cable insulation and connections"},
		"E006": {"GFCI Fault", SeverityCritical, "Check ground fault circuit interrupter"},
		"E007": {"PV Overcurrent", SeverityWarning, "Check string configuration and module ratings"},
		"E008": {"Communication Error", SeverityWarning, "Check network/RS485 connections"},
		"E009": {"Fan Failure", SeverityWarning, "Inspect and replace cooling fan if needed"},
		"E010": {"Anti-Islanding Failure", SeverityCritical, "Inverter requires professional inspection"},
	},
	"lti": {
		"F01": {"Communication Timeout", SeverityWarning, "Check network connection"},
		"F02": {"Sensor Fault", SeverityWarning, "Inspect temperature/irradiance sensors"},
		"F03": {"Data Logging Error", SeverityInfo, "Check storage capacity and retry"},
		"F04": {"Clock Sync Error", SeverityInfo, "Resync device clock with NTP"},
		"F05": {"Memory Full", SeverityWarning, "Export data and clear memory"},
	},
	"smartdog": {
		"ERR_COMM": {"Communication Error", SeverityWarning, "Check RS485/Modbus connection"},
		"ERR_TEMP": {"Temperature Sensor Fault", SeverityWarning, "Replace temperature sensor"},
		"ERR_IRR":  {"Irradiance Sensor Fault", SeverityWarning, "Check pyranometer connection and calibration"},
		"ERR_PWR":  {"Power Measurement Error", SeverityWarning, "Verify CT sensor placement and wiring"},
		"ERR_MEM":  {"Memory Error", SeverityWarning, "Reset device or replace memory module"},
		"ERR_CONF": {"Configuration Error", SeverityInfo, "Reconfigure device parameters"},
	},
	"meier": {
		"W100": {"Low Production Warning", SeverityInfo, "May be due to weather - monitor"},
		"W101": {"Yield Below Expected", SeverityInfo, "Check for shading or soiling"},
		"E100": {"Inverter Offline", SeverityCritical, "Check inverter power supply"},
		"E101": {"Grid Disconnection", SeverityCritical, "Verify grid connection and utility status"},
		"E102": {"DC Input Error", SeverityWarning, "Check PV array connections"},
		"E103": {"Inverter Fault", SeverityCritical, "Professional inspection required"},
	},
	"meteocontrol": {
		"ALM001": {"Sensor Disconnected", SeverityWarning, "Check sensor cable connections"},
		"ALM002": {"Data Gap Detected", SeverityInfo, "Review communication logs"},
		"ALM003": {"Irradiance Sensor Error", SeverityWarning, "Calibrate or replace pyranometer"},
		"ALM004": {"Temperature Sensor Error", SeverityWarning, "Check ambient temperature sensor"},
		"ALM005": {"Wind Sensor Error", SeverityInfo, "Inspect anemometer"},
	},
	"integra": {
		"SYS_ERR":   {"System Error", SeverityCritical, "Restart system and check logs"},
		"COMM_FAIL": {"Communication Failure", SeverityWarning, "Check network connectivity"},
		"DATA_ERR":  {"Data Integrity Error", SeverityWarning, "Verify data transmission"},
	},
	"mbmet": {
		"SENS_ERR":  {"Sensor Error", SeverityWarning, "Check meteorological sensors"},
		"CALIB_REQ": {"Calibration Required", SeverityInfo, "Schedule sensor calibration"},
	},
	"plexlog": {
		"DB_ERR":    {"Database Error", SeverityWarning, "Check SQLite database integrity"},
		"SYNC_FAIL": {"Sync Failure", SeverityWarning, "Retry data synchronization"},
	},
}

// Lookup returns the definition for a code on a logger type.
func Lookup(loggerType, code string) (Definition, bool) {
	def, ok := catalogue[loggerType][code]
	return def, ok
}

// Resolve is Lookup with the generic fallback for codes the catalogue does
// not know about.
func Resolve(loggerType, code string) Definition {
	if def, ok := Lookup(loggerType, code); ok {
		return def
	}
	return Definition{
		Description: fmt.Sprintf("Unknown error code: %s", code),
		Severity:    SeverityWarning,
		Fix:         "Consult manufacturer documentation",
	}
}

// Rank orders severities critical first. Unknown severities sort last.
func Rank(severity string) int {
	switch severity {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	case SeverityInfo:
		return 2
	default:
		return 3
	}
}

func LoggerTypes() []string {
	out := make([]string, 0, len(catalogue))
	for t := range catalogue {
		out = append(out, t)
	}
	return out
}
