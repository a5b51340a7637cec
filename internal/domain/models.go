// Package domain holds the row shapes read from the measurements table. Column
// names follow the fixed aliases produced by the query package.
package domain

import (
	"database/sql"
	"time"
)

type LoggerSummary struct {
	LoggerID     string       `db:"logger_id"`
	LoggerType   string       `db:"logger_type"`
	EarliestData sql.NullTime `db:"earliest_data"`
	LatestData   sql.NullTime `db:"latest_data"`
	RecordCount  int64        `db:"record_count"`
}

// DataRange is the smart-recovery answer: the first and last calendar day a
// key has data for. Both are null when the key is unknown.
type DataRange struct {
	MinDate sql.NullTime `db:"min_date"`
	MaxDate sql.NullTime `db:"max_date"`
}

type HealthSample struct {
	Timestamp  time.Time       `db:"timestamp"`
	LoggerID   string          `db:"logger_id"`
	Power      sql.NullFloat64 `db:"power"`
	Irradiance sql.NullFloat64 `db:"irradiance"`
}

type CurveSample struct {
	Timestamp  time.Time       `db:"timestamp"`
	Power      sql.NullFloat64 `db:"power"`
	Irradiance sql.NullFloat64 `db:"irradiance"`
}

type MetricSample struct {
	Timestamp time.Time       `db:"timestamp"`
	LoggerID  string          `db:"logger_id"`
	Value     sql.NullFloat64 `db:"value"`
}

// DailyEnergy is the max of the cumulative daily counter for one calendar day.
type DailyEnergy struct {
	Date     time.Time `db:"date"`
	DailyKWh float64   `db:"daily_kwh"`
}

type PeakPower struct {
	PeakWatts sql.NullFloat64 `db:"peak_watts"`
}

type PerformanceSample struct {
	Timestamp  time.Time `db:"timestamp"`
	Power      float64   `db:"power"`
	Irradiance float64   `db:"irradiance"`
}

type LoggerType struct {
	LoggerType string `db:"logger_type"`
}

type MetadataSample struct {
	Timestamp time.Time      `db:"timestamp"`
	Metadata  sql.NullString `db:"metadata"`
}

type FleetPower struct {
	ActiveLoggers   int64           `db:"active_loggers"`
	TotalPowerWatts sql.NullFloat64 `db:"total_power_watts"`
	AvgIrradiance   sql.NullFloat64 `db:"avg_irradiance"`
}

type FleetEnergy struct {
	TotalDailyKWh sql.NullFloat64 `db:"total_daily_kwh"`
}

type FleetCount struct {
	TotalCount int64 `db:"total_count"`
}

type Anchor struct {
	Latest sql.NullTime `db:"latest"`
}
