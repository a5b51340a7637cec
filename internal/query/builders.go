// Package query builds the parameterized SQL behind every report. Statements
// use sqlx named parameters (:name); nothing caller-supplied is spliced into
// the text except values drawn from fixed allow-lists.
package query

import (
	"fmt"
	"strings"
	"time"
)

const table = "measurements"

// Query is one statement plus its named arguments. Name identifies the
// statement in logs, retries and test fakes.
type Query struct {
	Name string
	SQL  string
	Args map[string]any
}

const (
	NameLoggerList     = "logger_list"
	NameLoggerRange    = "logger_range"
	NameLoggersRange   = "loggers_range"
	NameHealthAnalysis = "health_analysis"
	NamePowerCurve     = "power_curve"
	NameComparison     = "comparison"
	NameFinancial      = "financial"
	NamePeakPower      = "peak_power"
	NamePerformance    = "performance"
	NameForecast       = "forecast"
	NameLoggerType     = "logger_type"
	NameErrorScan      = "error_scan"
	NameFleetPower     = "fleet_power"
	NameFleetEnergy    = "fleet_energy"
	NameFleetCount     = "fleet_count"
	NameAnchorDate     = "anchor_date"
)

// Storage columns are camelCase and must be quoted.
var columns = map[string]string{
	"logger_id":   `"loggerId"`,
	"logger_type": `"loggerType"`,
	"timestamp":   `"timestamp"`,
	"power":       `"activePowerWatts"`,
	"energy":      `"energyDailyKwh"`,
	"irradiance":  `"irradiance"`,
	"metadata":    `"metadata"`,
}

var metricColumns = map[string]string{
	"power":      columns["power"],
	"energy":     columns["energy"],
	"irradiance": columns["irradiance"],
}

func col(alias string) string {
	if c, ok := columns[alias]; ok {
		return c
	}
	panic(fmt.Sprintf("query: unknown column alias %q", alias))
}

// as renders `"storageColumn" AS alias`.
func as(alias string) string { return col(alias) + " AS " + alias }

// MetricColumn maps a comparison metric to its storage column. Unknown
// metrics fall back to power.
func MetricColumn(metric string) string {
	if c, ok := metricColumns[metric]; ok {
		return c
	}
	return metricColumns["power"]
}

func LoggerList() Query {
	return Query{
		Name: NameLoggerList,
		SQL: fmt.Sprintf(`
			SELECT %s, %s,
				MIN(%s) AS earliest_data,
				MAX(%s) AS latest_data,
				COUNT(*) AS record_count
			FROM %s
			GROUP BY %s, %s
			ORDER BY %s`,
			as("logger_id"), as("logger_type"),
			col("timestamp"), col("timestamp"),
			table,
			col("logger_id"), col("logger_type"),
			col("logger_id")),
		Args: map[string]any{},
	}
}

// LoggerRange is the smart-recovery query for one logger.
func LoggerRange(loggerID string) Query {
	return Query{
		Name: NameLoggerRange,
		SQL: fmt.Sprintf(`
			SELECT MIN(DATE(%s)) AS min_date, MAX(DATE(%s)) AS max_date
			FROM %s
			WHERE %s = :logger_id`,
			col("timestamp"), col("timestamp"), table, col("logger_id")),
		Args: map[string]any{"logger_id": loggerID},
	}
}

// LoggersRange is the smart-recovery query across a set of loggers.
func LoggersRange(loggerIDs []string) Query {
	return Query{
		Name: NameLoggersRange,
		SQL: fmt.Sprintf(`
			SELECT MIN(DATE(%s)) AS min_date, MAX(DATE(%s)) AS max_date
			FROM %s
			WHERE %s = ANY(:logger_ids)`,
			col("timestamp"), col("timestamp"), table, col("logger_id")),
		Args: map[string]any{"logger_ids": loggerIDs},
	}
}

func HealthAnalysis(loggerID string, since time.Time) Query {
	return Query{
		Name: NameHealthAnalysis,
		SQL: fmt.Sprintf(`
			SELECT %s, %s, %s, %s
			FROM %s
			WHERE %s = :logger_id
				AND %s >= :since
			ORDER BY %s ASC`,
			as("timestamp"), as("logger_id"), as("power"), as("irradiance"),
			table,
			col("logger_id"),
			col("timestamp"),
			col("timestamp")),
		Args: map[string]any{"logger_id": loggerID, "since": since},
	}
}

func PowerCurve(loggerID, date string) Query {
	return Query{
		Name: NamePowerCurve,
		SQL: fmt.Sprintf(`
			SELECT %s, %s, %s
			FROM %s
			WHERE %s = :logger_id
				AND DATE(%s) = :date
			ORDER BY %s ASC`,
			as("timestamp"), as("power"), as("irradiance"),
			table,
			col("logger_id"),
			col("timestamp"),
			col("timestamp")),
		Args: map[string]any{"logger_id": loggerID, "date": date},
	}
}

// Comparison selects one metric for several loggers, optionally pinned to a
// single calendar day.
func Comparison(metric string, loggerIDs []string, date *string) Query {
	args := map[string]any{"logger_ids": loggerIDs}
	var dateFilter string
	if date != nil {
		dateFilter = fmt.Sprintf("AND DATE(%s) = :date", col("timestamp"))
		args["date"] = *date
	}
	return Query{
		Name: NameComparison,
		SQL: fmt.Sprintf(`
			SELECT %s, %s, %s AS value
			FROM %s
			WHERE %s = ANY(:logger_ids)
				%s
			ORDER BY %s ASC`,
			as("timestamp"), as("logger_id"), MetricColumn(metric),
			table,
			col("logger_id"),
			dateFilter,
			col("timestamp")),
		Args: args,
	}
}

// dailyMaxEnergy is shared by the financial and forecast queries: the energy
// counter is cumulative within a day, so the day's yield is its maximum.
func dailyMaxEnergy(where, order string) string {
	return fmt.Sprintf(`
			SELECT DATE(%s) AS "date", MAX(%s) AS daily_kwh
			FROM %s
			WHERE %s = :logger_id
				%s
				AND %s IS NOT NULL
			GROUP BY DATE(%s)
			ORDER BY "date" %s`,
		col("timestamp"), col("energy"),
		table,
		col("logger_id"),
		where,
		col("energy"),
		col("timestamp"),
		order)
}

func Financial(loggerID, startDate, endDate string) Query {
	where := fmt.Sprintf("AND DATE(%s) >= :start_date\n\t\t\t\tAND DATE(%s) <= :end_date",
		col("timestamp"), col("timestamp"))
	return Query{
		Name: NameFinancial,
		SQL:  dailyMaxEnergy(where, "ASC"),
		Args: map[string]any{"logger_id": loggerID, "start_date": startDate, "end_date": endDate},
	}
}

func Forecast(loggerID string, since time.Time) Query {
	where := fmt.Sprintf("AND %s >= :since", col("timestamp"))
	return Query{
		Name: NameForecast,
		SQL:  dailyMaxEnergy(where, "DESC"),
		Args: map[string]any{"logger_id": loggerID, "since": since},
	}
}

// PeakPower is the all-time peak used to infer installed capacity.
func PeakPower(loggerID string) Query {
	return Query{
		Name: NamePeakPower,
		SQL: fmt.Sprintf(`
			SELECT MAX(%s) AS peak_watts
			FROM %s
			WHERE %s = :logger_id
				AND %s IS NOT NULL`,
			col("power"), table, col("logger_id"), col("power")),
		Args: map[string]any{"logger_id": loggerID},
	}
}

// Performance only returns rows where the panel was both lit and producing.
func Performance(loggerID, date string) Query {
	return Query{
		Name: NamePerformance,
		SQL: fmt.Sprintf(`
			SELECT %s, %s, %s
			FROM %s
			WHERE %s = :logger_id
				AND DATE(%s) = :date
				AND %s IS NOT NULL AND %s > 0
				AND %s IS NOT NULL AND %s > 0
			ORDER BY %s`,
			as("timestamp"), as("power"), as("irradiance"),
			table,
			col("logger_id"),
			col("timestamp"),
			col("power"), col("power"),
			col("irradiance"), col("irradiance"),
			col("timestamp")),
		Args: map[string]any{"logger_id": loggerID, "date": date},
	}
}

func LoggerType(loggerID string) Query {
	return Query{
		Name: NameLoggerType,
		SQL: fmt.Sprintf(`
			SELECT DISTINCT %s
			FROM %s
			WHERE %s = :logger_id
			LIMIT 1`,
			as("logger_type"), table, col("logger_id")),
		Args: map[string]any{"logger_id": loggerID},
	}
}

// ErrorScan returns metadata blobs that mention an error code, newest first.
func ErrorScan(loggerID string, since time.Time) Query {
	return Query{
		Name: NameErrorScan,
		SQL: fmt.Sprintf(`
			SELECT %s, CAST(%s AS text) AS metadata
			FROM %s
			WHERE %s = :logger_id
				AND %s >= :since
				AND %s IS NOT NULL
				AND CAST(%s AS text) LIKE '%%errorCode%%'
			ORDER BY %s DESC`,
			as("timestamp"), col("metadata"),
			table,
			col("logger_id"),
			col("timestamp"),
			col("metadata"),
			col("metadata"),
			col("timestamp")),
		Args: map[string]any{"logger_id": loggerID, "since": since},
	}
}

func FleetPower(since time.Time) Query {
	return Query{
		Name: NameFleetPower,
		SQL: fmt.Sprintf(`
			SELECT
				COUNT(DISTINCT %s) AS active_loggers,
				SUM(%s) AS total_power_watts,
				AVG(%s) AS avg_irradiance
			FROM %s
			WHERE %s >= :since`,
			col("logger_id"), col("power"), col("irradiance"), table, col("timestamp")),
		Args: map[string]any{"since": since},
	}
}

// FleetEnergy sums each logger's max-of-day counter for one calendar day.
func FleetEnergy(day string) Query {
	return Query{
		Name: NameFleetEnergy,
		SQL: fmt.Sprintf(`
			SELECT SUM(daily_kwh) AS total_daily_kwh
			FROM (
				SELECT MAX(%s) AS daily_kwh
				FROM %s
				WHERE DATE(%s) = :day
				GROUP BY %s
			) AS daily_maxes`,
			col("energy"), table, col("timestamp"), col("logger_id")),
		Args: map[string]any{"day": day},
	}
}

func FleetCount() Query {
	return Query{
		Name: NameFleetCount,
		SQL:  fmt.Sprintf(`SELECT COUNT(DISTINCT %s) AS total_count FROM %s`, col("logger_id"), table),
		Args: map[string]any{},
	}
}

func AnchorDate() Query {
	return Query{
		Name: NameAnchorDate,
		SQL:  fmt.Sprintf(`SELECT MAX(%s) AS latest FROM %s`, col("timestamp"), table),
		Args: map[string]any{},
	}
}

// Compact collapses whitespace; used when logging statements.
func (q Query) Compact() string {
	return strings.Join(strings.Fields(q.SQL), " ")
}
