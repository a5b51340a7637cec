package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/ANIKETSHETTY47/solar-analyst/internal/domain"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/narrative"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/query"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/report"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/stats"
)

const (
	minCompared = 2
	maxCompared = 5

	msgCompareCount = "Provide 2-5 logger IDs for comparison"
	msgReservedID   = `"timestamp" cannot be used as a logger ID for comparison`
)

// pivotRow holds one timestamp's averaged value per logger.
type pivotRow struct {
	at     time.Time
	values map[string]*stats.Accumulator
}

// CompareLoggers lines up one metric for several loggers by timestamp. An
// id list outside 2..5 is refused without querying.
func (e *Engine) CompareLoggers(ctx context.Context, loggerIDs []string, metric string, date *string) (report.Report, error) {
	if len(loggerIDs) < minCompared || len(loggerIDs) > maxCompared {
		return &report.ErrorReport{Type: report.TypeError, Message: msgCompareCount}, nil
	}
	if slices.Contains(loggerIDs, report.TimestampKey) {
		return &report.ErrorReport{Type: report.TypeError, Message: msgReservedID}, nil
	}
	if metric == "" {
		metric = "power"
	}

	var rows []domain.MetricSample
	if err := e.store.Select(ctx, &rows, query.Comparison(metric, loggerIDs, date)); err != nil {
		return nil, err
	}

	out := &report.Comparison{
		Type:      report.TypeComparison,
		Metric:    metric,
		LoggerIDs: loggerIDs,
		Date:      date,
		Data:      []report.ComparisonPoint{},
	}
	if len(rows) == 0 {
		rec, err := e.recoverRange(ctx, query.LoggersRange(loggerIDs))
		if err != nil {
			return nil, err
		}
		window := "No data for the requested period."
		if date != nil {
			window = fmt.Sprintf("No data for %s.", *date)
		}
		out.Status, out.AvailableRange = rec.status, rec.rng
		out.Message = recoveryMessage(rec, msgUnknownLoggers, window)
		narrative.Attach(out)
		return out, nil
	}

	table, present := pivot(rows)
	if len(table) > e.cfg.ComparisonMaxPoints {
		table = resamplePivot(table, present, e.cfg.ResampleInterval)
	}

	var ids []string
	for _, id := range loggerIDs {
		if present[id] {
			ids = append(ids, id)
		}
	}
	for _, row := range table {
		p := report.ComparisonPoint{Timestamp: formatTimestamp(row.at), Series: make([]report.SeriesValue, 0, len(ids))}
		for _, id := range ids {
			var v *float64
			if acc := row.values[id]; acc != nil {
				v = acc.Mean()
			}
			p.Series = append(p.Series, report.SeriesValue{LoggerID: id, Value: v})
		}
		out.Data = append(out.Data, p)
	}

	out.Status = report.StatusOK
	out.RecordCount = ptr(len(out.Data))
	narrative.Attach(out)
	return out, nil
}

// pivot groups rows by timestamp, averaging duplicates. Timestamps where no
// logger has a value are dropped, as are loggers that never have one.
func pivot(rows []domain.MetricSample) ([]pivotRow, map[string]bool) {
	index := map[int64]int{}
	var table []pivotRow
	present := map[string]bool{}
	for _, r := range rows {
		if !r.Value.Valid {
			continue
		}
		key := r.Timestamp.UnixNano()
		i, ok := index[key]
		if !ok {
			i = len(table)
			index[key] = i
			table = append(table, pivotRow{at: r.Timestamp, values: map[string]*stats.Accumulator{}})
		}
		acc := table[i].values[r.LoggerID]
		if acc == nil {
			acc = &stats.Accumulator{}
			table[i].values[r.LoggerID] = acc
		}
		acc.Add(nullable(r.Value))
		present[r.LoggerID] = true
	}
	return table, present
}

// resamplePivot averages each logger's per-timestamp values into fixed bins.
// Empty bins are kept.
func resamplePivot(table []pivotRow, present map[string]bool, width time.Duration) []pivotRow {
	ts := make([]time.Time, len(table))
	for i, row := range table {
		ts[i] = row.at
	}
	starts, idx := stats.Bins(ts, width)
	out := make([]pivotRow, len(starts))
	for i, start := range starts {
		out[i] = pivotRow{at: start, values: map[string]*stats.Accumulator{}}
	}
	for i, row := range table {
		bin := out[idx[i]]
		for id := range present {
			acc := row.values[id]
			if acc == nil {
				continue
			}
			dst := bin.values[id]
			if dst == nil {
				dst = &stats.Accumulator{}
				bin.values[id] = dst
			}
			dst.Add(acc.Mean())
		}
	}
	return out
}
