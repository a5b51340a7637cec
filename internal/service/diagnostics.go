package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ANIKETSHETTY47/solar-analyst/internal/domain"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/errorcodes"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/narrative"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/query"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/report"
)

type codeTally struct {
	count       int
	first, last time.Time
}

// DiagnoseErrors scans metadata for error codes over the last days and maps
// each code through the catalogue for the logger's type.
func (e *Engine) DiagnoseErrors(ctx context.Context, loggerID string, days int) (*report.DiagnosticsReport, error) {
	out := &report.DiagnosticsReport{Type: report.TypeDiagnosticsReport, LoggerID: loggerID}

	var types []domain.LoggerType
	if err := e.store.Select(ctx, &types, query.LoggerType(loggerID)); err != nil {
		return nil, err
	}
	if len(types) == 0 {
		out.Status, out.AvailableRange, out.Message = report.StatusNoData, report.EmptyRange(), "Logger not found"
		narrative.Attach(out)
		return out, nil
	}
	loggerType := types[0].LoggerType

	anchor, err := e.anchor(ctx)
	if err != nil {
		return nil, err
	}
	var rows []domain.MetadataSample
	if err := e.store.Select(ctx, &rows, query.ErrorScan(loggerID, anchor.Add(-time.Duration(days)*day))); err != nil {
		return nil, err
	}

	tallies := map[string]*codeTally{}
	for _, r := range rows {
		if !r.Metadata.Valid {
			continue
		}
		code, ok := errorCode(r.Metadata.String)
		if !ok {
			continue
		}
		t := tallies[code]
		if t == nil {
			tallies[code] = &codeTally{count: 1, first: r.Timestamp, last: r.Timestamp}
			continue
		}
		t.count++
		if r.Timestamp.Before(t.first) {
			t.first = r.Timestamp
		}
		if r.Timestamp.After(t.last) {
			t.last = r.Timestamp
		}
	}

	issues := make([]report.DiagnosticIssue, 0, len(tallies))
	for code, t := range tallies {
		def := errorcodes.Resolve(loggerType, code)
		issues = append(issues, report.DiagnosticIssue{
			Code:         code,
			Description:  def.Description,
			Severity:     def.Severity,
			Occurrences:  t.count,
			FirstSeen:    formatTimestamp(t.first),
			LastSeen:     formatTimestamp(t.last),
			SuggestedFix: def.Fix,
		})
	}
	sort.Slice(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if ra, rb := errorcodes.Rank(a.Severity), errorcodes.Rank(b.Severity); ra != rb {
			return ra < rb
		}
		if a.Occurrences != b.Occurrences {
			return a.Occurrences > b.Occurrences
		}
		return a.Code < b.Code
	})

	health := overallHealth(issues)
	total := len(issues)
	counts := report.CountSeverities(issues)
	if len(issues) > e.cfg.DiagnosticIssueLimit {
		issues = issues[:e.cfg.DiagnosticIssueLimit]
	}

	out.Status = report.StatusOK
	out.LoggerType = loggerType
	out.Period = fmt.Sprintf("Last %d days", days)
	out.OverallHealth = health
	out.IssueCount = ptr(total)
	out.Issues = issues
	out.Severities = &counts
	if total == 0 {
		out.Summary = "No errors detected - System health: GOOD"
	} else {
		out.Summary = fmt.Sprintf("Found %d issue(s) - System health: %s", total, strings.ToUpper(health))
	}
	narrative.Attach(out)
	return out, nil
}

// errorCode extracts metadata.errorCode, which devices report either as a
// string or as a number.
func errorCode(metadata string) (string, bool) {
	var m struct {
		ErrorCode any `json:"errorCode"`
	}
	if err := json.Unmarshal([]byte(metadata), &m); err != nil {
		return "", false
	}
	switch v := m.ErrorCode.(type) {
	case string:
		return v, v != ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return "", false
	}
}

func overallHealth(issues []report.DiagnosticIssue) string {
	if len(issues) == 0 {
		return report.HealthGood
	}
	best := 3
	for _, is := range issues {
		if r := errorcodes.Rank(is.Severity); r < best {
			best = r
		}
	}
	switch best {
	case 0:
		return report.HealthCritical
	case 1:
		return report.HealthWarning
	default:
		return report.HealthInfo
	}
}
