package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ANIKETSHETTY47/solar-analyst/internal/config"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/domain"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/query"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/report"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/repository"
)

// fakeStore answers queries by name. Select results are slices, Get results
// single rows; names with no entry yield empty results.
type fakeStore struct {
	mu      sync.Mutex
	rows    map[string]any
	errs    map[string]error
	anchor  time.Time
	health  repository.HealthStatus
	queries []query.Query
}

func newFakeStore(anchor time.Time) *fakeStore {
	return &fakeStore{rows: map[string]any{}, errs: map[string]error{}, anchor: anchor}
}

func (f *fakeStore) answer(dest any, q query.Query) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if err := f.errs[q.Name]; err != nil {
		return err
	}
	if v, ok := f.rows[q.Name]; ok {
		reflect.ValueOf(dest).Elem().Set(reflect.ValueOf(v))
	}
	return nil
}

func (f *fakeStore) Select(_ context.Context, dest any, q query.Query) error { return f.answer(dest, q) }
func (f *fakeStore) Get(_ context.Context, dest any, q query.Query) error    { return f.answer(dest, q) }

func (f *fakeStore) AnchorDate(context.Context) (time.Time, error) { return f.anchor, nil }

func (f *fakeStore) Health(context.Context) repository.HealthStatus { return f.health }

func (f *fakeStore) names() []string {
	out := make([]string, len(f.queries))
	for i, q := range f.queries {
		out[i] = q.Name
	}
	return out
}

var anchor = time.Date(2024, 6, 15, 14, 0, 0, 0, time.UTC)

func at(hh, mm int) time.Time { return time.Date(2024, 6, 15, hh, mm, 0, 0, time.UTC) }

func num(v float64) sql.NullFloat64 { return sql.NullFloat64{Float64: v, Valid: true} }

func dateRange(start, end string) domain.DataRange {
	s, _ := time.Parse(dateLayout, start)
	e, _ := time.Parse(dateLayout, end)
	return domain.DataRange{MinDate: sql.NullTime{Time: s, Valid: true}, MaxDate: sql.NullTime{Time: e, Valid: true}}
}

func newEngine(store Store, mutate ...func(*config.AnalyticsConfig)) *Engine {
	cfg := config.DefaultAnalytics()
	for _, m := range mutate {
		m(&cfg)
	}
	return New(store, cfg, WithClock(func() time.Time { return anchor }))
}

func TestAnalyzeHealth_FlagsDaytimeOutagesOnly(t *testing.T) {
	store := newFakeStore(anchor)
	store.rows[query.NameHealthAnalysis] = []domain.HealthSample{
		{Timestamp: at(10, 0), LoggerID: "INV-001", Power: num(0), Irradiance: num(600)},
		{Timestamp: at(10, 15), LoggerID: "INV-001", Irradiance: num(300)},
		{Timestamp: at(10, 30), LoggerID: "INV-001", Power: num(0), Irradiance: num(10)},
		{Timestamp: at(10, 45), LoggerID: "INV-001", Power: num(500), Irradiance: num(700)},
		{Timestamp: at(11, 0), LoggerID: "INV-001", Power: num(0)},
	}

	r, err := newEngine(store).AnalyzeHealth(context.Background(), "INV-001", 7)
	require.NoError(t, err)

	assert.Equal(t, report.StatusOK, r.Status)
	assert.Equal(t, 5, *r.TotalRecords)
	assert.Equal(t, 2, *r.AnomalyCount)
	require.Len(t, r.Points, 2)
	assert.Equal(t, "2024-06-15T10:00:00Z", r.Points[0].Timestamp)
	assert.Nil(t, r.Points[1].ActivePowerWatts)
	assert.Equal(t, report.ReasonDaytimeOutage, r.Points[1].Reason)
	require.NotNil(t, r.Context)

	since := store.queries[0].Args["since"].(time.Time)
	assert.Equal(t, anchor.AddDate(0, 0, -7), since)
}

func TestAnalyzeHealth_CapsPointsButCountsAll(t *testing.T) {
	store := newFakeStore(anchor)
	var rows []domain.HealthSample
	for i := 0; i < 4; i++ {
		rows = append(rows, domain.HealthSample{Timestamp: at(9, i), Power: num(0), Irradiance: num(400)})
	}
	store.rows[query.NameHealthAnalysis] = rows

	r, err := newEngine(store, func(c *config.AnalyticsConfig) { c.AnomalyResultLimit = 1 }).
		AnalyzeHealth(context.Background(), "INV-001", 1)
	require.NoError(t, err)

	assert.Len(t, r.Points, 1)
	assert.Equal(t, 4, *r.AnomalyCount)
}

func TestPowerCurve_SummaryStats(t *testing.T) {
	store := newFakeStore(anchor)
	store.rows[query.NamePowerCurve] = []domain.CurveSample{
		{Timestamp: at(10, 0), Power: num(100), Irradiance: num(200)},
		{Timestamp: at(10, 15), Power: num(200), Irradiance: num(300)},
		{Timestamp: at(10, 30), Power: num(300), Irradiance: num(400)},
		{Timestamp: at(10, 45), Power: num(400), Irradiance: num(500)},
	}

	r, err := newEngine(store).PowerCurve(context.Background(), "INV-001", "2024-06-15")
	require.NoError(t, err)

	require.Equal(t, report.StatusOK, r.Status)
	assert.Equal(t, 4, *r.RecordCount)
	s := r.SummaryStats
	require.NotNil(t, s)
	assert.Equal(t, 400.0, *s.PeakValue)
	assert.Equal(t, "10:45", *s.PeakTime)
	assert.Equal(t, 250.0, *s.AvgValue)
	assert.Equal(t, "rising", *s.Trend)
	// 250 W average over four 15-minute samples.
	assert.InDelta(t, 0.25, *s.TotalEnergy, 1e-9)
}

func TestPowerCurve_ResamplesLongDays(t *testing.T) {
	store := newFakeStore(anchor)
	var rows []domain.CurveSample
	for i := 0; i < 60; i++ {
		rows = append(rows, domain.CurveSample{Timestamp: at(10, 0).Add(time.Duration(i) * time.Minute), Power: num(float64(i))})
	}
	store.rows[query.NamePowerCurve] = rows

	r, err := newEngine(store, func(c *config.AnalyticsConfig) { c.MaxDataPoints = 10 }).
		PowerCurve(context.Background(), "INV-001", "2024-06-15")
	require.NoError(t, err)

	require.Len(t, r.Data, 4)
	assert.Equal(t, "2024-06-15T10:15:00Z", r.Data[1].Timestamp)
	assert.Equal(t, 22.0, *r.Data[1].Power)
	assert.Nil(t, r.Data[1].Irradiance)
}

func TestPowerCurve_UnknownLoggerVersusOtherWindow(t *testing.T) {
	t.Run("unknown logger", func(t *testing.T) {
		store := newFakeStore(anchor)

		r, err := newEngine(store).PowerCurve(context.Background(), "NOPE", "2024-06-20")
		require.NoError(t, err)

		assert.Equal(t, report.StatusNoData, r.Status)
		assert.Equal(t, report.EmptyRange(), r.AvailableRange)
		assert.Equal(t, msgUnknownLogger, r.Message)
		assert.Equal(t, []string{query.NamePowerCurve, query.NameLoggerRange}, store.names())
	})

	t.Run("data elsewhere", func(t *testing.T) {
		store := newFakeStore(anchor)
		store.rows[query.NameLoggerRange] = dateRange("2024-06-01", "2024-06-15")

		r, err := newEngine(store).PowerCurve(context.Background(), "INV-001", "2024-06-20")
		require.NoError(t, err)

		assert.Equal(t, report.StatusNoDataInWindow, r.Status)
		assert.Equal(t, report.Range("2024-06-01", "2024-06-15"), r.AvailableRange)
		assert.Equal(t, "No data for 2024-06-20. Data exists from 2024-06-01 to 2024-06-15.", r.Message)
		require.NotNil(t, r.Context)
		assert.Equal(t, "2024-06-15", r.Context.NextSteps[0].Params["date"])
	})
}

func TestPowerCurve_StorageErrorIsReturned(t *testing.T) {
	store := newFakeStore(anchor)
	boom := errors.New("connection refused")
	store.errs[query.NamePowerCurve] = boom

	_, err := newEngine(store).PowerCurve(context.Background(), "INV-001", "2024-06-15")
	assert.ErrorIs(t, err, boom)
}

func TestCompareLoggers_RejectsBadIDCounts(t *testing.T) {
	for _, ids := range [][]string{{"A"}, {"A", "B", "C", "D", "E", "F"}} {
		store := newFakeStore(anchor)

		r, err := newEngine(store).CompareLoggers(context.Background(), ids, "power", nil)
		require.NoError(t, err)

		er, ok := r.(*report.ErrorReport)
		require.True(t, ok)
		assert.Equal(t, "Provide 2-5 logger IDs for comparison", er.Message)
		assert.Empty(t, store.queries)
	}
}

func TestCompareLoggers_RejectsTimestampID(t *testing.T) {
	store := newFakeStore(anchor)

	r, err := newEngine(store).CompareLoggers(context.Background(), []string{"A", report.TimestampKey}, "power", nil)
	require.NoError(t, err)

	er, ok := r.(*report.ErrorReport)
	require.True(t, ok)
	assert.Contains(t, er.Message, `"timestamp" cannot be used`)
	assert.Empty(t, store.names())
}

func TestCompareLoggers_PivotsByTimestamp(t *testing.T) {
	store := newFakeStore(anchor)
	store.rows[query.NameComparison] = []domain.MetricSample{
		{Timestamp: at(10, 0), LoggerID: "A", Value: num(100)},
		{Timestamp: at(10, 0), LoggerID: "B", Value: num(80)},
		{Timestamp: at(10, 15), LoggerID: "A", Value: num(120)},
		{Timestamp: at(10, 15), LoggerID: "B"},
		{Timestamp: at(10, 30), LoggerID: "A"},
		{Timestamp: at(10, 30), LoggerID: "B"},
	}

	r, err := newEngine(store).CompareLoggers(context.Background(), []string{"A", "B", "C"}, "", nil)
	require.NoError(t, err)

	c := r.(*report.Comparison)
	assert.Equal(t, "power", c.Metric)
	assert.Equal(t, report.StatusOK, c.Status)
	require.Len(t, c.Data, 2)
	assert.Equal(t, 2, *c.RecordCount)

	_, hasC := c.Data[0].Value("C")
	assert.False(t, hasC)
	b, ok := c.Data[1].Value("B")
	require.True(t, ok)
	assert.Nil(t, b)
	a, _ := c.Data[1].Value("A")
	assert.Equal(t, 120.0, *a)
}

func TestCompareLoggers_NoDataUsesCombinedRange(t *testing.T) {
	store := newFakeStore(anchor)
	store.rows[query.NameLoggersRange] = dateRange("2024-05-01", "2024-05-31")

	r, err := newEngine(store).CompareLoggers(context.Background(), []string{"A", "B"}, "energy", nil)
	require.NoError(t, err)

	c := r.(*report.Comparison)
	assert.Equal(t, report.StatusNoDataInWindow, c.Status)
	assert.Equal(t, "No data for the requested period. Data exists from 2024-05-01 to 2024-05-31.", c.Message)
	assert.Empty(t, c.Data)
}

func TestFinancialSavings_Totals(t *testing.T) {
	store := newFakeStore(anchor)
	store.rows[query.NameFinancial] = []domain.DailyEnergy{{DailyKWh: 45.5}, {DailyKWh: 52.3}, {DailyKWh: 48.7}}

	r, err := newEngine(store).FinancialSavings(context.Background(), "INV-001", "2024-06-13", nil, 0)
	require.NoError(t, err)

	assert.Equal(t, report.StatusOK, r.Status)
	assert.Equal(t, report.FinancialPeriod{Start: "2024-06-13", End: "2024-06-15"}, r.Period)
	assert.Equal(t, 3, *r.DaysWithData)
	assert.InDelta(t, 146.5, *r.TotalEnergyKWh, 1e-9)
	assert.InDelta(t, 0.20, *r.ElectricityRateUSD, 1e-9)
	assert.InDelta(t, 29.3, *r.SavingsUSD, 1e-9)
	assert.InDelta(t, 124.53, *r.CO2OffsetKg, 0.011)
	assert.InDelta(t, 5.9, *r.TreesEquivalent, 1e-9)
	assert.Equal(t, "Generated 146.5 kWh, saving $29.30 and offsetting 124.5 kg of CO2", r.Summary)
}

func TestFinancialSavings_EmptyPeriodRecovers(t *testing.T) {
	store := newFakeStore(anchor)
	store.rows[query.NameLoggerRange] = dateRange("2024-06-01", "2024-06-15")
	end := "2024-01-31"

	r, err := newEngine(store).FinancialSavings(context.Background(), "INV-001", "2024-01-01", &end, 0.3)
	require.NoError(t, err)

	assert.Equal(t, report.StatusNoDataInWindow, r.Status)
	assert.Nil(t, r.TotalEnergyKWh)
	assert.Contains(t, r.Message, "No energy data found for the specified period.")
}

func TestInferCapacity(t *testing.T) {
	assert.Equal(t, 4.5, InferCapacity(4500))
	assert.Equal(t, 5.0, InferCapacity(4501))
	assert.Equal(t, 0.5, InferCapacity(1))
}

func TestPerformanceRatio_InfersCapacityAndClamps(t *testing.T) {
	store := newFakeStore(anchor)
	store.rows[query.NamePeakPower] = domain.PeakPower{PeakWatts: num(4500)}
	store.rows[query.NamePerformance] = []domain.PerformanceSample{
		// theoretical = 800 * 4.5 * 0.15 * 10 = 5400 W
		{Timestamp: at(12, 0), Power: 4320, Irradiance: 800},
		// theoretical 675 W, raw ratio 7.4 clamps to 1.5
		{Timestamp: at(12, 15), Power: 5000, Irradiance: 100},
	}

	r, err := newEngine(store).PerformanceRatio(context.Background(), "INV-001", "2024-06-15", nil)
	require.NoError(t, err)

	assert.Equal(t, report.StatusOK, r.Status)
	assert.Equal(t, 4.5, *r.InferredCapacityKW)
	assert.InDelta(t, 115.0, *r.PerformanceRatio, 1e-9)
	assert.Equal(t, report.ClassNormal, r.Classification)
	assert.Equal(t, "Your system is operating at 115% efficiency (Normal: 80-100%)", r.Interpretation)
	assert.Equal(t, 2, r.Metrics.DataPoints)
	assert.Equal(t, 5000.0, r.Metrics.PeakPowerWatts)
}

func TestPerformanceRatio_Classification(t *testing.T) {
	capacity := 1.0
	tests := []struct {
		power float64
		class string
	}{
		{power: 1200, class: report.ClassNormal},
		{power: 1050, class: report.ClassLow},
		{power: 600, class: report.ClassCritical},
	}
	for _, tt := range tests {
		t.Run(tt.class, func(t *testing.T) {
			store := newFakeStore(anchor)
			// theoretical = 1000 * 1.0 * 0.15 * 10 = 1500 W
			store.rows[query.NamePerformance] = []domain.PerformanceSample{{Power: tt.power, Irradiance: 1000}}

			r, err := newEngine(store).PerformanceRatio(context.Background(), "INV-001", "2024-06-15", &capacity)
			require.NoError(t, err)

			assert.Equal(t, tt.class, r.Classification)
			assert.NotContains(t, store.names(), query.NamePeakPower)
		})
	}
}

func TestPerformanceRatio_NarrativeUsesUnroundedRatio(t *testing.T) {
	capacity := 1.0
	store := newFakeStore(anchor)
	store.rows[query.NamePerformance] = []domain.PerformanceSample{{Power: 1192.4, Irradiance: 1000}}

	r, err := newEngine(store).PerformanceRatio(context.Background(), "INV-001", "2024-06-15", &capacity)
	require.NoError(t, err)

	assert.Equal(t, 79.5, *r.PerformanceRatio)
	assert.InDelta(t, 79.4933, r.ExactRatio, 1e-3)
	assert.Equal(t, report.ClassLow, r.Classification)
	assert.Equal(t, "Your system is operating at 79% efficiency (Below optimal - consider inspection)", r.Interpretation)
	assert.Contains(t, r.Context.Summary, "operated at 79% efficiency")
	assert.Equal(t, "79%", r.Context.Insights[0].Metric)
}

func TestPerformanceRatio_NoPowerHistory(t *testing.T) {
	store := newFakeStore(anchor)

	r, err := newEngine(store).PerformanceRatio(context.Background(), "INV-404", "2024-06-15", nil)
	require.NoError(t, err)

	assert.Equal(t, report.StatusNoData, r.Status)
	assert.Equal(t, "Cannot infer system capacity - no power data found", r.Message)
	assert.Nil(t, r.InferredCapacityKW)
}

func daily(values ...float64) []domain.DailyEnergy {
	out := make([]domain.DailyEnergy, len(values))
	for i, v := range values {
		out[i] = domain.DailyEnergy{Date: anchor.AddDate(0, 0, -i).Truncate(day), DailyKWh: v}
	}
	return out
}

func TestForecast_StableHistoryIsHighConfidence(t *testing.T) {
	store := newFakeStore(anchor)
	store.rows[query.NameForecast] = daily(40, 40, 40, 40)

	r, err := newEngine(store).Forecast(context.Background(), "INV-001", 3)
	require.NoError(t, err)

	require.Equal(t, report.StatusOK, r.Status)
	require.Len(t, r.Forecasts, 3)
	assert.Equal(t, "2024-06-16", r.Forecasts[0].Date)
	assert.Equal(t, "2024-06-18", r.Forecasts[2].Date)
	assert.Equal(t, report.ConfidenceHigh, r.Forecasts[0].Confidence)
	assert.Equal(t, 40.0, r.Forecasts[0].ExpectedKWh)
	assert.Equal(t, 4, *r.BasedOnDays)
	assert.Equal(t, "Expected ~40.0 kWh/day based on last 4 days (high confidence)", r.Summary)
}

func TestForecast_ZeroMeanIsLowConfidence(t *testing.T) {
	store := newFakeStore(anchor)
	store.rows[query.NameForecast] = daily(0, 0, 0)

	r, err := newEngine(store).Forecast(context.Background(), "INV-001", 0)
	require.NoError(t, err)

	require.Len(t, r.Forecasts, 1)
	assert.Equal(t, report.ConfidenceLow, r.Forecasts[0].Confidence)
	assert.Equal(t, 0.0, r.Forecasts[0].RangeMin)
}

func TestForecast_ClampsDaysAhead(t *testing.T) {
	store := newFakeStore(anchor)
	store.rows[query.NameForecast] = daily(30, 35, 40)

	r, err := newEngine(store).Forecast(context.Background(), "INV-001", 30)
	require.NoError(t, err)

	assert.Len(t, r.Forecasts, 7)
	assert.InDelta(t, 30.0, r.Forecasts[0].RangeMin, 1e-9)
	assert.InDelta(t, 40.0, r.Forecasts[0].RangeMax, 1e-9)
	// mean 35, sample stddev 5: cv 0.14
	assert.Equal(t, report.ConfidenceHigh, r.Forecasts[0].Confidence)
}

func TestForecast_InsufficientHistory(t *testing.T) {
	store := newFakeStore(anchor)
	store.rows[query.NameForecast] = daily(30, 35)

	r, err := newEngine(store).Forecast(context.Background(), "INV-001", 1)
	require.NoError(t, err)

	assert.Equal(t, report.StatusNoDataInWindow, r.Status)
	assert.Equal(t, report.Range("2024-06-14", "2024-06-15"), r.AvailableRange)
	assert.Equal(t, "Insufficient historical data for forecasting (need at least 3 days)", r.Message)
	assert.Empty(t, r.Forecasts)
}

func meta(ts time.Time, blob string) domain.MetadataSample {
	return domain.MetadataSample{Timestamp: ts, Metadata: sql.NullString{String: blob, Valid: true}}
}

func TestDiagnoseErrors_GroupsAndRanksCodes(t *testing.T) {
	store := newFakeStore(anchor)
	store.rows[query.NameLoggerType] = []domain.LoggerType{{LoggerType: "goodwe"}}
	store.rows[query.NameErrorScan] = []domain.MetadataSample{
		meta(at(13, 0), `{"errorCode":"E001"}`),
		meta(at(12, 0), `{"errorCode":"E004","temp":81}`),
		meta(at(11, 0), `{"errorCode":"E001"}`),
		meta(at(10, 0), `{"note":"errorCode missing"}`),
		meta(at(9, 0), `not json`),
	}

	r, err := newEngine(store).DiagnoseErrors(context.Background(), "INV-001", 7)
	require.NoError(t, err)

	require.Equal(t, report.StatusOK, r.Status)
	assert.Equal(t, "goodwe", r.LoggerType)
	assert.Equal(t, "Last 7 days", r.Period)
	assert.Equal(t, report.HealthCritical, r.OverallHealth)
	assert.Equal(t, 2, *r.IssueCount)
	require.Len(t, r.Issues, 2)
	assert.Equal(t, "E004", r.Issues[0].Code)
	assert.Equal(t, "Inverter Overtemperature", r.Issues[0].Description)
	assert.Equal(t, "E001", r.Issues[1].Code)
	assert.Equal(t, 2, r.Issues[1].Occurrences)
	assert.Equal(t, "2024-06-15T11:00:00Z", r.Issues[1].FirstSeen)
	assert.Equal(t, "2024-06-15T13:00:00Z", r.Issues[1].LastSeen)
	assert.Equal(t, "Found 2 issue(s) - System health: CRITICAL", r.Summary)
}

func TestDiagnoseErrors_CountsSeveritiesBeforeTruncating(t *testing.T) {
	store := newFakeStore(anchor)
	store.rows[query.NameLoggerType] = []domain.LoggerType{{LoggerType: "goodwe"}}
	store.rows[query.NameErrorScan] = []domain.MetadataSample{
		meta(at(13, 0), `{"errorCode":"E003"}`),
		meta(at(12, 0), `{"errorCode":"E001"}`),
		meta(at(11, 0), `{"errorCode":"E002"}`),
		meta(at(10, 0), `{"errorCode":"E008"}`),
	}

	r, err := newEngine(store, func(c *config.AnalyticsConfig) { c.DiagnosticIssueLimit = 1 }).
		DiagnoseErrors(context.Background(), "INV-001", 7)
	require.NoError(t, err)

	require.Len(t, r.Issues, 1)
	assert.Equal(t, 4, *r.IssueCount)
	require.NotNil(t, r.Severities)
	assert.Equal(t, report.SeverityCounts{Critical: 1, Warning: 3}, *r.Severities)
	assert.Equal(t, "1 critical error(s) require attention", r.Context.Alert)
}

func TestDiagnoseErrors_NumericAndUnknownCodes(t *testing.T) {
	store := newFakeStore(anchor)
	store.rows[query.NameLoggerType] = []domain.LoggerType{{LoggerType: "lti"}}
	store.rows[query.NameErrorScan] = []domain.MetadataSample{meta(at(10, 0), `{"errorCode":42}`)}

	r, err := newEngine(store).DiagnoseErrors(context.Background(), "INV-002", 3)
	require.NoError(t, err)

	require.Len(t, r.Issues, 1)
	assert.Equal(t, "42", r.Issues[0].Code)
	assert.Equal(t, "Unknown error code: 42", r.Issues[0].Description)
	assert.Equal(t, report.HealthWarning, r.OverallHealth)
}

func TestDiagnoseErrors_CleanAndUnknownLogger(t *testing.T) {
	store := newFakeStore(anchor)
	store.rows[query.NameLoggerType] = []domain.LoggerType{{LoggerType: "meier"}}

	r, err := newEngine(store).DiagnoseErrors(context.Background(), "INV-003", 7)
	require.NoError(t, err)
	assert.Equal(t, report.HealthGood, r.OverallHealth)
	assert.Equal(t, "No errors detected - System health: GOOD", r.Summary)
	raw, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"issues":[]`)

	r, err = newEngine(newFakeStore(anchor)).DiagnoseErrors(context.Background(), "NOPE", 7)
	require.NoError(t, err)
	assert.Equal(t, report.StatusNoData, r.Status)
	assert.Equal(t, "Logger not found", r.Message)
}

func fleetStore() *fakeStore {
	store := newFakeStore(anchor)
	store.rows[query.NameFleetCount] = domain.FleetCount{TotalCount: 6}
	store.rows[query.NameFleetPower] = domain.FleetPower{ActiveLoggers: 5, TotalPowerWatts: num(25000), AvgIrradiance: num(750)}
	store.rows[query.NameFleetEnergy] = domain.FleetEnergy{TotalDailyKWh: num(150.5)}
	return store
}

func TestFleetOverview_Aggregates(t *testing.T) {
	store := fleetStore()

	r, err := newEngine(store).FleetOverview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2024-06-15T14:00:00Z", r.Timestamp)
	assert.Equal(t, 6, r.Status.TotalLoggers)
	assert.Equal(t, 5, r.Status.ActiveLoggers)
	assert.Equal(t, 83.3, r.Status.PercentOnline)
	assert.InDelta(t, 500.0/6, r.Status.ExactPercent, 1e-9)
	assert.Equal(t, report.FleetDegraded, r.Status.FleetHealth)
	assert.Equal(t, 25000.0, r.Production.CurrentTotalPowerWatts)
	assert.Equal(t, 150.5, r.Production.TodayTotalEnergyKWh)
	assert.Equal(t, "Site generating 25.0 kW total. 5/6 devices active.", r.Summary)
	assert.Nil(t, r.DateMismatch)
	assert.ElementsMatch(t, []string{query.NameFleetPower, query.NameFleetEnergy, query.NameFleetCount}, store.names())
}

func TestFleetOverview_StaleDataMismatch(t *testing.T) {
	store := fleetStore()
	later := anchor.AddDate(0, 0, 3)
	e := New(store, config.DefaultAnalytics(), WithClock(func() time.Time { return later }))

	r, err := e.FleetOverview(context.Background())
	require.NoError(t, err)

	require.NotNil(t, r.DateMismatch)
	assert.Equal(t, report.DateMismatch{RequestedDate: "2024-06-18", ActualDataDate: "2024-06-15", DaysDifference: 3, IsHistorical: true}, *r.DateMismatch)
	assert.Equal(t, "Showing data from 2024-06-15 (3 days ago)", r.Context.Alert)
}

func TestFleetHealth(t *testing.T) {
	assert.Equal(t, report.FleetHealthy, fleetHealth(90.1))
	assert.Equal(t, report.FleetDegraded, fleetHealth(90))
	assert.Equal(t, report.FleetCritical, fleetHealth(50))
}

func TestFleetOverview_EmptyTable(t *testing.T) {
	r, err := newEngine(newFakeStore(anchor)).FleetOverview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0.0, r.Status.PercentOnline)
	assert.Equal(t, report.FleetCritical, r.Status.FleetHealth)
}

func TestListLoggers(t *testing.T) {
	store := newFakeStore(anchor)
	store.rows[query.NameLoggerList] = []domain.LoggerSummary{
		{LoggerID: "INV-001", LoggerType: "goodwe", LatestData: sql.NullTime{Time: anchor, Valid: true}, RecordCount: 96},
	}

	r, err := newEngine(store).ListLoggers(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, r.Count)
	assert.Nil(t, r.Loggers[0].EarliestData)
	assert.Equal(t, "2024-06-15T14:00:00Z", *r.Loggers[0].LatestData)
	require.NotNil(t, r.Context)
}

func TestHealthCheck(t *testing.T) {
	store := newFakeStore(anchor)
	store.health = repository.HealthStatus{Status: repository.StatusHealthy, Pool: repository.PoolStats{PoolSize: 5, CheckedIn: 4, CheckedOut: 1}}

	h := newEngine(store).HealthCheck(context.Background())
	assert.Equal(t, report.ServiceHealthy, h.Status)
	assert.Equal(t, &report.PoolStats{PoolSize: 5, CheckedIn: 4, CheckedOut: 1}, h.PoolStats)

	store.health = repository.HealthStatus{Status: repository.StatusUnhealthy}
	h = newEngine(store).HealthCheck(context.Background())
	assert.Equal(t, report.ServiceDegraded, h.Status)
	assert.Equal(t, "unknown error", h.Database)
	assert.Nil(t, h.PoolStats)
}
