// Package tools is the catalogue of analytics tools shared by the HTTP API,
// the RPC endpoint, the Lambda handler and the CLI. It decodes and validates
// arguments, runs the report engine and forwards context alerts.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/ANIKETSHETTY47/solar-analyst/internal/notify"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/report"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/service"
)

var ErrUnknownTool = errors.New("unknown tool")

// Engine is the report engine surface the tools call.
type Engine interface {
	ListLoggers(ctx context.Context) (*report.LoggerList, error)
	AnalyzeHealth(ctx context.Context, loggerID string, days int) (*report.AnomalyReport, error)
	PowerCurve(ctx context.Context, loggerID, date string) (*report.PowerCurve, error)
	CompareLoggers(ctx context.Context, loggerIDs []string, metric string, date *string) (report.Report, error)
	FinancialSavings(ctx context.Context, loggerID, startDate string, endDate *string, rate float64) (*report.FinancialReport, error)
	PerformanceRatio(ctx context.Context, loggerID, date string, capacityKW *float64) (*report.PerformanceReport, error)
	Forecast(ctx context.Context, loggerID string, daysAhead int) (*report.ProductionForecast, error)
	DiagnoseErrors(ctx context.Context, loggerID string, days int) (*report.DiagnosticsReport, error)
	FleetOverview(ctx context.Context) (*report.FleetOverview, error)
	HealthCheck(ctx context.Context) *report.HealthCheck
}

var _ Engine = (*service.Engine)(nil)

// handler runs one tool and returns the report plus the key its alerts are
// published under.
type handler func(ctx context.Context, r *Registry, raw json.RawMessage) (report.Report, string, error)

const notifyTimeout = 5 * time.Second

type Registry struct {
	engine   Engine
	validate *validator.Validate
	notifier notify.Notifier
	log      zerolog.Logger
	now      func() time.Time
	handlers map[string]handler
}

type Option func(*Registry)

func WithNotifier(n notify.Notifier) Option { return func(r *Registry) { r.notifier = n } }
func WithLogger(l zerolog.Logger) Option    { return func(r *Registry) { r.log = l } }
func WithClock(now func() time.Time) Option { return func(r *Registry) { r.now = now } }

func New(engine Engine, opts ...Option) *Registry {
	r := &Registry{
		engine:   engine,
		validate: newValidator(),
		notifier: notify.Nop{},
		log:      zerolog.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.handlers = map[string]handler{
		report.ToolListLoggers:      listLoggers,
		report.ToolAnalyzeHealth:    analyzeHealth,
		report.ToolPowerCurve:       powerCurve,
		report.ToolCompareLoggers:   compareLoggers,
		report.ToolFinancialSavings: financialSavings,
		report.ToolPerformanceRatio: performanceRatio,
		report.ToolForecast:         forecast,
		report.ToolDiagnoseErrors:   diagnoseErrors,
		report.ToolFleetOverview:    fleetOverview,
		report.ToolHealthCheck:      healthCheck,
	}
	return r
}

// Definitions lists the tools in catalogue order.
func (r *Registry) Definitions() []Definition { return definitions }

func (r *Registry) Names() []string {
	out := make([]string, len(definitions))
	for i, d := range definitions {
		out[i] = d.Name
	}
	return out
}

func (r *Registry) Has(name string) bool {
	_, ok := r.handlers[name]
	return ok
}

// Call runs the named tool with JSON arguments. Bad arguments yield a
// *ParamError, an unknown name wraps ErrUnknownTool; any other error is a
// storage failure.
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) (report.Report, error) {
	h, ok := r.handlers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	start := r.now()
	rep, key, err := h(ctx, r, args)
	if err != nil {
		r.log.Error().Err(err).Str("tool", name).Msg("tool failed")
		return nil, err
	}
	r.log.Info().Str("tool", name).Dur("took", r.now().Sub(start)).Msg("tool executed")
	r.forwardAlert(ctx, name, key, rep)
	return rep, nil
}

func (r *Registry) forwardAlert(ctx context.Context, tool, key string, rep report.Report) {
	env := rep.Narrative()
	if env == nil || env.Alert == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	a := notify.Alert{Tool: tool, LoggerID: key, Alert: env.Alert, Summary: env.Summary, At: r.now().UTC()}
	if err := r.notifier.Notify(ctx, a); err != nil {
		r.log.Warn().Err(err).Str("tool", tool).Msg("alert notification failed")
	}
}

func listLoggers(ctx context.Context, r *Registry, raw json.RawMessage) (report.Report, string, error) {
	if err := decode(r.validate, report.ToolListLoggers, raw, &noParams{}); err != nil {
		return nil, "", err
	}
	rep, err := r.engine.ListLoggers(ctx)
	return orNil(rep, err), "", err
}

func analyzeHealth(ctx context.Context, r *Registry, raw json.RawMessage) (report.Report, string, error) {
	var p healthParams
	if err := decode(r.validate, report.ToolAnalyzeHealth, raw, &p); err != nil {
		return nil, "", err
	}
	rep, err := r.engine.AnalyzeHealth(ctx, p.LoggerID, intOr(p.Days, defaultHealthDays))
	return orNil(rep, err), p.key(), err
}

func powerCurve(ctx context.Context, r *Registry, raw json.RawMessage) (report.Report, string, error) {
	var p curveParams
	if err := decode(r.validate, report.ToolPowerCurve, raw, &p); err != nil {
		return nil, "", err
	}
	rep, err := r.engine.PowerCurve(ctx, p.LoggerID, p.Date)
	return orNil(rep, err), p.key(), err
}

func compareLoggers(ctx context.Context, r *Registry, raw json.RawMessage) (report.Report, string, error) {
	var p compareParams
	if err := decode(r.validate, report.ToolCompareLoggers, raw, &p); err != nil {
		return nil, "", err
	}
	metric := p.Metric
	if metric == "" {
		metric = defaultMetric
	}
	rep, err := r.engine.CompareLoggers(ctx, p.LoggerIDs, metric, p.Date)
	return rep, p.key(), err
}

func financialSavings(ctx context.Context, r *Registry, raw json.RawMessage) (report.Report, string, error) {
	var p financialParams
	if err := decode(r.validate, report.ToolFinancialSavings, raw, &p); err != nil {
		return nil, "", err
	}
	rep, err := r.engine.FinancialSavings(ctx, p.LoggerID, p.StartDate, p.EndDate, floatOr(p.ElectricityRate, 0))
	return orNil(rep, err), p.key(), err
}

func performanceRatio(ctx context.Context, r *Registry, raw json.RawMessage) (report.Report, string, error) {
	var p performanceParams
	if err := decode(r.validate, report.ToolPerformanceRatio, raw, &p); err != nil {
		return nil, "", err
	}
	rep, err := r.engine.PerformanceRatio(ctx, p.LoggerID, p.Date, p.CapacityKW)
	return orNil(rep, err), p.key(), err
}

func forecast(ctx context.Context, r *Registry, raw json.RawMessage) (report.Report, string, error) {
	var p forecastParams
	if err := decode(r.validate, report.ToolForecast, raw, &p); err != nil {
		return nil, "", err
	}
	rep, err := r.engine.Forecast(ctx, p.LoggerID, intOr(p.DaysAhead, defaultDaysAhead))
	return orNil(rep, err), p.key(), err
}

func diagnoseErrors(ctx context.Context, r *Registry, raw json.RawMessage) (report.Report, string, error) {
	var p diagnosticsParams
	if err := decode(r.validate, report.ToolDiagnoseErrors, raw, &p); err != nil {
		return nil, "", err
	}
	rep, err := r.engine.DiagnoseErrors(ctx, p.LoggerID, intOr(p.Days, defaultHealthDays))
	return orNil(rep, err), p.key(), err
}

func fleetOverview(ctx context.Context, r *Registry, raw json.RawMessage) (report.Report, string, error) {
	if err := decode(r.validate, report.ToolFleetOverview, raw, &noParams{}); err != nil {
		return nil, "", err
	}
	rep, err := r.engine.FleetOverview(ctx)
	return orNil(rep, err), "", err
}

func healthCheck(ctx context.Context, r *Registry, raw json.RawMessage) (report.Report, string, error) {
	if err := decode(r.validate, report.ToolHealthCheck, raw, &noParams{}); err != nil {
		return nil, "", err
	}
	return r.engine.HealthCheck(ctx), "", nil
}

// orNil keeps a nil *T from becoming a non-nil report.Report.
func orNil[T report.Report](rep T, err error) report.Report {
	if err != nil {
		return nil
	}
	return rep
}
