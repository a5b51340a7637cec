package tools

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	defaultHealthDays = 7
	defaultMetric     = "power"
	defaultRate       = 0.20
	defaultDaysAhead  = 1
)

type loggerParams struct {
	LoggerID string `json:"logger_id" validate:"required"`
}

func (p loggerParams) key() string { return p.LoggerID }

type healthParams struct {
	loggerParams
	Days *int `json:"days" validate:"omitempty,min=1,max=365"`
}

type curveParams struct {
	loggerParams
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

// The 2..5 count is enforced by the engine, which answers with an error
// report rather than a parameter error.
type compareParams struct {
	LoggerIDs []string `json:"logger_ids" validate:"required,dive,required,ne=timestamp"`
	Metric    string   `json:"metric" validate:"omitempty,oneof=power energy irradiance"`
	Date      *string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

func (p compareParams) key() string { return strings.Join(p.LoggerIDs, ",") }

type financialParams struct {
	loggerParams
	StartDate       string   `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate         *string  `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	ElectricityRate *float64 `json:"electricity_rate" validate:"omitempty,gte=0.01,lte=1"`
}

type performanceParams struct {
	loggerParams
	Date       string   `json:"date" validate:"required,datetime=2006-01-02"`
	CapacityKW *float64 `json:"capacity_kw" validate:"omitempty,gt=0"`
}

type forecastParams struct {
	loggerParams
	DaysAhead *int `json:"days_ahead" validate:"omitempty,min=1,max=7"`
}

type diagnosticsParams struct {
	loggerParams
	Days *int `json:"days" validate:"omitempty,min=1,max=30"`
}

type noParams struct{}

// ParamError reports arguments that failed to decode or validate.
type ParamError struct {
	Tool string
	Err  error
}

func (e *ParamError) Error() string { return fmt.Sprintf("invalid parameters for %s: %v", e.Tool, e.Err) }
func (e *ParamError) Unwrap() error { return e.Err }

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decode reads raw strictly into dst and validates it. Empty or null raw
// means no arguments.
func decode(v *validator.Validate, tool string, raw json.RawMessage, dst any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		raw = []byte("{}")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &ParamError{Tool: tool, Err: err}
	}
	if err := v.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return &ParamError{Tool: tool, Err: describe(verrs)}
		}
		return &ParamError{Tool: tool, Err: err}
	}
	return nil
}

func describe(verrs validator.ValidationErrors) error {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "datetime":
			msgs = append(msgs, fmt.Sprintf("%s: invalid date format %v, use YYYY-MM-DD", field, fe.Value()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", ")))
		case "min", "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		case "max", "lte":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", field, fe.Param()))
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s must be greater than %s", field, fe.Param()))
		case "ne":
			msgs = append(msgs, fmt.Sprintf("%s cannot be %q", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func floatOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}
