package report

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TimestampKey is the comparison point's time field. It cannot double as a
// logger id.
const TimestampKey = "timestamp"

// SeriesValue is one logger's value at a comparison timestamp. Value is nil
// when the logger has no sample there.
type SeriesValue struct {
	LoggerID string
	Value    *float64
}

// ComparisonPoint encodes as a flat object keyed by logger id:
//
//	{"timestamp": "...", "INV-001": 1200.5, "INV-002": null}
//
// Series order is preserved in both directions.
type ComparisonPoint struct {
	Timestamp string
	Series    []SeriesValue
}

// Value returns the series value for loggerID.
func (p ComparisonPoint) Value(loggerID string) (*float64, bool) {
	for _, s := range p.Series {
		if s.LoggerID == loggerID {
			return s.Value, true
		}
	}
	return nil, false
}

func (p ComparisonPoint) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"` + TimestampKey + `":`)
	ts, err := json.Marshal(p.Timestamp)
	if err != nil {
		return nil, err
	}
	buf.Write(ts)
	for _, s := range p.Series {
		if s.LoggerID == TimestampKey {
			return nil, fmt.Errorf("comparison point: logger id %q collides with the timestamp key", s.LoggerID)
		}
		key, err := json.Marshal(s.LoggerID)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(s.Value)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (p *ComparisonPoint) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("comparison point: expected object, got %v", tok)
	}
	*p = ComparisonPoint{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("comparison point: unexpected key %v", tok)
		}
		if key == TimestampKey {
			if err := dec.Decode(&p.Timestamp); err != nil {
				return fmt.Errorf("comparison point timestamp: %w", err)
			}
			continue
		}
		var v *float64
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("comparison point %s: %w", key, err)
		}
		p.Series = append(p.Series, SeriesValue{LoggerID: key, Value: v})
	}
	_, err = dec.Token()
	return err
}
