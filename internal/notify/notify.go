// Package notify forwards context alerts raised by tool calls to external
// channels. Delivery is best effort; callers log failures and carry on.
package notify

import (
	"context"
	"errors"
	"time"
)

// Alert is the message published for a report whose context carries an alert.
type Alert struct {
	Tool     string    `json:"tool"`
	LoggerID string    `json:"loggerId,omitempty"`
	Alert    string    `json:"alert"`
	Summary  string    `json:"summary"`
	At       time.Time `json:"at"`
}

// Key identifies the alert's source for partitioning: the logger when there
// is one, else the tool.
func (a Alert) Key() string {
	if a.LoggerID != "" {
		return a.LoggerID
	}
	return a.Tool
}

type Notifier interface {
	Notify(ctx context.Context, a Alert) error
	Close() error
}

type Nop struct{}

func (Nop) Notify(context.Context, Alert) error { return nil }
func (Nop) Close() error                        { return nil }

// Multi delivers to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, a Alert) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, a); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, n := range m {
		if err := n.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
