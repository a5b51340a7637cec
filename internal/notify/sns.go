package notify

import (
	"context"
	"fmt"
	"time"
)

type AlertSender interface {
	SendAlert(ctx context.Context, subject, message string) (string, error)
}

type SNSNotifier struct {
	sender AlertSender
}

func NewSNSNotifier(sender AlertSender) *SNSNotifier { return &SNSNotifier{sender: sender} }

func (n *SNSNotifier) Notify(ctx context.Context, a Alert) error {
	subject := fmt.Sprintf("Solar alert: %s", a.Key())
	message := fmt.Sprintf("%s\n\n%s\n\nTool: %s\nTime: %s", a.Alert, a.Summary, a.Tool, a.At.UTC().Format(time.RFC3339))
	_, err := n.sender.SendAlert(ctx, subject, message)
	return err
}

func (n *SNSNotifier) Close() error { return nil }
