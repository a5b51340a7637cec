package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/ANIKETSHETTY47/solar-analyst/internal/config"
)

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier writes alerts keyed by Alert.Key, so one logger's alerts
// stay ordered on a partition.
type KafkaNotifier struct {
	w MessageWriter
}

func NewKafkaNotifier(cfg config.KafkaConfig) *KafkaNotifier {
	return NewKafkaNotifierWith(&kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.AlertTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	})
}

func NewKafkaNotifierWith(w MessageWriter) *KafkaNotifier { return &KafkaNotifier{w: w} }

func (n *KafkaNotifier) Notify(ctx context.Context, a Alert) error {
	value, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode alert: %w", err)
	}
	if err := n.w.WriteMessages(ctx, kafka.Message{Key: []byte(a.Key()), Value: value, Time: a.At}); err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	return nil
}

func (n *KafkaNotifier) Close() error { return n.w.Close() }
