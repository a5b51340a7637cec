package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/ANIKETSHETTY47/solar-analyst/internal/config"
)

const (
	alertQoS       = 1
	publishTimeout = 5 * time.Second
)

// Publisher is the part of mqtt.Client the notifier uses.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

type MQTTNotifier struct {
	client Publisher
	topic  string
}

// NewMQTTNotifier connects to the configured broker.
func NewMQTTNotifier(cfg config.MQTTConfig) (*MQTTNotifier, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second)
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", cfg.Broker, token.Error())
	}
	return NewMQTTNotifierWith(client, cfg.AlertTopic), nil
}

func NewMQTTNotifierWith(client Publisher, topic string) *MQTTNotifier {
	return &MQTTNotifier{client: client, topic: topic}
}

func (n *MQTTNotifier) Notify(ctx context.Context, a Alert) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode alert: %w", err)
	}
	timeout := publishTimeout
	if dl, ok := ctx.Deadline(); ok {
		timeout = time.Until(dl)
	}
	token := n.client.Publish(n.topic, alertQoS, false, payload)
	if !token.WaitTimeout(timeout) {
		return fmt.Errorf("mqtt publish to %s: timed out", n.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt publish to %s: %w", n.topic, err)
	}
	return nil
}

func (n *MQTTNotifier) Close() error {
	n.client.Disconnect(250)
	return nil
}
