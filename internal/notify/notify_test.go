package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ANIKETSHETTY47/solar-analyst/internal/config"
)

var sample = Alert{
	Tool:     "analyze_inverter_health",
	LoggerID: "INV-001",
	Alert:    "5 anomalies detected - investigation recommended",
	Summary:  "Found 5 anomalies",
	At:       time.Date(2024, 6, 15, 14, 0, 0, 0, time.UTC),
}

type recorder struct {
	got []Alert
	err error
}

func (r *recorder) Notify(_ context.Context, a Alert) error {
	r.got = append(r.got, a)
	return r.err
}

func (r *recorder) Close() error { return r.err }

func TestMulti_DeliversToAllAndJoinsErrors(t *testing.T) {
	boom := errors.New("broker down")
	ok, failing := &recorder{}, &recorder{err: boom}

	err := Multi{failing, ok}.Notify(context.Background(), sample)

	assert.ErrorIs(t, err, boom)
	assert.Len(t, ok.got, 1)
	assert.Len(t, failing.got, 1)
}

func TestAlertKey(t *testing.T) {
	assert.Equal(t, "INV-001", sample.Key())
	assert.Equal(t, "get_fleet_overview", Alert{Tool: "get_fleet_overview"}.Key())
}

type fakeToken struct {
	done bool
	err  error
}

func (t *fakeToken) Wait() bool                     { return t.done }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return t.done }
func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t *fakeToken) Error() error { return t.err }

type fakePublisher struct {
	topic   string
	qos     byte
	payload []byte
	token   *fakeToken
}

func (p *fakePublisher) Publish(topic string, qos byte, _ bool, payload interface{}) mqtt.Token {
	p.topic, p.qos, p.payload = topic, qos, payload.([]byte)
	return p.token
}

func (p *fakePublisher) Disconnect(uint) {}

func TestMQTTNotifier_PublishesJSON(t *testing.T) {
	pub := &fakePublisher{token: &fakeToken{done: true}}

	require.NoError(t, NewMQTTNotifierWith(pub, "solar/alerts").Notify(context.Background(), sample))

	assert.Equal(t, "solar/alerts", pub.topic)
	assert.Equal(t, byte(1), pub.qos)
	var got Alert
	require.NoError(t, json.Unmarshal(pub.payload, &got))
	assert.Equal(t, sample, got)
}

func TestMQTTNotifier_Timeout(t *testing.T) {
	pub := &fakePublisher{token: &fakeToken{done: false}}

	err := NewMQTTNotifierWith(pub, "solar/alerts").Notify(context.Background(), sample)
	assert.ErrorContains(t, err, "timed out")
}

type fakeWriter struct {
	msgs []kafka.Message
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestKafkaNotifier_KeysByLogger(t *testing.T) {
	w := &fakeWriter{}

	require.NoError(t, NewKafkaNotifierWith(w).Notify(context.Background(), sample))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "INV-001", string(w.msgs[0].Key))
	assert.Contains(t, string(w.msgs[0].Value), `"alert":"5 anomalies detected - investigation recommended"`)
}

type fakeSender struct{ subject, message string }

func (s *fakeSender) SendAlert(_ context.Context, subject, message string) (string, error) {
	s.subject, s.message = subject, message
	return "id", nil
}

func TestSNSNotifier_FormatsMessage(t *testing.T) {
	s := &fakeSender{}

	require.NoError(t, NewSNSNotifier(s).Notify(context.Background(), sample))

	assert.Equal(t, "Solar alert: INV-001", s.subject)
	assert.Contains(t, s.message, "Tool: analyze_inverter_health")
	assert.Contains(t, s.message, "2024-06-15T14:00:00Z")
}

func TestFromConfig_NothingConfiguredIsNop(t *testing.T) {
	n, err := FromConfig(context.Background(), &config.Config{}, zerolog.Nop())

	require.NoError(t, err)
	assert.IsType(t, Nop{}, n)
}

func TestFromConfig_KafkaOnly(t *testing.T) {
	cfg := &config.Config{Kafka: config.KafkaConfig{Brokers: []string{"localhost:9092"}, AlertTopic: "solar.alerts"}}

	n, err := FromConfig(context.Background(), cfg, zerolog.Nop())

	require.NoError(t, err)
	assert.IsType(t, &KafkaNotifier{}, n)
	require.NoError(t, n.Close())
}
