package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ANIKETSHETTY47/solar-analyst/internal/cloud"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/config"
)

// FromConfig builds a notifier for every configured channel. With none
// configured it returns Nop.
func FromConfig(ctx context.Context, cfg *config.Config, log zerolog.Logger) (Notifier, error) {
	var out Multi
	if cfg.AlertsOverMQTT() {
		n, err := NewMQTTNotifier(cfg.MQTT)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
		log.Info().Str("broker", cfg.MQTT.Broker).Str("topic", cfg.MQTT.AlertTopic).Msg("alerts over mqtt")
	}
	if cfg.AlertsOverKafka() {
		out = append(out, NewKafkaNotifier(cfg.Kafka))
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.AlertTopic).Msg("alerts over kafka")
	}
	if cfg.AlertsOverSNS() {
		client, err := cloud.NewSNSClient(ctx, cfg.AWS.Region, cfg.AWS.SNSTopicArn, log)
		if err != nil {
			_ = out.Close()
			return nil, err
		}
		out = append(out, NewSNSNotifier(client))
		log.Info().Str("topic_arn", cfg.AWS.SNSTopicArn).Msg("alerts over sns")
	}

	switch len(out) {
	case 0:
		return Nop{}, nil
	case 1:
		return out[0], nil
	default:
		return out, nil
	}
}
