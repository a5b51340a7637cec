package main

import (
	"context"
	"encoding/json"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/solar-analyst/internal/config"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/notify"
)

// logAlert decodes one alert message and writes it to the log.
func logAlert(logger zerolog.Logger, topic string, payload []byte) {
	var a notify.Alert
	if err := json.Unmarshal(payload, &a); err != nil {
		logger.Error().Err(err).Str("topic", topic).Msg("undecodable alert")
		return
	}
	logger.Warn().
		Str("tool", a.Tool).
		Str("logger_id", a.LoggerID).
		Time("at", a.At).
		Str("summary", a.Summary).
		Msg(a.Alert)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	logger := config.NewLogger(cfg.LogLevel)
	if !cfg.AlertsOverMQTT() {
		logger.Fatal().Msg("mqtt.broker is not configured")
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTT.Broker).
		SetClientID(cfg.MQTT.ClientID + "-listener")
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		logger.Fatal().Err(token.Error()).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	handler := func(_ mqtt.Client, msg mqtt.Message) {
		logAlert(logger, msg.Topic(), msg.Payload())
	}
	if token := client.Subscribe(cfg.MQTT.AlertTopic, 1, handler); token.Wait() && token.Error() != nil {
		logger.Fatal().Err(token.Error()).Msg("subscribe failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	logger.Info().Str("topic", cfg.MQTT.AlertTopic).Msg("alert listener running; Ctrl+C to stop")
	<-ctx.Done()
}
