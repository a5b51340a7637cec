package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, ":4000", cfg.API.Addr)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, DefaultAnalytics(), cfg.Analytics)
	assert.Equal(t, "solar/alerts", cfg.MQTT.AlertTopic)
	assert.False(t, cfg.AlertsOverMQTT())
	assert.False(t, cfg.AlertsOverKafka())
	assert.False(t, cfg.AlertsOverSNS())
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	t.Setenv("SOLAR_API_ADDR", ":9000")
	t.Setenv("SOLAR_ANALYTICS_ANOMALY_IRRADIANCE_THRESHOLD", "75.5")
	t.Setenv("SOLAR_ANALYTICS_RESAMPLE_INTERVAL", "5m")
	t.Setenv("SOLAR_KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("SOLAR_AWS_USE_CLOUD_SERVICES", "true")
	t.Setenv("SOLAR_AWS_SNS_TOPIC_ARN", "arn:aws:sns:us-east-1:123456789012:solar")

	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.API.Addr)
	assert.InDelta(t, 75.5, cfg.Analytics.AnomalyIrradianceThreshold, 1e-9)
	assert.Equal(t, 5*time.Minute, cfg.Analytics.ResampleInterval)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.AlertsOverKafka())
	assert.True(t, cfg.AlertsOverSNS())
}

func TestLoadFrom_RejectsInvalidValues(t *testing.T) {
	t.Setenv("SOLAR_ANALYTICS_MAX_DATA_POINTS", "0")
	t.Setenv("SOLAR_RETRY_MAX_ATTEMPTS", "0")

	_, err := LoadFrom(viper.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analytics.max_data_points must be positive")
	assert.Contains(t, err.Error(), "retry.max_attempts")
}

func TestValidate_ForecastWindow(t *testing.T) {
	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)

	cfg.Analytics.ForecastMinHistoryDays = 30
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "forecast_min_history_days")
}
