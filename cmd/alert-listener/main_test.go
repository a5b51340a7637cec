package main

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLogAlert(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	logAlert(logger, "solar/alerts", []byte(`{"tool":"diagnose_error_codes","loggerId":"INV-001","alert":"2 critical error(s) require attention","summary":"s","at":"2024-06-15T14:00:00Z"}`))

	out := buf.String()
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"logger_id":"INV-001"`)
	assert.Contains(t, out, `"message":"2 critical error(s) require attention"`)
}

func TestLogAlert_BadPayload(t *testing.T) {
	var buf bytes.Buffer

	logAlert(zerolog.New(&buf), "solar/alerts", []byte(`nope`))

	assert.Contains(t, buf.String(), "undecodable alert")
}
