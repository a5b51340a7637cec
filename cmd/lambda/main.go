package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/solar-analyst/internal/app"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/cloud"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/config"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/report"
)

type caller interface {
	Call(ctx context.Context, name string, args json.RawMessage) (report.Report, error)
}

type handler struct {
	tools caller
	log   zerolog.Logger
}

// Handle runs one tool. Tool and parameter failures are reported in the
// response; only an unusable event is a Lambda error.
func (h *handler) Handle(ctx context.Context, ev cloud.ToolEvent) (cloud.ToolResponse, error) {
	if ev.Tool == "" {
		return cloud.ToolResponse{}, errors.New("event has no tool name")
	}
	rep, err := h.tools.Call(ctx, ev.Tool, ev.Arguments)
	if err != nil {
		h.log.Warn().Err(err).Str("tool", ev.Tool).Msg("tool call failed")
		return cloud.ToolResponse{Success: false, Error: err.Error()}, nil
	}
	body, err := json.Marshal(rep)
	if err != nil {
		return cloud.ToolResponse{}, fmt.Errorf("encode report: %w", err)
	}
	return cloud.ToolResponse{Success: true, Result: body}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	logger := config.NewLogger(cfg.LogLevel)

	a, err := app.Build(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("startup failed")
	}

	h := &handler{tools: a.Tools, log: logger}
	lambda.Start(h.Handle)
}
