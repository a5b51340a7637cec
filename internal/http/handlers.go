// Package http exposes the tool registry over a JSON API and the RPC
// endpoint, both served by fiber.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ANIKETSHETTY47/solar-analyst/internal/config"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/report"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/tools"
)

const (
	ServiceName     = "solar-analyst-http"
	sessionHeader   = "Mcp-Session-Id"
	requestIDLocal  = "requestid"
	statusUnhealthy = "unhealthy"
)

// Registry is the tool surface the handlers need.
type Registry interface {
	Call(ctx context.Context, name string, args json.RawMessage) (report.Report, error)
	Definitions() []tools.Definition
	Names() []string
	Has(name string) bool
}

// RPC handles raw JSON-RPC bodies; nil output means no reply.
type RPC interface {
	Handle(ctx context.Context, body []byte) []byte
	SessionID() string
}

type Handlers struct {
	tools Registry
	rpc   RPC
	log   zerolog.Logger
}

// NewApp builds the fiber app with middleware and every route registered.
func NewApp(reg Registry, rpc RPC, cfg config.APIConfig, log zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               ServiceName,
		ReadTimeout:           cfg.ReadTimeout,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString, ContextKey: requestIDLocal}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: corsOrigins(cfg.CORSOrigins),
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "*",
	}))
	app.Use(requestLogger(log))

	Register(app, &Handlers{tools: reg, rpc: rpc, log: log})
	return app
}

func Register(app *fiber.App, h *Handlers) {
	app.Get("/health", h.health)
	app.Get("/tools", h.listTools)
	app.Post("/tools/:name", h.callTool)
	app.Post("/mcp", h.mcp)
}

func (h *Handlers) health(c *fiber.Ctx) error {
	rep, err := h.tools.Call(c.UserContext(), report.ToolHealthCheck, nil)
	hc, ok := rep.(*report.HealthCheck)
	if err != nil || !ok {
		if err == nil {
			err = errors.New("health check returned no result")
		}
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":  statusUnhealthy,
			"service": ServiceName,
			"error":   err.Error(),
		})
	}
	status := report.ServiceDegraded
	if hc.Status == report.ServiceHealthy {
		status = report.ServiceHealthy
	}
	return c.JSON(fiber.Map{"status": status, "service": ServiceName, "details": hc})
}

type toolListing struct {
	Description string                 `json:"description"`
	Parameters  map[string]tools.Param `json:"parameters"`
}

func (h *Handlers) listTools(c *fiber.Ctx) error {
	out := make(map[string]toolListing)
	for _, d := range h.tools.Definitions() {
		out[d.Name] = toolListing{Description: d.Description, Parameters: d.Parameters()}
	}
	return c.JSON(fiber.Map{"tools": out})
}

func (h *Handlers) callTool(c *fiber.Ctx) error {
	name := c.Params("name")
	if !h.tools.Has(name) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success":         false,
			"error":           "Unknown tool: " + name,
			"available_tools": h.tools.Names(),
		})
	}

	// A body that is not JSON is treated as no arguments.
	var args json.RawMessage
	if body := c.Body(); json.Valid(body) {
		args = append(args, body...)
	}

	rep, err := h.tools.Call(c.UserContext(), name, args)
	var pe *tools.ParamError
	switch {
	case errors.As(err, &pe):
		h.log.Warn().Str("tool", name).Err(pe.Err).Msg("invalid tool parameters")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid parameters: " + pe.Err.Error()})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "result": rep})
}

func (h *Handlers) mcp(c *fiber.Ctx) error {
	c.Set(sessionHeader, h.rpc.SessionID())
	out := h.rpc.Handle(c.UserContext(), c.Body())
	if out == nil {
		return c.SendStatus(fiber.StatusAccepted)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(out)
}

func requestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}
		id, _ := c.Locals(requestIDLocal).(string)
		log.Info().
			Str("request_id", id).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
		return err
	}
}

// corsOrigins collapses a list containing the wildcard to the wildcard
// alone; fiber rejects "*" mixed with explicit origins.
func corsOrigins(list string) string {
	for _, o := range strings.Split(list, ",") {
		if strings.TrimSpace(o) == "*" {
			return "*"
		}
	}
	return list
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{"success": false, "error": err.Error()})
}
