package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/chazu/sketch/pkg/store"
)

// ============================================================
// HTTP Server
// ============================================================

type sourceRequest struct {
	Source string `json:"source"`
}

var contentTypes = map[string]string{
	FormatDXF: "application/dxf",
	FormatSVG: "image/svg+xml",
	FormatPNG: "image/png",
}

// newServer routes the App's operations onto a fiber app.
func newServer(a *App, cfg fiber.Config) *fiber.App {
	if cfg.AppName == "" {
		cfg.AppName = "Sketch Service"
	}
	srv := fiber.New(cfg)

	srv.Use(recover.New())
	srv.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	srv.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{"*"},
		AllowMethods: []string{"*"},
	}))

	srv.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})
	srv.Get("/health/ready", func(c fiber.Ctx) error {
		if a.store == nil {
			return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"status": "no store"})
		}
		return c.JSON(fiber.Map{"status": "ready"})
	})

	api := srv.Group("/api")
	api.Post("/evaluate", a.handleEvaluate)
	api.Post("/snap", a.handleSnap)
	api.Get("/sketches", a.handleList)
	api.Get("/sketches/:name", a.handleLoad)
	api.Put("/sketches/:name", a.handleSave)
	api.Delete("/sketches/:name", a.handleDelete)
	api.Get("/sketches/:name/export/:format", a.handleExport)
	return srv
}

func (a *App) handleEvaluate(c fiber.Ctx) error {
	var req sourceRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, err)
	}
	result := a.Evaluate(req.Source)
	if result.Failed() {
		return c.Status(http.StatusUnprocessableEntity).JSON(result)
	}
	return c.JSON(result)
}

func (a *App) handleSnap(c fiber.Ctx) error {
	var q SnapQuery
	if err := decode(c, &q); err != nil {
		return badRequest(c, err)
	}
	result := a.Snap(q)
	if len(result.Errors) > 0 {
		return c.Status(http.StatusUnprocessableEntity).JSON(result)
	}
	return c.JSON(result)
}

func (a *App) handleList(c fiber.Ctx) error {
	entries, err := a.List(c.Context())
	if err != nil {
		return a.fail(c, err)
	}
	return c.JSON(entries)
}

func (a *App) handleLoad(c fiber.Ctx) error {
	result, err := a.Load(c.Context(), c.Params("name"))
	if err != nil {
		return a.fail(c, err)
	}
	return c.JSON(result)
}

func (a *App) handleSave(c fiber.Ctx) error {
	var req sourceRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, err)
	}
	result, err := a.Save(c.Context(), c.Params("name"), req.Source)
	if errors.Is(err, ErrScript) {
		return c.Status(http.StatusUnprocessableEntity).JSON(result)
	}
	if err != nil {
		return a.fail(c, err)
	}
	return c.JSON(result)
}

func (a *App) handleDelete(c fiber.Ctx) error {
	if err := a.Delete(c.Context(), c.Params("name")); err != nil {
		return a.fail(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func (a *App) handleExport(c fiber.Ctx) error {
	format := c.Params("format")
	body, err := a.ExportSketch(c.Context(), c.Params("name"), format)
	if err != nil {
		return a.fail(c, err)
	}
	c.Set("Content-Type", contentTypes[format])
	return c.Send(body)
}

// decode reads a JSON request body into v.
func decode(c fiber.Ctx, v any) error {
	if len(c.Body()) == 0 {
		return errors.New("body required")
	}
	if err := json.Unmarshal(c.Body(), v); err != nil {
		return errors.New("invalid JSON payload")
	}
	return nil
}

func badRequest(c fiber.Ctx, err error) error {
	return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}

func (a *App) fail(c fiber.Ctx, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrEmptyName), errors.Is(err, ErrUnknownFormat):
		status = http.StatusBadRequest
	case errors.Is(err, ErrNoStore):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		a.log.Error("request failed", "path", c.Path(), "err", err)
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
