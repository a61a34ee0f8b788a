// Package server exposes the query engine and style synthesizer over HTTP
// for the map front end.
package server

import (
	"errors"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/thesavant42/countyroots/internal/config"
	"github.com/thesavant42/countyroots/internal/metrics"
	"github.com/thesavant42/countyroots/internal/models"
	"github.com/thesavant42/countyroots/internal/style"
)

// Querier is the part of the engine the API needs
type Querier interface {
	style.CodeSource
	Years() []int
	Bounds() (first, last int, ok bool)
	Stats(year int) map[models.Category]int
	Len() int
}

// Server holds the Fiber app and its dependencies
type Server struct {
	App *fiber.App

	query     Querier
	synth     *style.Synthesizer
	filters   config.Filters
	metrics   *metrics.Metrics
	logger    *log.Logger
	startYear int
}

// Options configures the server
type Options struct {
	Filters   config.Filters
	Metrics   *metrics.Metrics
	Logger    *log.Logger
	StartYear int  // year used when a request names none
	AccessLog bool // log every request
}

// New builds the app and registers routes
func New(q Querier, opts Options) *Server {
	s := &Server{
		query:     q,
		synth:     style.New(q, opts.Filters.FallbackColor),
		filters:   opts.Filters,
		metrics:   opts.Metrics,
		logger:    opts.Logger,
		startYear: opts.StartYear,
	}

	s.App = fiber.New(fiber.Config{
		AppName: "countyroots",
		// query values become engine cache keys and must outlive the request
		Immutable: true,
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "Internal Server Error"

			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
				message = e.Message
			}
			if code >= fiber.StatusInternalServerError && s.logger != nil {
				s.logger.Error("Request failed", "path", c.Path(), "error", err)
			}
			return jsonError(c, code, message)
		},
	})

	s.App.Use(recover.New())
	if opts.AccessLog {
		s.App.Use(logger.New())
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.App.Get("/healthz", s.health)

	api := s.App.Group("/api")
	api.Get("/style", s.mapStyle)
	api.Get("/codes", s.codes)
	api.Get("/years", s.years)
	api.Get("/periods", s.periods)
	api.Get("/stats", s.stats)
	api.Get("/filters", s.listFilters)

	if s.metrics != nil {
		s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{})))
	}
}

// Listen serves until Shutdown is called
func (s *Server) Listen(addr string) error {
	return s.App.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown() error {
	return s.App.Shutdown()
}

// jsonSuccess returns a 200 response with data wrapped in the standard envelope.
func jsonSuccess(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

// jsonError returns an error response with the given HTTP status code.
func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "error",
		"error":  message,
	})
}
