package server

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/thesavant42/countyroots/internal/engine"
	"github.com/thesavant42/countyroots/internal/models"
	"github.com/thesavant42/countyroots/internal/style"
)

func (s *Server) health(c fiber.Ctx) error {
	return jsonSuccess(c, fiber.Map{"records": s.query.Len()})
}

// yearParam reads ?year=, falling back to the configured start year
func (s *Server) yearParam(c fiber.Ctx) (int, error) {
	raw := c.Query("year")
	if raw == "" {
		return s.startYear, nil
	}
	year, err := engine.ParseYear(raw)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return year, nil
}

// enabledParam parses ?enabled=French,English,other. Absent means keep the
// configured flags; present but empty disables every layer.
func enabledParam(c fiber.Ctx) map[models.Selector]bool {
	if !c.Request().URI().QueryArgs().Has("enabled") {
		return nil
	}
	enabled := make(map[models.Selector]bool)
	for _, name := range strings.Split(c.Query("enabled"), ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		enabled[models.ParseSelector(name)] = true
	}
	return enabled
}

// mapStyle returns a complete map style document for ?year=
func (s *Server) mapStyle(c fiber.Ctx) error {
	year, err := s.yearParam(c)
	if err != nil {
		return err
	}

	filters := style.ApplyEnabled(s.filters.Entries, enabledParam(c))
	st, err := s.synth.Synthesize(year, filters)
	if err != nil {
		return queryError(err)
	}
	if s.metrics != nil {
		s.metrics.StylesBuilt.Inc()
	}
	return c.JSON(st)
}

// codes returns the cumulative code list for one category
func (s *Server) codes(c fiber.Ctx) error {
	year, err := s.yearParam(c)
	if err != nil {
		return err
	}
	sel := models.ParseSelector(c.Query("category"))

	codes, err := s.query.CumulativeCodes(year, sel)
	if err != nil {
		return queryError(err)
	}
	return jsonSuccess(c, fiber.Map{
		"year":     year,
		"category": sel.String(),
		"count":    len(codes),
		"codes":    codes,
	})
}

func (s *Server) years(c fiber.Ctx) error {
	first, last, _ := s.query.Bounds()
	return jsonSuccess(c, fiber.Map{
		"years": s.query.Years(),
		"first": first,
		"last":  last,
	})
}

func (s *Server) periods(c fiber.Ctx) error {
	return jsonSuccess(c, models.Periods)
}

// stats returns per-category counts of records established on or before ?year=
func (s *Server) stats(c fiber.Ctx) error {
	year, err := s.yearParam(c)
	if err != nil {
		return err
	}
	return jsonSuccess(c, fiber.Map{
		"year":       year,
		"categories": s.query.Stats(year),
	})
}

type filterView struct {
	Category string `json:"category"`
	Label    string `json:"label"`
	Color    string `json:"color"`
	Enabled  bool   `json:"enabled"`
	Layer    string `json:"layer"`
}

func (s *Server) listFilters(c fiber.Ctx) error {
	views := make([]filterView, 0, len(s.filters.Entries))
	for _, f := range s.filters.Entries {
		views = append(views, filterView{
			Category: f.Selector().String(),
			Label:    f.DisplayName(),
			Color:    f.Color,
			Enabled:  f.Enabled,
			Layer:    style.LayerID(f),
		})
	}
	return jsonSuccess(c, views)
}

// queryError maps engine validation failures to 400s
func queryError(err error) error {
	if errors.Is(err, engine.ErrInvalidYear) || errors.Is(err, engine.ErrInvalidCategory) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return err
}
