package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/vizora/internal/service"
)

type InsightsHandler struct {
	s service.InsightsService
}

func NewInsightsHandler(service service.InsightsService) *InsightsHandler {
	return &InsightsHandler{s: service}
}

func (h *InsightsHandler) Dashboard(c *fiber.Ctx) error {
	d, err := h.s.Dashboard(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(d)
}

// Calendar defaults to the current month.
func (h *InsightsHandler) Calendar(c *fiber.Ctx) error {
	now := time.Now().UTC()
	year := c.QueryInt("year", now.Year())
	month := c.QueryInt("month", int(now.Month()))

	cal, err := h.s.Calendar(c.Context(), GetUserID(c), year, month)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cal)
}

func (h *InsightsHandler) Analytics(c *fiber.Ctx) error {
	a, err := h.s.Analytics(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(a)
}
