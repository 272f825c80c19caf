package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/vizora/internal/service"
	"github.com/maheshrc27/vizora/internal/transfer"
)

type PublishHandler struct {
	s service.PublishService
}

func NewPublishHandler(service service.PublishService) *PublishHandler {
	return &PublishHandler{s: service}
}

// Publish plans the hand-over of a finished post without storing it.
func (h *PublishHandler) Publish(c *fiber.Ctx) error {
	var post transfer.PostData
	if err := c.BodyParser(&post); err != nil {
		return badJSON(c)
	}

	mobile := c.QueryBool("mobile", service.IsMobileUserAgent(c.Get(fiber.HeaderUserAgent)))
	device := service.NewRecordingDevice()

	results, err := h.s.Dispatch(c.Context(), &post, mobile, device)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"results": results,
		"steps":   device.Steps(),
	})
}

func (h *PublishHandler) PrepareManualPost(c *fiber.Ctx) error {
	var post transfer.PostData
	if err := c.BodyParser(&post); err != nil {
		return badJSON(c)
	}
	return c.JSON(h.s.PrepareManualPost(&post))
}
