package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/vizora/internal/models"
	"github.com/maheshrc27/vizora/internal/service"
	"github.com/maheshrc27/vizora/internal/workflow"
)

type ComposeHandler struct {
	s service.ComposeService
}

func NewComposeHandler(service service.ComposeService) *ComposeHandler {
	return &ComposeHandler{s: service}
}

type platformsRequest struct {
	Platforms []models.Platform `json:"platforms"`
}

type contentRequest struct {
	Content string `json:"content"`
}

type scheduleRequest struct {
	ScheduledTime *time.Time `json:"scheduled_time"`
}

func snapshotResponse(c *fiber.Ctx, snap *workflow.Snapshot, err error) error {
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(snap)
}

func (h *ComposeHandler) Open(c *fiber.Ctx) error {
	snap, err := h.s.Open(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(snap)
}

func (h *ComposeHandler) Get(c *fiber.Ctx) error {
	snap, err := h.s.Get(c.Context(), c.Params("id"), GetUserID(c))
	return snapshotResponse(c, snap, err)
}

func (h *ComposeHandler) Close(c *fiber.Ctx) error {
	if err := h.s.Close(c.Context(), c.Params("id"), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ComposeHandler) SelectPlatforms(c *fiber.Ctx) error {
	var req platformsRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	snap, err := h.s.SelectPlatforms(c.Context(), c.Params("id"), GetUserID(c), req.Platforms)
	return snapshotResponse(c, snap, err)
}

func (h *ComposeHandler) SetContent(c *fiber.Ctx) error {
	var req contentRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	snap, err := h.s.SetContent(c.Context(), c.Params("id"), GetUserID(c), req.Content)
	return snapshotResponse(c, snap, err)
}

func (h *ComposeHandler) AddMedia(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse form",
		})
	}

	files := form.File["files"]
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No files selected",
		})
	}

	snap, err := h.s.AddMedia(c.Context(), c.Params("id"), GetUserID(c), files)
	return snapshotResponse(c, snap, err)
}

func (h *ComposeHandler) RemoveMedia(c *fiber.Ctx) error {
	snap, err := h.s.RemoveMedia(c.Context(), c.Params("id"), GetUserID(c), c.Query("media_id"))
	return snapshotResponse(c, snap, err)
}

func (h *ComposeHandler) SetSchedule(c *fiber.Ctx) error {
	var req scheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	snap, err := h.s.SetSchedule(c.Context(), c.Params("id"), GetUserID(c), req.ScheduledTime)
	return snapshotResponse(c, snap, err)
}

func (h *ComposeHandler) Next(c *fiber.Ctx) error {
	snap, err := h.s.Next(c.Context(), c.Params("id"), GetUserID(c))
	return snapshotResponse(c, snap, err)
}

func (h *ComposeHandler) Back(c *fiber.Ctx) error {
	snap, err := h.s.Back(c.Context(), c.Params("id"), GetUserID(c))
	return snapshotResponse(c, snap, err)
}

func (h *ComposeHandler) Preview(c *fiber.Ctx) error {
	review, err := h.s.Review(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(review)
}

func (h *ComposeHandler) SuggestCaptions(c *fiber.Ctx) error {
	var opts models.CaptionOptions
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&opts); err != nil {
			return badJSON(c)
		}
	}
	if opts.Tone != "" {
		if _, err := models.ParseTone(string(opts.Tone)); err != nil {
			return respondError(c, err)
		}
	}

	captions, err := h.s.SuggestCaptions(c.Context(), c.Params("id"), GetUserID(c), opts)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(captions)
}

func (h *ComposeHandler) ApplyCaption(c *fiber.Ctx) error {
	var caption models.AICaption
	if err := c.BodyParser(&caption); err != nil {
		return badJSON(c)
	}
	snap, err := h.s.ApplyCaption(c.Context(), c.Params("id"), GetUserID(c), caption)
	return snapshotResponse(c, snap, err)
}

func (h *ComposeHandler) SaveDraft(c *fiber.Ctx) error {
	post, err := h.s.SaveDraft(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// Publish finishes the composition. The response carries the steps the
// browser replays when the post goes out now.
func (h *ComposeHandler) Publish(c *fiber.Ctx) error {
	mobile := c.QueryBool("mobile", service.IsMobileUserAgent(c.Get(fiber.HeaderUserAgent)))

	out, err := h.s.Publish(c.Context(), c.Params("id"), GetUserID(c), mobile)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
