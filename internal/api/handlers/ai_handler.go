package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/vizora/internal/models"
	"github.com/maheshrc27/vizora/internal/service"
	"github.com/maheshrc27/vizora/internal/transfer"
)

type AIHandler struct {
	a        service.Assistant
	settings service.SettingsService
}

func NewAIHandler(a service.Assistant, settings service.SettingsService) *AIHandler {
	return &AIHandler{a: a, settings: settings}
}

// captionOptions fills tone and audience from the user's settings when the
// request leaves them out.
func (h *AIHandler) captionOptions(c *fiber.Ctx, req *transfer.CaptionRequest) (models.CaptionOptions, error) {
	opts := models.CaptionOptions{
		Audience:  req.Audience,
		Keywords:  req.Keywords,
		MaxLength: req.MaxLength,
	}

	settings, err := h.settings.GetSettingsInfo(c.Context(), GetUserID(c))
	if err != nil {
		return opts, err
	}

	opts.Tone = settings.Tone
	if req.Tone != "" {
		tone, err := models.ParseTone(req.Tone)
		if err != nil {
			return opts, err
		}
		opts.Tone = tone
	}
	if opts.Audience == "" {
		opts.Audience = settings.Audience
	}
	return opts, nil
}

func (h *AIHandler) GenerateCaptions(c *fiber.Ctx) error {
	var req transfer.CaptionRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	opts, err := h.captionOptions(c, &req)
	if err != nil {
		return respondError(c, err)
	}

	captions, err := h.a.GenerateCaptions(c.Context(), req.Content, req.Platforms, opts)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(captions)
}

func (h *AIHandler) GenerateFromImage(c *fiber.Ctx) error {
	var req transfer.CaptionRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	opts, err := h.captionOptions(c, &req)
	if err != nil {
		return respondError(c, err)
	}

	captions, err := h.a.GenerateFromImage(c.Context(), req.ImageDescription, req.Platforms, opts)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(captions)
}

func (h *AIHandler) Chat(c *fiber.Ctx) error {
	var req transfer.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}

	reply, err := h.a.Chat(c.Context(), req.Messages)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.ChatMessage{Role: models.RoleAssistant, Content: reply})
}

func (h *AIHandler) AnalyzeImage(c *fiber.Ctx) error {
	var req transfer.ImageAnalysisRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}

	analysis, err := h.a.AnalyzeImage(c.Context(), req.ImageURL)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"analysis": analysis})
}

func (h *AIHandler) GenerateHashtags(c *fiber.Ctx) error {
	var req transfer.HashtagRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	if !req.Platform.Valid() {
		req.Platform = models.Instagram
	}

	hashtags, err := h.a.GenerateHashtags(c.Context(), req.Content, req.Platform)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"hashtags": hashtags})
}

func (h *AIHandler) PostTimes(c *fiber.Ctx) error {
	platform := models.Instagram
	if name := c.Query("platform"); name != "" {
		p, err := models.ParsePlatform(name)
		if err != nil {
			return respondError(c, err)
		}
		platform = p
	}

	return c.JSON(fiber.Map{
		"platform": platform,
		"times":    h.a.OptimalPostTimes(c.Context(), platform),
	})
}

func (h *AIHandler) Status(c *fiber.Ctx) error {
	status := h.a.TestConnection(c.Context())
	return c.JSON(fiber.Map{
		"configured": h.a.Configured(),
		"success":    status.Success,
		"message":    status.Message,
	})
}
