package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/vizora/internal/models"
	"github.com/maheshrc27/vizora/internal/service"
)

type PlatformHandler struct {
	us service.UserService
}

func NewPlatformHandler(us service.UserService) *PlatformHandler {
	return &PlatformHandler{us: us}
}

func (h *PlatformHandler) ListSocialAccounts(c *fiber.Ctx) error {
	accounts, err := h.us.Accounts(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(accounts)
}

// ConnectPlatform starts the simulated connection; the account shows up as
// connected after the returned delay.
func (h *PlatformHandler) ConnectPlatform(c *fiber.Ctx) error {
	platform, err := models.ParsePlatform(c.Query("platform"))
	if err != nil {
		return respondError(c, err)
	}

	status, err := h.us.ConnectPlatform(c.Context(), GetUserID(c), platform)
	if err != nil {
		return respondError(c, err)
	}

	code := fiber.StatusOK
	if status.Pending {
		code = fiber.StatusAccepted
	}
	return c.Status(code).JSON(status)
}
