package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/vizora/configs"
	"github.com/maheshrc27/vizora/internal/service"
	"github.com/maheshrc27/vizora/internal/transfer"
	"github.com/maheshrc27/vizora/pkg/utils"
)

const sessionDuration = 24 * time.Hour

type AuthHandler struct {
	s   service.AuthService
	cfg config.Config
}

func NewAuthHandler(cfg config.Config, service service.AuthService) *AuthHandler {
	return &AuthHandler{s: service, cfg: cfg}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req transfer.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}

	user, err := h.s.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	token, err := utils.IssueSessionToken(h.cfg.SecretKey, user.ID, sessionDuration)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "something went wrong",
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.CookieName,
		Value:    token,
		HTTPOnly: true,
		Secure:   h.cfg.Environment == "production",
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
		Expires:  time.Now().Add(sessionDuration),
	})

	return c.Status(fiber.StatusOK).JSON(user)
}

// Logout always clears the cookie, even when the session is already gone.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if claims, err := utils.ParseSessionToken(h.cfg.SecretKey, c.Cookies(h.cfg.CookieName)); err == nil {
		if err := h.s.Logout(c.Context(), claims.UserID); err != nil {
			return respondError(c, err)
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:   h.cfg.CookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	return c.SendStatus(fiber.StatusOK)
}
