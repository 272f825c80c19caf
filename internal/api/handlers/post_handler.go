package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/vizora/internal/service"
	"github.com/maheshrc27/vizora/internal/transfer"
)

type PostHandler struct {
	s service.PostService
}

func NewPostHandler(service service.PostService) *PostHandler {
	return &PostHandler{s: service}
}

func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	userId := GetUserID(c)
	postId := c.Query("id")

	if postId != "" {
		post, err := h.s.PostInfo(c.Context(), postId, userId)
		if err != nil {
			return respondError(c, err)
		}

		return c.Status(fiber.StatusOK).JSON(post)
	}

	posts, err := h.s.List(c.Context(), userId)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list posts",
		})
	}

	return c.Status(fiber.StatusOK).JSON(posts)
}

func (h *PostHandler) UpdatePost(c *fiber.Ctx) error {
	var pu transfer.PostUpdate
	if err := c.BodyParser(&pu); err != nil {
		return badJSON(c)
	}

	post, err := h.s.Update(c.Context(), c.Query("id"), GetUserID(c), &pu)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

func (h *PostHandler) RemovePost(c *fiber.Ctx) error {
	userID := GetUserID(c)
	postId := c.Query("id")

	err := h.s.Remove(c.Context(), userID, postId)
	if err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusOK)
}

// ConfirmPost marks a dispatched post as actually posted by the user.
func (h *PostHandler) ConfirmPost(c *fiber.Ctx) error {
	post, err := h.s.ConfirmPublication(c.Context(), c.Query("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}
