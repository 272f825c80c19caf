package handlers

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/vizora/internal/models"
	"github.com/maheshrc27/vizora/internal/service"
	"github.com/maheshrc27/vizora/internal/workflow"
)

func GetUserID(c *fiber.Ctx) string {
	userID, _ := c.Locals("user_id").(string)
	return userID
}

var (
	unauthorizedErrors = []error{
		service.ErrNotLoggedIn,
		service.ErrInvalidCredentials,
	}
	notFoundErrors = []error{
		workflow.ErrNotFound,
		workflow.ErrMediaNotFound,
		service.ErrPostNotFound,
		service.ErrPlatformNotFound,
	}
	unprocessableErrors = []error{
		workflow.ErrNoPlatforms,
		workflow.ErrEmptyContent,
		workflow.ErrContentTooLong,
		workflow.ErrPlatformNotConnected,
		workflow.ErrTooManyMedia,
		workflow.ErrFinalStage,
		workflow.ErrFirstStage,
		workflow.ErrNotAtReview,
		service.ErrInvalidTransition,
		service.ErrNotPublished,
	}
	badRequestErrors = []error{
		models.ErrUnknownPlatform,
		models.ErrUnknownTone,
		service.ErrUnsupportedPlatform,
		service.ErrNoPlatformsToPublish,
		service.ErrUnsupportedMedia,
		service.ErrMediaTooLarge,
		service.ErrEmptyMedia,
		service.ErrInvalidStatus,
		service.ErrInvalidTimezone,
		service.ErrInvalidMonth,
		service.ErrEmptyPrompt,
		service.ErrEmptyChat,
		service.ErrEmptyImageRef,
	}
)

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// errorStatus maps service errors onto HTTP status codes.
func errorStatus(err error) int {
	switch {
	case isAny(err, unauthorizedErrors):
		return fiber.StatusUnauthorized
	case isAny(err, notFoundErrors):
		return fiber.StatusNotFound
	case errors.Is(err, workflow.ErrClosed):
		return fiber.StatusGone
	case isAny(err, unprocessableErrors):
		return fiber.StatusUnprocessableEntity
	case isAny(err, badRequestErrors):
		return fiber.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusRequestTimeout
	}
	return fiber.StatusInternalServerError
}

func respondError(c *fiber.Ctx, err error) error {
	status := errorStatus(err)
	if status == fiber.StatusInternalServerError {
		slog.Error(err.Error(), "path", c.Path())
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func badJSON(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Unable to parse json",
	})
}
