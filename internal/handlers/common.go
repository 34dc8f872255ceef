package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shelfmark/shelfmark/internal/services"
	"github.com/shelfmark/shelfmark/internal/types"
	"github.com/shelfmark/shelfmark/internal/utils"
)

// getUserID extracts the owner identity set by the identity middleware.
func getUserID(c *fiber.Ctx) (string, error) {
	userID, ok := c.Locals("userID").(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user not found in context")
	}
	return userID, nil
}

// parseCollectionID parses the :id path parameter.
func parseCollectionID(c *fiber.Ctx) (uint64, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("collection id must be a positive integer")
	}
	return id, nil
}

// serviceErrorResponse maps service failure kinds to HTTP responses. Anything
// outside the taxonomy is a store-level transaction failure and reports 500.
func serviceErrorResponse(c *fiber.Ctx, err error, op string) error {
	switch {
	case errors.Is(err, services.ErrValidation):
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "validation")
	case errors.Is(err, services.ErrNotFound):
		return utils.NotFoundResponse(c, err.Error())
	case errors.Is(err, services.ErrCapacityExceeded):
		return utils.ConflictResponse(c, err.Error(), "capacity")
	case errors.Is(err, services.ErrNameExhausted):
		return utils.ConflictResponse(c, err.Error(), "naming")
	case errors.Is(err, services.ErrConflict):
		return utils.ConflictResponse(c, err.Error(), "conflict")
	}
	return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, op)
}

// ErrorHandler is the app-wide fiber error handler. It renders middleware
// CustomError values and fiber errors as the standard error JSON.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	var customErr *types.CustomError
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &customErr):
		code = customErr.Code
		message = customErr.Message
		errorType = customErr.Type
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}
