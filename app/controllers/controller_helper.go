package controllers

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/creatorkart/CreatorKart/internal/pkg/proposal"
)

var validate = validator.New()

// parseIDParam reads a positive integer route parameter.
func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

// respondError maps workflow errors onto the HTTP taxonomy. Anything not in
// the known set surfaces as an internal error without leaking details.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case proposal.IsValidation(err):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	case errors.Is(err, proposal.ErrExpired):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "token_expired", "message": "The proposal link has expired"})
	case errors.Is(err, proposal.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": err.Error()})
	case errors.Is(err, proposal.ErrAlreadyUsed):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "already_used", "message": "The proposal link has already been used"})
	case errors.Is(err, proposal.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "conflict", "message": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Something went wrong"})
	}
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": message})
}
