package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tirtheshjaintj/StoryMania-Backend/internal/services"
)

func ok(c *fiber.Ctx, status int, message string, extra fiber.Map) error {
	body := fiber.Map{"status": true, "message": message}
	for k, v := range extra {
		body[k] = v
	}
	return c.Status(status).JSON(body)
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"status": false, "message": message})
}

// failWith maps service sentinels onto the HTTP codes and messages the
// API has always produced. Anything unrecognized is an internal error;
// no store detail leaks.
func failWith(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrUserAlreadyExists):
		return fail(c, fiber.StatusBadRequest, "User already exists with this email or phone number.")
	case errors.Is(err, services.ErrInvalidOTP):
		return fail(c, fiber.StatusBadRequest, "Invalid OTP or user already verified.")
	case errors.Is(err, services.ErrInvalidCredentials):
		return fail(c, fiber.StatusBadRequest, "Invalid email or password.")
	case errors.Is(err, services.ErrGoogleIDMismatch):
		return fail(c, fiber.StatusBadRequest, "Invalid Google ID")
	case errors.Is(err, services.ErrUserNotFound):
		return fail(c, fiber.StatusBadRequest, "User not found or already verified.")
	case errors.Is(err, services.ErrNotFound):
		return fail(c, fiber.StatusNotFound, "Not found")
	case errors.Is(err, services.ErrMailDelivery):
		return fail(c, fiber.StatusInternalServerError, "Failed to send OTP.")
	default:
		return fail(c, fiber.StatusInternalServerError, "Internal Server Error")
	}
}
