package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/tirtheshjaintj/StoryMania-Backend/internal/middlewares"
	"github.com/tirtheshjaintj/StoryMania-Backend/internal/models"
	"github.com/tirtheshjaintj/StoryMania-Backend/internal/services"
	"github.com/tirtheshjaintj/StoryMania-Backend/internal/utils"
)

type UserHandler struct {
	svc     services.AuthService
	stories services.StoryService
	log     *zap.SugaredLogger
}

func NewUserHandler(svc services.AuthService, stories services.StoryService, log *zap.SugaredLogger) *UserHandler {
	return &UserHandler{svc: svc, stories: stories, log: log}
}

func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	user, err := h.svc.GetUser(c.Context(), middlewares.UserID(c))
	if err != nil {
		return failWith(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": true, "user": user.Public()})
}

func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	var req models.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	user, err := h.svc.UpdateUser(c.Context(), middlewares.UserID(c), req)
	if err != nil {
		return failWith(c, err)
	}
	return ok(c, fiber.StatusOK, "User details updated successfully!", fiber.Map{"user": user.Public()})
}

func (h *UserHandler) SearchUsers(c *fiber.Ctx) error {
	query := c.Query("query")
	if query == "" {
		return fail(c, fiber.StatusBadRequest, "Search query is required")
	}
	users, err := h.svc.SearchUsers(c.Context(), query)
	if err != nil {
		return failWith(c, err)
	}
	if len(users) == 0 {
		return fail(c, fiber.StatusNotFound, "No users found")
	}
	return ok(c, fiber.StatusOK, "Users retrieved successfully", fiber.Map{"data": users})
}

// MyStories lists the stories the caller co-authors, media attached.
func (h *UserHandler) MyStories(c *fiber.Ctx) error {
	stories, err := h.stories.ListByAuthor(c.Context(), middlewares.UserID(c))
	if err != nil {
		return failWith(c, err)
	}
	if len(stories) == 0 {
		return fail(c, fiber.StatusNotFound, "No stories found")
	}
	return ok(c, fiber.StatusOK, "Stories received successfully", fiber.Map{"data": stories})
}
