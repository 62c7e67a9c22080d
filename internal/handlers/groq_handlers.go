package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/tirtheshjaintj/StoryMania-Backend/internal/groq"
	"github.com/tirtheshjaintj/StoryMania-Backend/internal/models"
	"github.com/tirtheshjaintj/StoryMania-Backend/internal/utils"
)

type GroqHandler struct {
	client *groq.Client
	log    *zap.SugaredLogger
}

func NewGroqHandler(client *groq.Client, log *zap.SugaredLogger) *GroqHandler {
	return &GroqHandler{client: client, log: log}
}

// Chat proxies the prompt to the completion API and returns the answer
// as plain text.
func (h *GroqHandler) Chat(c *fiber.Ctx) error {
	var req models.GroqRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	answer, err := h.client.Complete(c.Context(), req.Prompt)
	if err != nil {
		h.log.Errorw("groq completion failed", "error", err)
		return fail(c, fiber.StatusInternalServerError, "An internal server error occurred.")
	}
	return c.Status(fiber.StatusOK).SendString(answer)
}
