package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/tirtheshjaintj/StoryMania-Backend/internal/models"
	"github.com/tirtheshjaintj/StoryMania-Backend/internal/services"
	"github.com/tirtheshjaintj/StoryMania-Backend/internal/utils"
)

type CharacterHandler struct {
	svc services.CharacterService
	log *zap.SugaredLogger
}

func NewCharacterHandler(svc services.CharacterService, log *zap.SugaredLogger) *CharacterHandler {
	return &CharacterHandler{svc: svc, log: log}
}

func (h *CharacterHandler) GetCharacter(c *fiber.Ctx) error {
	character, err := h.svc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return failWith(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(character)
}

// CreateCharacter accepts either JSON or a multipart form with an
// optional "image" file.
func (h *CharacterHandler) CreateCharacter(c *fiber.Ctx) error {
	req := models.CreateCharacterRequest{
		Name:        c.FormValue("name"),
		StoryID:     c.FormValue("storyId"),
		Image:       c.FormValue("image"),
		Description: c.FormValue("description"),
	}
	if req.Name == "" && req.StoryID == "" {
		if err := c.BodyParser(&req); err != nil {
			return fail(c, fiber.StatusBadRequest, "invalid body")
		}
	}
	if err := utils.ValidateStruct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	image, err := singleFormImage(c, "image")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "could not read uploaded image")
	}
	character, err := h.svc.Create(c.Context(), req, image)
	if err != nil {
		return failWith(c, err)
	}
	return ok(c, fiber.StatusCreated, "Character created successfully", fiber.Map{"character": character})
}

func (h *CharacterHandler) UpdateCharacter(c *fiber.Ctx) error {
	req := models.UpdateCharacterRequest{
		Name:        c.FormValue("name"),
		Image:       c.FormValue("image"),
		Description: c.FormValue("description"),
	}
	if req.Name == "" && req.Image == "" && req.Description == "" {
		_ = c.BodyParser(&req)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	image, err := singleFormImage(c, "image")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "could not read uploaded image")
	}
	character, err := h.svc.Update(c.Context(), c.Params("id"), req, image)
	if err != nil {
		return failWith(c, err)
	}
	return ok(c, fiber.StatusOK, "Character updated successfully", fiber.Map{"character": character})
}

func (h *CharacterHandler) DeleteCharacter(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.Context(), c.Params("id")); err != nil {
		return failWith(c, err)
	}
	return ok(c, fiber.StatusOK, "Character deleted successfully", nil)
}

func singleFormImage(c *fiber.Ctx, field string) (*services.UploadImage, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		// no file attached
		return nil, nil
	}
	img, err := readImage(fh)
	if err != nil {
		return nil, err
	}
	return &img, nil
}
