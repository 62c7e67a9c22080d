package handlers

import (
	"encoding/json"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/tirtheshjaintj/StoryMania-Backend/internal/middlewares"
	"github.com/tirtheshjaintj/StoryMania-Backend/internal/models"
	"github.com/tirtheshjaintj/StoryMania-Backend/internal/services"
	"github.com/tirtheshjaintj/StoryMania-Backend/internal/utils"
)

type StoryHandler struct {
	svc services.StoryService
	log *zap.SugaredLogger
}

func NewStoryHandler(svc services.StoryService, log *zap.SugaredLogger) *StoryHandler {
	return &StoryHandler{svc: svc, log: log}
}

func (h *StoryHandler) GetStory(c *fiber.Ctx) error {
	story, err := h.svc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return failWith(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(story)
}

func (h *StoryHandler) GetStories(c *fiber.Ctx) error {
	stories, err := h.svc.List(c.Context())
	if err != nil {
		return failWith(c, err)
	}
	if len(stories) == 0 {
		return fail(c, fiber.StatusNotFound, "No stories found")
	}
	return ok(c, fiber.StatusOK, "Stories received successfully", fiber.Map{"data": stories})
}

// CreateStory accepts a multipart form: text fields plus any number of
// image files under "images". Tags arrive as a JSON array string.
func (h *StoryHandler) CreateStory(c *fiber.Ctx) error {
	req := models.CreateStoryRequest{
		Title: c.FormValue("title"),
		Plot:  c.FormValue("plot"),
		Genre: c.FormValue("genre"),
		Tags:  parseTags(c.FormValue("tags")),
	}
	if err := utils.ValidateStruct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	images, err := formImages(c, "images")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "could not read uploaded images")
	}
	story, err := h.svc.Create(c.Context(), middlewares.UserID(c), req, images)
	if err != nil {
		return failWith(c, err)
	}
	return ok(c, fiber.StatusCreated, "Story created successfully", fiber.Map{"story": story})
}

func (h *StoryHandler) UpdateStory(c *fiber.Ctx) error {
	req := models.UpdateStoryRequest{
		Title: c.FormValue("title"),
		Plot:  c.FormValue("plot"),
		Genre: c.FormValue("genre"),
		Tags:  parseTags(c.FormValue("tags")),
	}
	if err := utils.ValidateStruct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	images, err := formImages(c, "images")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "could not read uploaded images")
	}
	story, err := h.svc.Update(c.Context(), c.Params("id"), req, images)
	if err != nil {
		return failWith(c, err)
	}
	return ok(c, fiber.StatusOK, "Story updated successfully", fiber.Map{"story": story})
}

func (h *StoryHandler) AddAuthor(c *fiber.Ctx) error {
	var req models.AddAuthorRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	story, err := h.svc.AddAuthor(c.Context(), c.Params("id"), req.AuthorID)
	if err != nil {
		return failWith(c, err)
	}
	return ok(c, fiber.StatusOK, "Author added successfully", fiber.Map{"story": story})
}

func (h *StoryHandler) DeleteStory(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.Context(), c.Params("id")); err != nil {
		return failWith(c, err)
	}
	return ok(c, fiber.StatusOK, "Story deleted successfully", nil)
}

func (h *StoryHandler) RemoveImage(c *fiber.Ctx) error {
	var req models.RemoveImageRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	storyID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid story ID")
	}
	if err := h.svc.RemoveImage(c.Context(), storyID, req.ImageURL); err != nil {
		return failWith(c, err)
	}
	return ok(c, fiber.StatusOK, "Image removed successfully", nil)
}

func parseTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		// a single bare tag is accepted as-is
		return []string{raw}
	}
	return tags
}

func formImages(c *fiber.Ctx, field string) ([]services.UploadImage, error) {
	form, err := c.MultipartForm()
	if err != nil {
		// not a multipart request; nothing to upload
		return nil, nil
	}
	files := form.File[field]
	out := make([]services.UploadImage, 0, len(files))
	for _, fh := range files {
		img, err := readImage(fh)
		if err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, nil
}

func readImage(fh *multipart.FileHeader) (services.UploadImage, error) {
	f, err := fh.Open()
	if err != nil {
		return services.UploadImage{}, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return services.UploadImage{}, err
	}
	return services.UploadImage{
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
