package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/tirtheshjaintj/StoryMania-Backend/internal/models"
	"github.com/tirtheshjaintj/StoryMania-Backend/internal/repository"
	"github.com/tirtheshjaintj/StoryMania-Backend/internal/storage"
)

type characterService struct {
	characters repository.CharacterRepository
	stories    repository.StoryRepository
	uploader   storage.Uploader
	log        *zap.SugaredLogger
}

func NewCharacterService(
	characters repository.CharacterRepository,
	stories repository.StoryRepository,
	uploader storage.Uploader,
	log *zap.SugaredLogger,
) CharacterService {
	return &characterService{
		characters: characters,
		stories:    stories,
		uploader:   uploader,
		log:        log,
	}
}

func (s *characterService) Create(ctx context.Context, req models.CreateCharacterRequest, image *UploadImage) (*models.Character, error) {
	if _, err := s.stories.FindByID(ctx, req.StoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, s.internal("create character: story lookup", err)
	}
	storyID, _ := primitive.ObjectIDFromHex(req.StoryID)

	c := &models.Character{
		Name:        req.Name,
		StoryID:     storyID,
		Image:       req.Image,
		Description: req.Description,
	}
	if image != nil {
		url, err := s.uploader.Upload(ctx, image.ContentType, image.Data)
		if err != nil {
			return nil, s.internal("create character: upload image", err)
		}
		c.Image = url
	}
	if err := s.characters.Create(ctx, c); err != nil {
		return nil, s.internal("create character", err)
	}
	return c, nil
}

func (s *characterService) Get(ctx context.Context, id string) (*models.Character, error) {
	c, err := s.characters.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, s.internal("get character", err)
	}
	return c, nil
}

func (s *characterService) Update(ctx context.Context, id string, req models.UpdateCharacterRequest, image *UploadImage) (*models.Character, error) {
	set := map[string]interface{}{}
	if req.Name != "" {
		set["name"] = req.Name
	}
	if req.Image != "" {
		set["image"] = req.Image
	}
	if req.Description != "" {
		set["description"] = req.Description
	}
	if image != nil {
		url, err := s.uploader.Upload(ctx, image.ContentType, image.Data)
		if err != nil {
			return nil, s.internal("update character: upload image", err)
		}
		set["image"] = url
	}
	c, err := s.characters.Update(ctx, id, set)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, s.internal("update character", err)
	}
	return c, nil
}

func (s *characterService) Delete(ctx context.Context, id string) error {
	err := s.characters.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return s.internal("delete character", err)
	}
	return nil
}

func (s *characterService) internal(op string, err error) error {
	s.log.Errorw(op, "error", err)
	return ErrInternal
}
