package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/tirtheshjaintj/StoryMania-Backend/internal/cache"
	"github.com/tirtheshjaintj/StoryMania-Backend/internal/events"
	"github.com/tirtheshjaintj/StoryMania-Backend/internal/models"
	"github.com/tirtheshjaintj/StoryMania-Backend/internal/repository"
	"github.com/tirtheshjaintj/StoryMania-Backend/internal/storage"
)

const (
	storyListCacheKey = "stories:all"
	unknownAuthor     = "Unknown Author"
)

type storyService struct {
	stories  repository.StoryRepository
	media    repository.MediaRepository
	users    repository.UserRepository
	uploader storage.Uploader
	cache    *cache.Client
	events   events.Publisher
	log      *zap.SugaredLogger
}

func NewStoryService(
	stories repository.StoryRepository,
	media repository.MediaRepository,
	users repository.UserRepository,
	uploader storage.Uploader,
	cacheClient *cache.Client,
	publisher events.Publisher,
	log *zap.SugaredLogger,
) StoryService {
	return &storyService{
		stories:  stories,
		media:    media,
		users:    users,
		uploader: uploader,
		cache:    cacheClient,
		events:   publisher,
		log:      log,
	}
}

func (s *storyService) Create(ctx context.Context, authorID string, req models.CreateStoryRequest, images []UploadImage) (*models.Story, error) {
	oid, err := primitive.ObjectIDFromHex(authorID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	story := &models.Story{
		Title:   req.Title,
		Plot:    req.Plot,
		Authors: []primitive.ObjectID{oid},
		Tags:    req.Tags,
		Genre:   req.Genre,
	}
	if err := s.stories.Create(ctx, story); err != nil {
		return nil, s.internal("create story", err)
	}

	if err := s.attachImages(ctx, story.ID, images); err != nil {
		return nil, err
	}

	s.invalidateList(ctx)
	s.publish(ctx, events.StoryCreated, map[string]string{"story_id": story.ID.Hex(), "title": story.Title})
	return story, nil
}

func (s *storyService) Get(ctx context.Context, id string) (*models.StoryDetails, error) {
	story, err := s.stories.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, s.internal("get story", err)
	}
	details, err := s.enrich(ctx, []models.Story{*story})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (s *storyService) List(ctx context.Context) ([]models.StoryDetails, error) {
	var cached []models.StoryDetails
	if hit, err := s.cache.Get(ctx, storyListCacheKey, &cached); err != nil {
		s.log.Warnw("story list cache read failed", "error", err)
	} else if hit {
		return cached, nil
	}

	stories, err := s.stories.FindAll(ctx)
	if err != nil {
		return nil, s.internal("list stories", err)
	}
	details, err := s.enrich(ctx, stories)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, storyListCacheKey, details); err != nil {
		s.log.Warnw("story list cache write failed", "error", err)
	}
	return details, nil
}

func (s *storyService) ListByAuthor(ctx context.Context, authorID string) ([]models.StoryDetails, error) {
	oid, err := primitive.ObjectIDFromHex(authorID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	stories, err := s.stories.FindByAuthor(ctx, oid)
	if err != nil {
		return nil, s.internal("list stories by author", err)
	}
	return s.enrich(ctx, stories)
}

func (s *storyService) Update(ctx context.Context, id string, req models.UpdateStoryRequest, images []UploadImage) (*models.Story, error) {
	set := map[string]interface{}{}
	if req.Title != "" {
		set["title"] = req.Title
	}
	if req.Plot != "" {
		set["plot"] = req.Plot
	}
	if req.Tags != nil {
		set["tags"] = req.Tags
	}
	if req.Genre != "" {
		set["genre"] = req.Genre
	}
	story, err := s.stories.Update(ctx, id, set)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, s.internal("update story", err)
	}

	if err := s.attachImages(ctx, story.ID, images); err != nil {
		return nil, err
	}
	s.invalidateList(ctx)
	return story, nil
}

func (s *storyService) AddAuthor(ctx context.Context, id, authorID string) (*models.Story, error) {
	if _, err := s.users.FindByID(ctx, authorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, s.internal("add author: lookup", err)
	}
	oid, _ := primitive.ObjectIDFromHex(authorID)
	story, err := s.stories.AddAuthor(ctx, id, oid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, s.internal("add author", err)
	}
	s.invalidateList(ctx)
	return story, nil
}

func (s *storyService) Delete(ctx context.Context, id string) error {
	story, err := s.stories.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return s.internal("delete story: lookup", err)
	}
	if err := s.stories.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return s.internal("delete story", err)
	}
	if err := s.media.DeleteByStoryID(ctx, story.ID); err != nil {
		s.log.Warnw("delete story: media cleanup failed", "story_id", id, "error", err)
	}
	s.invalidateList(ctx)
	s.publish(ctx, events.StoryDeleted, map[string]string{"story_id": id})
	return nil
}

func (s *storyService) RemoveImage(ctx context.Context, storyID primitive.ObjectID, url string) error {
	err := s.media.RemoveImage(ctx, storyID, url)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return s.internal("remove image", err)
	}
	s.invalidateList(ctx)
	return nil
}

// enrich attaches media URLs and resolves author ids to names for a
// batch of stories with one media query and one user query.
func (s *storyService) enrich(ctx context.Context, stories []models.Story) ([]models.StoryDetails, error) {
	storyIDs := make([]primitive.ObjectID, 0, len(stories))
	authorSet := map[primitive.ObjectID]struct{}{}
	for i := range stories {
		storyIDs = append(storyIDs, stories[i].ID)
		for _, a := range stories[i].Authors {
			authorSet[a] = struct{}{}
		}
	}

	mediaByStory := map[primitive.ObjectID][]string{}
	if len(storyIDs) > 0 {
		docs, err := s.media.FindByStoryIDs(ctx, storyIDs)
		if err != nil {
			return nil, s.internal("enrich: media lookup", err)
		}
		for i := range docs {
			mediaByStory[docs[i].StoryID] = docs[i].Images
		}
	}

	nameByAuthor := map[primitive.ObjectID]string{}
	if len(authorSet) > 0 {
		ids := make([]primitive.ObjectID, 0, len(authorSet))
		for id := range authorSet {
			ids = append(ids, id)
		}
		authors, err := s.users.FindByIDs(ctx, ids)
		if err != nil {
			return nil, s.internal("enrich: author lookup", err)
		}
		for i := range authors {
			nameByAuthor[authors[i].ID] = authors[i].Name
		}
	}

	out := make([]models.StoryDetails, 0, len(stories))
	for i := range stories {
		names := make([]string, 0, len(stories[i].Authors))
		for _, a := range stories[i].Authors {
			if name, ok := nameByAuthor[a]; ok {
				names = append(names, name)
			} else {
				names = append(names, unknownAuthor)
			}
		}
		media := mediaByStory[stories[i].ID]
		if media == nil {
			media = []string{}
		}
		out = append(out, models.StoryDetails{
			Story:   stories[i],
			Authors: names,
			Media:   media,
		})
	}
	return out, nil
}

func (s *storyService) attachImages(ctx context.Context, storyID primitive.ObjectID, images []UploadImage) error {
	if len(images) == 0 {
		return nil
	}
	urls := make([]string, 0, len(images))
	for _, img := range images {
		u, err := s.uploader.Upload(ctx, img.ContentType, img.Data)
		if err != nil {
			return s.internal("upload image", err)
		}
		urls = append(urls, u)
	}
	if err := s.media.AppendImages(ctx, storyID, urls); err != nil {
		return s.internal("attach images", err)
	}
	return nil
}

func (s *storyService) invalidateList(ctx context.Context) {
	if err := s.cache.Delete(ctx, storyListCacheKey); err != nil {
		s.log.Warnw("story list cache invalidation failed", "error", err)
	}
}

func (s *storyService) internal(op string, err error) error {
	s.log.Errorw(op, "error", err)
	return ErrInternal
}

func (s *storyService) publish(ctx context.Context, eventType string, payload any) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, eventType, payload); err != nil {
		s.log.Warnw("event publish failed", "type", eventType, "error", err)
	}
}
