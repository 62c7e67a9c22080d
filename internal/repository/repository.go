package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tirtheshjaintj/StoryMania-Backend/internal/models"
)

var ErrNotFound = errors.New("document not found")

// SignupFields is the set of user fields (re)written by a signup. When
// an unverified account already exists for the email the fields are
// overwritten in place, so at most one pending row exists per email.
type SignupFields struct {
	Name         string
	Email        string
	PhoneNumber  string
	Address      string
	PasswordHash string
	OTP          string
}

type ProfileFields struct {
	Name        string
	Email       string
	PhoneNumber string
	Address     string
}

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindVerifiedByEmail(ctx context.Context, email string) (*models.User, error)
	FindVerifiedByPhone(ctx context.Context, phone string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	Search(ctx context.Context, query string) ([]models.User, error)

	// UpsertUnverified overwrites the unverified account for
	// fields.Email, or inserts one if none exists. A single
	// conditional upsert so concurrent signups for the same email
	// cannot create two pending rows.
	UpsertUnverified(ctx context.Context, fields SignupFields) (*models.User, error)

	// ConsumeOTP atomically flips (id, otp, verified=false) to
	// verified with the otp cleared. ErrNotFound on any mismatch,
	// including an already-verified account or a stale code.
	ConsumeOTP(ctx context.Context, id, otp string) (*models.User, error)

	// RotateOTP replaces the pending code on an unverified account,
	// invalidating the previous one.
	RotateOTP(ctx context.Context, id, otp string) (*models.User, error)

	// AttachGoogleID associates googleID with the account unless a
	// different google id is already bound, in which case ErrNotFound.
	// The matching account is force-verified and its otp cleared.
	AttachGoogleID(ctx context.Context, id, googleID string) (*models.User, error)

	UpdateProfile(ctx context.Context, id string, fields ProfileFields) (*models.User, error)
}

type StoryRepository interface {
	Create(ctx context.Context, s *models.Story) error
	FindByID(ctx context.Context, id string) (*models.Story, error)
	FindAll(ctx context.Context) ([]models.Story, error)
	FindByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]models.Story, error)
	Update(ctx context.Context, id string, set map[string]interface{}) (*models.Story, error)
	AddAuthor(ctx context.Context, id string, authorID primitive.ObjectID) (*models.Story, error)
	Delete(ctx context.Context, id string) error
}

type CharacterRepository interface {
	Create(ctx context.Context, c *models.Character) error
	FindByID(ctx context.Context, id string) (*models.Character, error)
	Update(ctx context.Context, id string, set map[string]interface{}) (*models.Character, error)
	Delete(ctx context.Context, id string) error
}

type MediaRepository interface {
	AppendImages(ctx context.Context, storyID primitive.ObjectID, urls []string) error
	FindByStoryID(ctx context.Context, storyID primitive.ObjectID) (*models.Media, error)
	FindByStoryIDs(ctx context.Context, storyIDs []primitive.ObjectID) ([]models.Media, error)
	RemoveImage(ctx context.Context, storyID primitive.ObjectID, url string) error
	DeleteByStoryID(ctx context.Context, storyID primitive.ObjectID) error
}
