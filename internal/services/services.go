package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tirtheshjaintj/StoryMania-Backend/internal/models"
)

var (
	// ErrUserAlreadyExists: a verified account already holds the email
	// or phone number.
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found or already verified")
	// ErrInvalidOTP deliberately covers wrong id, wrong code and
	// already-verified so callers cannot tell which check failed.
	ErrInvalidOTP = errors.New("invalid OTP or user already verified")
	// ErrInvalidCredentials covers both unknown email and wrong
	// password to prevent account enumeration.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrGoogleIDMismatch: the account is already bound to a different
	// Google identity.
	ErrGoogleIDMismatch = errors.New("invalid Google ID")
	// ErrMailDelivery: the account-side write already happened but the
	// notification could not be delivered; callers should retry
	// delivery, not the signup.
	ErrMailDelivery = errors.New("failed to send mail")
	ErrNotFound     = errors.New("not found")
	ErrInternal     = errors.New("internal server error")
)

// AuthService owns the account verification lifecycle: password
// signups, OTP issue/consume/rotate, logins and Google logins.
type AuthService interface {
	Signup(ctx context.Context, req models.SignupRequest) (*models.User, error)
	VerifyOTP(ctx context.Context, userID, otp string) (string, *models.User, error)
	ResendOTP(ctx context.Context, userID string) error
	Login(ctx context.Context, email, password string) (string, error)
	GoogleLogin(ctx context.Context, req models.GoogleLoginRequest) (string, error)

	GetUser(ctx context.Context, userID string) (*models.User, error)
	UpdateUser(ctx context.Context, userID string, req models.UpdateUserRequest) (*models.User, error)
	SearchUsers(ctx context.Context, query string) ([]models.PublicUser, error)
}

type StoryService interface {
	Create(ctx context.Context, authorID string, req models.CreateStoryRequest, images []UploadImage) (*models.Story, error)
	Get(ctx context.Context, id string) (*models.StoryDetails, error)
	List(ctx context.Context) ([]models.StoryDetails, error)
	ListByAuthor(ctx context.Context, authorID string) ([]models.StoryDetails, error)
	Update(ctx context.Context, id string, req models.UpdateStoryRequest, images []UploadImage) (*models.Story, error)
	AddAuthor(ctx context.Context, id, authorID string) (*models.Story, error)
	Delete(ctx context.Context, id string) error
	RemoveImage(ctx context.Context, storyID primitive.ObjectID, url string) error
}

type CharacterService interface {
	Create(ctx context.Context, req models.CreateCharacterRequest, image *UploadImage) (*models.Character, error)
	Get(ctx context.Context, id string) (*models.Character, error)
	Update(ctx context.Context, id string, req models.UpdateCharacterRequest, image *UploadImage) (*models.Character, error)
	Delete(ctx context.Context, id string) error
}

// UploadImage is a raw image read out of a multipart request.
type UploadImage struct {
	ContentType string
	Data        []byte
}
