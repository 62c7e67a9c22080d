package models

// Request bodies for the identity endpoints. Validation tags mirror
// the checks the API has always enforced at the boundary.

type SignupRequest struct {
	Name        string `json:"name" validate:"required,min=3,alphaspace"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number" validate:"required,len=10,numeric"`
	Address     string `json:"address" validate:"required,min=10"`
	Password    string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type GoogleLoginRequest struct {
	Name     string `json:"name" validate:"required,min=3,alphaspace"`
	Email    string `json:"email" validate:"required,email"`
	GoogleID string `json:"google_id" validate:"required,len=21,numeric"`
}

type VerifyOTPRequest struct {
	OTP string `json:"otp" validate:"required,len=6,numeric"`
}

type UpdateUserRequest struct {
	Name        string `json:"name" validate:"omitempty,min=3,alphaspace"`
	Email       string `json:"email" validate:"omitempty,email"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,len=10,numeric"`
	Address     string `json:"address" validate:"omitempty,min=10"`
}

type CreateStoryRequest struct {
	Title string   `json:"title" validate:"required,min=1,max=100"`
	Plot  string   `json:"plot" validate:"required"`
	Tags  []string `json:"tags" validate:"omitempty,dive,min=1"`
	Genre string   `json:"genre" validate:"required,genre"`
}

type UpdateStoryRequest struct {
	Title string   `json:"title" validate:"omitempty,min=1,max=100"`
	Plot  string   `json:"plot" validate:"omitempty"`
	Tags  []string `json:"tags" validate:"omitempty,dive,min=1"`
	Genre string   `json:"genre" validate:"omitempty,genre"`
}

type AddAuthorRequest struct {
	AuthorID string `json:"authorId" validate:"required,mongoid"`
}

type CreateCharacterRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=15,alphaspace"`
	StoryID     string `json:"storyId" validate:"required,mongoid"`
	Image       string `json:"image" validate:"omitempty,url"`
	Description string `json:"description" validate:"omitempty,min=10"`
}

type UpdateCharacterRequest struct {
	Name        string `json:"name" validate:"omitempty,min=1,max=15,alphaspace"`
	Image       string `json:"image" validate:"omitempty,url"`
	Description string `json:"description" validate:"omitempty,min=10"`
}

type RemoveImageRequest struct {
	ImageURL string `json:"imageUrl" validate:"required,url"`
}

type GroqRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}
