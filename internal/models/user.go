package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account on the platform. An account starts
// unverified after a password signup and becomes verified either by
// submitting the emailed OTP or by logging in through Google.
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email" json:"email"`
	PhoneNumber string             `bson:"phone_number" json:"phone_number"`
	Address     string             `bson:"address" json:"address"`
	Password    string             `bson:"password" json:"-"` // bcrypt hash
	GoogleID    string             `bson:"google_id,omitempty" json:"-"`
	OTP         string             `bson:"otp,omitempty" json:"-"` // present only while verification is pending
	Verified    bool               `bson:"verified" json:"verified"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// PublicUser is the shape returned by profile and search endpoints.
type PublicUser struct {
	ID          primitive.ObjectID `json:"id"`
	Name        string             `json:"name"`
	Email       string             `json:"email"`
	PhoneNumber string             `json:"phone_number"`
	Address     string             `json:"address"`
	CreatedAt   time.Time          `json:"created_at"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Address:     u.Address,
		CreatedAt:   u.CreatedAt,
	}
}
