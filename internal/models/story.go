package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Genres supported by the platform; the create/update validators and
// the /api/genres endpoint share this list.
var Genres = []string{"Adventure", "Romance", "Sci-Fi", "Fantasy", "Mystery"}

type Story struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title     string               `bson:"title" json:"title"`
	Plot      string               `bson:"plot" json:"plot"`
	Authors   []primitive.ObjectID `bson:"authors" json:"authors"`
	Tags      []string             `bson:"tags" json:"tags"`
	Genre     string               `bson:"genre" json:"genre"`
	Status    bool                 `bson:"status" json:"status"` // false = draft
	CreatedAt time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time            `bson:"updated_at" json:"updated_at"`
}

// StoryDetails is a story with its media URLs attached and author ids
// replaced by display names, matching what the frontend renders.
type StoryDetails struct {
	Story
	Authors []string `json:"authors"`
	Media   []string `json:"media"`
}
