package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Media holds the uploaded image URLs for a story. There is at most
// one media document per story.
type Media struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StoryID   primitive.ObjectID `bson:"story_id" json:"story_id"`
	Images    []string           `bson:"images" json:"images"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
