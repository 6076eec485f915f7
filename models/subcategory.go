package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubCategory belongs to a Category by title match, not by id. See
// catalog.SoftRef.
type SubCategory struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title          string             `bson:"title" json:"title" validate:"required"`
	Slug           string             `bson:"slug" json:"slug"`
	Category       string             `bson:"category" json:"category" validate:"required"`
	Image          string             `bson:"image,omitempty" json:"image,omitempty"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	Specifications []string           `bson:"specifications,omitempty" json:"specifications,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt      time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}
