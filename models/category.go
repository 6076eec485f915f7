package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category shares the product record shape; most fields stay empty in
// practice, only title and image are filled by the admin console.
type Category struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title          string             `bson:"title" json:"title" validate:"required"`
	Image          string             `bson:"image,omitempty" json:"image,omitempty"`
	Price          string             `bson:"price,omitempty" json:"price,omitempty"`
	Rating         int                `bson:"rating,omitempty" json:"rating,omitempty"`
	Reviews        int                `bson:"reviews,omitempty" json:"reviews,omitempty"`
	Slug           string             `bson:"slug,omitempty" json:"slug,omitempty"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	Specifications []string           `bson:"specifications,omitempty" json:"specifications,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt      time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}
