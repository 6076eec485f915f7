package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title          string             `bson:"title" json:"title" validate:"required"`
	Image          string             `bson:"image,omitempty" json:"image,omitempty"`
	Price          string             `bson:"price,omitempty" json:"price,omitempty"`
	OriginalPrice  string             `bson:"originalPrice,omitempty" json:"originalPrice,omitempty"`
	Rating         int                `bson:"rating" json:"rating"`
	Reviews        int                `bson:"reviews" json:"reviews"`
	Category       string             `bson:"category" json:"category" validate:"required"`
	Slug           string             `bson:"slug" json:"slug"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	Specifications []string           `bson:"specifications,omitempty" json:"specifications,omitempty"`
	IsBestSelling  bool               `bson:"isBestSelling" json:"isBestSelling"`
	IsFeatured     bool               `bson:"isFeatured" json:"isFeatured"`
	CreatedAt      time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt      time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}
