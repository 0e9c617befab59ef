package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile holds the optional self-declared reviewer-relevant details of a user.
type Profile struct {
	Expertise string `bson:"expertise,omitempty" json:"expertise,omitempty"`
	Bio       string `bson:"bio,omitempty" json:"bio,omitempty"`
}

// User represents a user in the system. The email uniquely identifies a user;
// records are created lazily on first sign-in or first submission.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email     string             `bson:"email" json:"email"`
	Name      string             `bson:"name,omitempty" json:"name,omitempty"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
	Profile   Profile            `bson:"profile,omitempty" json:"profile,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
