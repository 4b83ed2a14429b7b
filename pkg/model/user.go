package model

import (
	"time"
)

type Role string

const (
	RoleAdmin       Role = "admin"
	RoleParticipant Role = "participant"
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleParticipant
}

type User struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty"`
	Name         string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Email        string    `json:"email" bson:"email" validate:"required,email"`
	PasswordHash string    `json:"-" bson:"password"`
	Role         Role      `json:"role" bson:"role" validate:"required,oneof=admin participant"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updated_at"`
}

// UserSummary is the slice of a user attached to the administrator's reservation listing.
type UserSummary struct {
	ID    string `json:"id" bson:"_id,omitempty"`
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
}
