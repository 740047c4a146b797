package model

import "time"

type Contact struct {
	ContactID    string                 `bson:"contact_id" json:"contact_id"`
	OwnerID      string                 `bson:"owner_id" json:"owner_id"`
	FirstName    string                 `bson:"first_name" json:"first_name" validate:"required"`
	LastName     string                 `bson:"last_name" json:"last_name"`
	Email        string                 `bson:"email,omitempty" json:"email,omitempty"`
	Phone        string                 `bson:"phone" json:"phone" validate:"required"`
	Tags         []string               `bson:"tags,omitempty" json:"tags,omitempty"`
	CustomFields map[string]interface{} `bson:"custom_fields,omitempty" json:"custom_fields,omitempty"`
	IsActive     bool                   `bson:"is_active" json:"is_active"`
	CreatedAt    time.Time              `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time              `bson:"updated_at" json:"updated_at"`
}
