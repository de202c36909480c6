package models

import "github.com/google/uuid"

// Tag is a label that may be attached to many blogs
type Tag struct {
	ID   uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name string    `json:"name" db:"name" gorm:"type:text;not null;unique"`
}
