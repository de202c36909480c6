package models

import "github.com/google/uuid"

// Category is the single topic a blog is filed under
type Category struct {
	ID   uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name string    `json:"name" db:"name" gorm:"type:text;not null;unique"`
}
