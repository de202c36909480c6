package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment references its blog by identifier only
type Comment struct {
	ID         uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	BlogID     uuid.UUID `json:"blogId" db:"blog_id" gorm:"type:uuid;not null;index:idx_comment_blog_id"`
	Author     string    `json:"author,omitempty" db:"author" gorm:"type:text" validate:"max=50"`
	Content    string    `json:"content" db:"content" gorm:"type:text;not null" validate:"required,min=1,max=1000"`
	CreateTime time.Time `json:"createTime" db:"create_time" gorm:"type:timestamptz;not null"`
}

// Validate checks the user supplied fields of the comment
func (c *Comment) Validate() error {
	return validateStruct(c)
}

// PrepareCreate fills the identifier and creation time when missing
func (c *Comment) PrepareCreate() {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreateTime.IsZero() {
		c.CreateTime = time.Now()
	}
}
