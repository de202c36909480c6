package models

import (
	"time"

	"github.com/google/uuid"
)

// Blog is a post together with its read and comment counters
type Blog struct {
	ID          uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Title       string     `json:"title" db:"title" gorm:"type:text;not null" validate:"required,min=1,max=200"`
	Summary     string     `json:"summary,omitempty" db:"summary" gorm:"type:text" validate:"max=1000"`
	Content     string     `json:"content" db:"content" gorm:"type:text;not null" validate:"required"`
	CreateTime  time.Time  `json:"createTime" db:"create_time" gorm:"type:timestamptz;not null;index"`
	UpdateTime  time.Time  `json:"updateTime" db:"update_time" gorm:"type:timestamptz;autoUpdateTime"`
	ReadSize    int64      `json:"readSize" db:"read_size" gorm:"type:bigint;not null;default:0"`
	CommentSize int64      `json:"commentSize" db:"comment_size" gorm:"type:bigint;not null;default:0"`
	CategoryID  *uuid.UUID `json:"categoryId,omitempty" db:"category_id" gorm:"type:uuid;index"`
	ArchiveID   *uuid.UUID `json:"archiveId,omitempty" db:"archive_id" gorm:"type:uuid;index"`

	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;references:ID" validate:"-"`
	Archive  *Archive  `json:"archive,omitempty" gorm:"foreignKey:ArchiveID;references:ID" validate:"-"`
	Tags     []Tag     `json:"tags,omitempty" gorm:"many2many:blog_tags;joinForeignKey:BlogID;joinReferences:TagID" validate:"-"`
}

// Validate checks the user supplied fields of the blog
func (b *Blog) Validate() error {
	return validateStruct(b)
}

// TagIDs returns the identifiers of the attached tags
func (b *Blog) TagIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(b.Tags))
	for _, tag := range b.Tags {
		ids = append(ids, tag.ID)
	}
	return ids
}

// SetArchive attaches the archive and keeps ArchiveID in sync
func (b *Blog) SetArchive(archive *Archive) {
	b.Archive = archive
	if archive == nil {
		b.ArchiveID = nil
		return
	}
	id := archive.ID
	b.ArchiveID = &id
}
