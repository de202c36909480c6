package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultArchiveLayout renders a month label such as "2024年03月"
const DefaultArchiveLayout = "2006年01月"

// Archive groups blogs created in the same calendar month
type Archive struct {
	ID   uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name string    `json:"name" db:"name" gorm:"type:text;not null;uniqueIndex:idx_archive_name"`
}

// NewArchive builds an archive with a fresh identifier
func NewArchive(name string) *Archive {
	return &Archive{ID: uuid.New(), Name: name}
}

// ArchiveCalendar decides which month a moment is filed under. Every moment is
// read in Location, so the label never depends on the zone a timestamp was
// written in. The zero value uses DefaultArchiveLayout and UTC.
type ArchiveCalendar struct {
	Layout   string
	Location *time.Location
}

// Name returns the month label of t. The day and time of day are dropped.
func (c ArchiveCalendar) Name(t time.Time) string {
	layout, loc := c.Layout, c.Location
	if layout == "" {
		layout = DefaultArchiveLayout
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(layout)
}
