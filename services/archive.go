package services

import (
	"context"
	"time"

	"github.com/rpupo63/blog-service/errs"
	"github.com/rpupo63/blog-service/models"
)

// ArchiveResolver maps a creation time to its month archive, creating the archive on first use
type ArchiveResolver struct {
	archives ArchiveStore
	calendar models.ArchiveCalendar
}

func NewArchiveResolver(archives ArchiveStore, calendar models.ArchiveCalendar) *ArchiveResolver {
	return &ArchiveResolver{archives: archives, calendar: calendar}
}

// Resolve returns the archive labelled with the year and month of t in the calendar's location
func (r *ArchiveResolver) Resolve(ctx context.Context, t time.Time) (*models.Archive, error) {
	name := r.calendar.Name(t)

	archive, err := r.archives.FindByName(ctx, name)
	if err == nil {
		return archive, nil
	}
	if !errs.IsNotFound(err) {
		return nil, err
	}
	return r.archives.CreateIfAbsent(ctx, models.NewArchive(name))
}
