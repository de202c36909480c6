package database

import (
	"context"
	"errors"

	"github.com/rpupo63/blog-service/errs"
	"github.com/rpupo63/blog-service/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ArchiveRepo struct {
	db *gorm.DB
}

func NewArchiveRepo(db *gorm.DB) *ArchiveRepo {
	return &ArchiveRepo{db}
}

// FindAll returns every archive, newest label first
func (r *ArchiveRepo) FindAll(ctx context.Context) ([]*models.Archive, error) {
	var archives []*models.Archive
	if err := conn(ctx, r.db).Order("name DESC").Find(&archives).Error; err != nil {
		return nil, errs.NewDatabaseError("find", "archives", err)
	}
	return archives, nil
}

// FindByName returns the archive with exactly this label
func (r *ArchiveRepo) FindByName(ctx context.Context, name string) (*models.Archive, error) {
	var archive models.Archive
	err := conn(ctx, r.db).Where("name = ?", name).First(&archive).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("archive")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "archive", err)
	}
	return &archive, nil
}

// CreateIfAbsent inserts archive unless its name is taken, and returns the stored
// row either way. The unique index on name makes concurrent callers converge.
func (r *ArchiveRepo) CreateIfAbsent(ctx context.Context, archive *models.Archive) (*models.Archive, error) {
	res := conn(ctx, r.db).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(archive)
	if res.Error != nil {
		return nil, errs.NewDatabaseError("create", "archive", res.Error)
	}
	if res.RowsAffected == 1 {
		return archive, nil
	}
	return r.FindByName(ctx, archive.Name)
}
