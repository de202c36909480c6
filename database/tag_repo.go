package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/blog-service/errs"
	"github.com/rpupo63/blog-service/models"
	"gorm.io/gorm"
)

type TagRepo struct {
	db *gorm.DB
}

func NewTagRepo(db *gorm.DB) *TagRepo {
	return &TagRepo{db}
}

// FindAll returns all tags ordered by name
func (r *TagRepo) FindAll(ctx context.Context) ([]*models.Tag, error) {
	var tags []*models.Tag
	if err := conn(ctx, r.db).Order("name").Find(&tags).Error; err != nil {
		return nil, errs.NewDatabaseError("find", "tags", err)
	}
	return tags, nil
}

// FindByIDs returns the tags whose id is in ids, ordered by name
func (r *TagRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Tag, error) {
	tags := []*models.Tag{}
	if len(ids) == 0 {
		return tags, nil
	}
	if err := conn(ctx, r.db).Where("id IN ?", ids).Order("name").Find(&tags).Error; err != nil {
		return nil, errs.NewDatabaseError("find", "tags", err)
	}
	return tags, nil
}
