package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rpupo63/blog-service/errs"
	"github.com/rpupo63/blog-service/models"
	"gorm.io/gorm"
)

type CategoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) *CategoryRepo {
	return &CategoryRepo{db}
}

// FindAll returns all categories ordered by name
func (r *CategoryRepo) FindAll(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	if err := conn(ctx, r.db).Order("name").Find(&categories).Error; err != nil {
		return nil, errs.NewDatabaseError("find", "categories", err)
	}
	return categories, nil
}

func (r *CategoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := conn(ctx, r.db).Where("id = ?", id).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFound("category")
		}
		return nil, errs.NewDatabaseError("find", "category", err)
	}
	return &category, nil
}
