package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/blog-service/errs"
	"github.com/rpupo63/blog-service/models"
	"gorm.io/gorm"
)

type CommentRepo struct {
	db *gorm.DB
}

func NewCommentRepo(db *gorm.DB) *CommentRepo {
	return &CommentRepo{db}
}

// Create inserts a new comment
func (r *CommentRepo) Create(ctx context.Context, comment *models.Comment) error {
	comment.PrepareCreate()
	if err := conn(ctx, r.db).Create(comment).Error; err != nil {
		return errs.NewDatabaseError("create", "comment", err)
	}
	return nil
}

// ListByBlog returns the comments of a blog, oldest first
func (r *CommentRepo) ListByBlog(ctx context.Context, blogID uuid.UUID) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := conn(ctx, r.db).
		Where("blog_id = ?", blogID).
		Order("create_time ASC").
		Find(&comments).Error
	if err != nil {
		return nil, errs.NewDatabaseError("find", "comments", err)
	}
	return comments, nil
}
