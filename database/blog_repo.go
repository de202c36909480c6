package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rpupo63/blog-service/errs"
	"github.com/rpupo63/blog-service/models"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BlogRepo struct {
	db *gorm.DB
}

func NewBlogRepo(db *gorm.DB) *BlogRepo {
	return &BlogRepo{db}
}

// List returns one page of blogs matching filter, with category, archive and tags loaded
func (r *BlogRepo) List(ctx context.Context, filter models.BlogFilter, page models.PageRequest) (models.Page[models.Blog], error) {
	page = page.Normalize()

	var total int64
	var blogs []models.Blog
	count := func(db *gorm.DB) error {
		return db.Model(&models.Blog{}).Scopes(blogFilterScope(filter, false)).Count(&total).Error
	}
	find := func(db *gorm.DB) error {
		return db.Scopes(blogFilterScope(filter, true), pageScope(page)).Preload("Tags").Find(&blogs).Error
	}

	// A transaction owns a single connection, so only run both queries in parallel outside one
	if tx, ok := txFromContext(ctx); ok {
		if err := count(tx); err != nil {
			return models.Page[models.Blog]{}, errs.NewDatabaseError("count", "blogs", err)
		}
		if err := find(tx); err != nil {
			return models.Page[models.Blog]{}, errs.NewDatabaseError("find", "blogs", err)
		}
		return models.NewPage(blogs, total, page), nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return count(r.db.WithContext(gctx)) })
	g.Go(func() error { return find(r.db.WithContext(gctx)) })
	if err := g.Wait(); err != nil {
		return models.Page[models.Blog]{}, errs.NewDatabaseError("list", "blogs", err)
	}
	return models.NewPage(blogs, total, page), nil
}

// FindByID returns a blog by its ID with category, archive and tags loaded
func (r *BlogRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Blog, error) {
	var blog models.Blog
	err := conn(ctx, r.db).
		Joins("Category").
		Joins("Archive").
		Preload("Tags").
		First(&blog, "blogs.id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("blog")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "blog", err)
	}
	return &blog, nil
}

// Save inserts the blog when it has no ID and otherwise rewrites every editable
// column. Counters are never written here; an unknown ID is inserted.
func (r *BlogRepo) Save(ctx context.Context, blog *models.Blog) error {
	db := conn(ctx, r.db)

	if blog.ID != uuid.Nil {
		res := db.Model(&models.Blog{ID: blog.ID}).
			Select("Title", "Summary", "Content", "CreateTime", "UpdateTime", "CategoryID", "ArchiveID").
			Updates(blog)
		if res.Error != nil {
			return errs.NewDatabaseError("update", "blog", res.Error)
		}
		if res.RowsAffected > 0 {
			return r.replaceTags(db, blog)
		}
	} else {
		blog.ID = uuid.New()
	}

	blog.ReadSize, blog.CommentSize = 0, 0
	if err := db.Omit(clause.Associations).Create(blog).Error; err != nil {
		return errs.NewDatabaseError("create", "blog", err)
	}
	return r.replaceTags(db, blog)
}

// replaceTags rewrites the blog_tags rows of the blog. Tag rows themselves are never written.
func (r *BlogRepo) replaceTags(db *gorm.DB, blog *models.Blog) error {
	tags := blog.Tags
	if tags == nil {
		tags = []models.Tag{}
	}
	if err := db.Model(&models.Blog{ID: blog.ID}).Omit("Tags.*").Association("Tags").Replace(tags); err != nil {
		return errs.NewDatabaseError("link tags of", "blog", err)
	}
	return nil
}

// Delete removes a blog and its tag links. Comments and search documents are kept.
func (r *BlogRepo) Delete(ctx context.Context, id uuid.UUID) error {
	db := conn(ctx, r.db)
	if err := db.Exec("DELETE FROM blog_tags WHERE blog_id = ?", id).Error; err != nil {
		return errs.NewDatabaseError("unlink tags of", "blog", err)
	}

	res := db.Delete(&models.Blog{}, "id = ?", id)
	if res.Error != nil {
		return errs.NewDatabaseError("delete", "blog", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound("blog")
	}
	return nil
}

// IncrementReadSize adds one to the read counter in a single statement
func (r *BlogRepo) IncrementReadSize(ctx context.Context, id uuid.UUID) error {
	return r.increment(ctx, id, "read_size")
}

// IncrementCommentSize adds one to the comment counter in a single statement
func (r *BlogRepo) IncrementCommentSize(ctx context.Context, id uuid.UUID) error {
	return r.increment(ctx, id, "comment_size")
}

func (r *BlogRepo) increment(ctx context.Context, id uuid.UUID, column string) error {
	res := conn(ctx, r.db).
		Model(&models.Blog{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if res.Error != nil {
		return errs.NewDatabaseError("increment "+column+" of", "blog", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound("blog")
	}
	return nil
}
