package database

import (
	"context"

	"github.com/rpupo63/blog-service/errs"
	"gorm.io/gorm"
)

type Database struct {
	db           *gorm.DB
	blogRepo     *BlogRepo
	archiveRepo  *ArchiveRepo
	commentRepo  *CommentRepo
	categoryRepo *CategoryRepo
	tagRepo      *TagRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:           db,
		blogRepo:     NewBlogRepo(db),
		archiveRepo:  NewArchiveRepo(db),
		commentRepo:  NewCommentRepo(db),
		categoryRepo: NewCategoryRepo(db),
		tagRepo:      NewTagRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) BlogRepo() *BlogRepo {
	return d.blogRepo
}

func (d Database) ArchiveRepo() *ArchiveRepo {
	return d.archiveRepo
}

func (d Database) CommentRepo() *CommentRepo {
	return d.commentRepo
}

func (d Database) CategoryRepo() *CategoryRepo {
	return d.categoryRepo
}

func (d Database) TagRepo() *TagRepo {
	return d.tagRepo
}

// WithTx runs fn inside one transaction. Repositories called with the context
// handed to fn join that transaction; any error returned by fn rolls it back.
func (d Database) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txFromContext(ctx); ok {
		return fn(ctx)
	}

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(contextWithTx(ctx, tx))
	})
	if err != nil && !isApiErr(err) {
		return errs.NewTransactionFailedError("commit", err)
	}
	return err
}
