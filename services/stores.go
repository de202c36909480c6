package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/blog-service/models"
)

type BlogStore interface {
	List(ctx context.Context, filter models.BlogFilter, page models.PageRequest) (models.Page[models.Blog], error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Blog, error)
	Save(ctx context.Context, blog *models.Blog) error
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementReadSize(ctx context.Context, id uuid.UUID) error
	IncrementCommentSize(ctx context.Context, id uuid.UUID) error
}

type ArchiveStore interface {
	FindAll(ctx context.Context) ([]*models.Archive, error)
	FindByName(ctx context.Context, name string) (*models.Archive, error)
	CreateIfAbsent(ctx context.Context, archive *models.Archive) (*models.Archive, error)
}

type CommentStore interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByBlog(ctx context.Context, blogID uuid.UUID) ([]*models.Comment, error)
}

type CategoryStore interface {
	FindAll(ctx context.Context) ([]*models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

type TagStore interface {
	FindAll(ctx context.Context) ([]*models.Tag, error)
	// FindByIDs returns the tags that exist among ids. Unknown ids are skipped.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Tag, error)
}

// TxManager runs fn in one transaction. Stores called with the context passed
// to fn take part in it.
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// SearchIndex is the secondary copy of the blogs used for keyword search
type SearchIndex interface {
	Save(ctx context.Context, doc models.BlogSearchDocument) error
	Search(ctx context.Context, query string, limit int) ([]models.BlogSearchDocument, error)
}

// Stores bundles the persistence dependencies of the blog service
type Stores struct {
	Tx         TxManager
	Blogs      BlogStore
	Archives   ArchiveStore
	Comments   CommentStore
	Categories CategoryStore
	Tags       TagStore
}
