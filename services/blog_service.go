package services

import (
	"bytes"
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/blog-service/errs"
	"github.com/rpupo63/blog-service/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SaveResult separates the outcome of the save from the outcome of the search index update
type SaveResult struct {
	Blog      *models.Blog
	MirrorErr error
}

// Mirrored reports whether the search index holds the saved version
func (r SaveResult) Mirrored() bool {
	return r.MirrorErr == nil
}

type BlogService struct {
	stores   Stores
	archives *ArchiveResolver
	index    SearchIndex
	logger   zerolog.Logger
	now      func() time.Time
}

func NewBlogService(stores Stores, index SearchIndex, calendar models.ArchiveCalendar) *BlogService {
	return &BlogService{
		stores:   stores,
		archives: NewArchiveResolver(stores.Archives, calendar),
		index:    index,
		logger:   log.With().Str("serviceName", "blogService").Logger(),
		now:      time.Now,
	}
}

// List returns one page of blogs matching every criterion set in filter
func (s *BlogService) List(ctx context.Context, filter models.BlogFilter, page models.PageRequest) (models.Page[models.Blog], error) {
	return s.stores.Blogs.List(ctx, filter, page)
}

// Detail returns a blog with its category, archive and tags. With bumpReadCount
// the read counter is incremented in the same transaction as the fetch.
func (s *BlogService) Detail(ctx context.Context, id uuid.UUID, bumpReadCount bool) (*models.Blog, error) {
	if !bumpReadCount {
		return s.stores.Blogs.FindByID(ctx, id)
	}

	var blog *models.Blog
	err := s.stores.Tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.stores.Blogs.IncrementReadSize(ctx, id); err != nil {
			return err
		}
		found, err := s.stores.Blogs.FindByID(ctx, id)
		blog = found
		return err
	})
	if err != nil {
		return nil, err
	}
	return blog, nil
}

// Save creates the blog when it has no ID and otherwise replaces it. The blog is
// filed under the archive of its creation month. Once committed the blog is copied
// into the search index; a failed copy is reported in SaveResult.MirrorErr only.
func (s *BlogService) Save(ctx context.Context, blog *models.Blog) (SaveResult, error) {
	if blog == nil {
		return SaveResult{}, errs.NewMalformedPayloadError("blog", nil)
	}
	if err := blog.Validate(); err != nil {
		return SaveResult{}, err
	}
	if blog.Category != nil {
		id := blog.Category.ID
		blog.CategoryID = &id
	}

	now := s.now()
	blog.UpdateTime = now
	err := s.stores.Tx.WithTx(ctx, func(ctx context.Context) error {
		if blog.CreateTime.IsZero() {
			createTime, err := s.storedCreateTime(ctx, blog.ID)
			if err != nil {
				return err
			}
			if createTime.IsZero() {
				createTime = now
			}
			blog.CreateTime = createTime
		}

		if err := s.checkReferences(ctx, blog); err != nil {
			return err
		}

		archive, err := s.archives.Resolve(ctx, blog.CreateTime)
		if err != nil {
			return err
		}
		blog.SetArchive(archive)
		return s.stores.Blogs.Save(ctx, blog)
	})
	if err != nil {
		return SaveResult{}, err
	}

	result := SaveResult{Blog: blog}
	stored, err := s.stores.Blogs.FindByID(ctx, blog.ID)
	if err == nil {
		result.Blog = stored
		err = s.index.Save(ctx, models.NewBlogSearchDocument(stored))
	}
	if err != nil {
		result.MirrorErr = err
		mirrorTotal.WithLabelValues(mirrorResultFailed).Inc()
		s.logger.Warn().Err(err).Str("blogID", blog.ID.String()).Msg("Blog saved but search index not updated")
		return result, nil
	}
	mirrorTotal.WithLabelValues(mirrorResultOK).Inc()
	return result, nil
}

// checkReferences fails with an invalid field error when the category or any tag
// of blog does not exist. Known tags replace the ones on blog.
func (s *BlogService) checkReferences(ctx context.Context, blog *models.Blog) error {
	if blog.CategoryID != nil {
		if _, err := s.stores.Categories.FindByID(ctx, *blog.CategoryID); err != nil {
			if errs.IsNotFound(err) {
				return errs.NewInvalidFieldError("categoryId", "unknown category")
			}
			return err
		}
	}

	if len(blog.Tags) == 0 {
		return nil
	}
	ids := blog.TagIDs()
	slices.SortFunc(ids, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
	ids = slices.Compact(ids)
	tags, err := s.stores.Tags.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(tags) != len(ids) {
		return errs.NewInvalidFieldError("tagIds", "unknown tag")
	}
	blog.Tags = make([]models.Tag, 0, len(tags))
	for _, tag := range tags {
		blog.Tags = append(blog.Tags, *tag)
	}
	return nil
}

// storedCreateTime returns the creation time already stored for id, or zero for a new blog
func (s *BlogService) storedCreateTime(ctx context.Context, id uuid.UUID) (time.Time, error) {
	if id == uuid.Nil {
		return time.Time{}, nil
	}
	existing, err := s.stores.Blogs.FindByID(ctx, id)
	if errs.IsNotFound(err) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return existing.CreateTime, nil
}

// DeleteByID removes a blog. Its comments and search document are left in place.
func (s *BlogService) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return s.stores.Blogs.Delete(ctx, id)
}

// AddComment stores comment under the blog and counts it in the same transaction
func (s *BlogService) AddComment(ctx context.Context, blogID uuid.UUID, comment *models.Comment) (uuid.UUID, error) {
	if comment == nil {
		return uuid.Nil, errs.NewMalformedPayloadError("comment", nil)
	}
	if err := comment.Validate(); err != nil {
		return uuid.Nil, err
	}

	err := s.stores.Tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.stores.Blogs.IncrementCommentSize(ctx, blogID); err != nil {
			return err
		}
		comment.BlogID = blogID
		return s.stores.Comments.Create(ctx, comment)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return comment.ID, nil
}

// Comments lists the comments of an existing blog, oldest first
func (s *BlogService) Comments(ctx context.Context, blogID uuid.UUID) ([]*models.Comment, error) {
	if _, err := s.stores.Blogs.FindByID(ctx, blogID); err != nil {
		return nil, err
	}
	return s.stores.Comments.ListByBlog(ctx, blogID)
}

func (s *BlogService) Archives(ctx context.Context) ([]*models.Archive, error) {
	return s.stores.Archives.FindAll(ctx)
}

func (s *BlogService) Categories(ctx context.Context) ([]*models.Category, error) {
	return s.stores.Categories.FindAll(ctx)
}

func (s *BlogService) Tags(ctx context.Context) ([]*models.Tag, error) {
	return s.stores.Tags.FindAll(ctx)
}

// Search queries the search index. Unlike saves, a failing index fails the call.
func (s *BlogService) Search(ctx context.Context, query string, limit int) ([]models.BlogSearchDocument, error) {
	if limit <= 0 {
		limit = models.DefaultPageSize
	}
	if limit > models.MaxPageSize {
		limit = models.MaxPageSize
	}
	return s.index.Search(ctx, query, limit)
}
