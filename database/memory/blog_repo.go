package memory

import (
	"context"
	"slices"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/blog-service/errs"
	"github.com/rpupo63/blog-service/models"
)

type BlogRepo struct {
	s *Store
}

// matchBlog is the in-memory form of the listing predicates
func matchBlog(filter models.BlogFilter) func(b models.Blog, tagIDs []uuid.UUID) bool {
	return func(b models.Blog, tagIDs []uuid.UUID) bool {
		if filter.Title != "" && !strings.Contains(b.Title, filter.Title) {
			return false
		}
		if filter.TagID != uuid.Nil && !slices.Contains(tagIDs, filter.TagID) {
			return false
		}
		if filter.CategoryID != uuid.Nil && (b.CategoryID == nil || *b.CategoryID != filter.CategoryID) {
			return false
		}
		if filter.ArchiveID != uuid.Nil && (b.ArchiveID == nil || *b.ArchiveID != filter.ArchiveID) {
			return false
		}
		return true
	}
}

func lessBlog(orders []models.SortOrder) func(a, b models.Blog) bool {
	return func(a, b models.Blog) bool {
		for _, o := range orders {
			var c int
			switch o.Field {
			case models.SortByCreateTime:
				c = a.CreateTime.Compare(b.CreateTime)
			case models.SortByReadSize:
				c = compareInt(a.ReadSize, b.ReadSize)
			case models.SortByCommentSize:
				c = compareInt(a.CommentSize, b.CommentSize)
			case models.SortByTitle:
				c = strings.Compare(a.Title, b.Title)
			}
			if o.Desc {
				c = -c
			}
			if c != 0 {
				return c < 0
			}
		}
		return strings.Compare(a.ID.String(), b.ID.String()) < 0
	}
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (r *BlogRepo) List(ctx context.Context, filter models.BlogFilter, page models.PageRequest) (models.Page[models.Blog], error) {
	page = page.Normalize()

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	match := matchBlog(filter)
	var matched []models.Blog
	for id, stored := range r.s.data.blogs {
		if match(stored, r.s.data.blogTags[id]) {
			matched = append(matched, stored)
		}
	}
	less := lessBlog(page.Sort)
	sort.SliceStable(matched, func(i, j int) bool { return less(matched[i], matched[j]) })

	total := int64(len(matched))
	start := min(page.Offset(), len(matched))
	end := min(start+page.Size, len(matched))

	items := make([]models.Blog, 0, end-start)
	for _, stored := range matched[start:end] {
		items = append(items, r.s.hydrate(stored))
	}
	return models.NewPage(items, total, page), nil
}

func (r *BlogRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Blog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	stored, ok := r.s.data.blogs[id]
	if !ok {
		return nil, errs.NewNotFound("blog")
	}
	blog := r.s.hydrate(stored)
	return &blog, nil
}

func (r *BlogRepo) Save(ctx context.Context, blog *models.Blog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if blog.CategoryID != nil {
		if _, ok := r.s.data.categories[*blog.CategoryID]; !ok {
			return errs.NewInvalidFieldError("categoryId", "unknown category")
		}
	}
	tagIDs := make([]uuid.UUID, 0, len(blog.Tags))
	for _, tag := range blog.Tags {
		if _, ok := r.s.data.tags[tag.ID]; !ok {
			return errs.NewInvalidFieldError("tagIds", "unknown tag")
		}
		if !slices.Contains(tagIDs, tag.ID) {
			tagIDs = append(tagIDs, tag.ID)
		}
	}

	if blog.ID == uuid.Nil {
		blog.ID = uuid.New()
	}
	if existing, ok := r.s.data.blogs[blog.ID]; ok {
		blog.ReadSize, blog.CommentSize = existing.ReadSize, existing.CommentSize
	} else {
		blog.ReadSize, blog.CommentSize = 0, 0
	}

	stored := *blog
	stored.Category, stored.Archive, stored.Tags = nil, nil, nil
	r.s.data.blogs[blog.ID] = stored
	r.s.data.blogTags[blog.ID] = tagIDs
	return nil
}

func (r *BlogRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.blogs[id]; !ok {
		return errs.NewNotFound("blog")
	}
	delete(r.s.data.blogs, id)
	delete(r.s.data.blogTags, id)
	return nil
}

func (r *BlogRepo) IncrementReadSize(ctx context.Context, id uuid.UUID) error {
	return r.increment(id, func(b *models.Blog) { b.ReadSize++ })
}

func (r *BlogRepo) IncrementCommentSize(ctx context.Context, id uuid.UUID) error {
	return r.increment(id, func(b *models.Blog) { b.CommentSize++ })
}

func (r *BlogRepo) increment(id uuid.UUID, bump func(*models.Blog)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.data.blogs[id]
	if !ok {
		return errs.NewNotFound("blog")
	}
	bump(&stored)
	r.s.data.blogs[id] = stored
	return nil
}
