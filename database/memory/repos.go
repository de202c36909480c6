package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/blog-service/errs"
	"github.com/rpupo63/blog-service/models"
)

type ArchiveRepo struct {
	s *Store
}

func (r *ArchiveRepo) FindAll(ctx context.Context) ([]*models.Archive, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	archives := make([]*models.Archive, 0, len(r.s.data.archives))
	for _, archive := range r.s.data.archives {
		archives = append(archives, &archive)
	}
	sort.Slice(archives, func(i, j int) bool { return archives[i].Name > archives[j].Name })
	return archives, nil
}

func (r *ArchiveRepo) FindByName(ctx context.Context, name string) (*models.Archive, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if archive, ok := r.findByName(name); ok {
		return &archive, nil
	}
	return nil, errs.NewNotFound("archive")
}

func (r *ArchiveRepo) CreateIfAbsent(ctx context.Context, archive *models.Archive) (*models.Archive, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if existing, ok := r.findByName(archive.Name); ok {
		return &existing, nil
	}
	if archive.ID == uuid.Nil {
		archive.ID = uuid.New()
	}
	r.s.data.archives[archive.ID] = *archive
	stored := *archive
	return &stored, nil
}

// findByName scans for an exact label. Callers hold mu.
func (r *ArchiveRepo) findByName(name string) (models.Archive, bool) {
	for _, archive := range r.s.data.archives {
		if archive.Name == name {
			return archive, true
		}
	}
	return models.Archive{}, false
}

type CommentRepo struct {
	s *Store
}

func (r *CommentRepo) Create(ctx context.Context, comment *models.Comment) error {
	comment.PrepareCreate()

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.data.comments[comment.ID] = *comment
	return nil
}

func (r *CommentRepo) ListByBlog(ctx context.Context, blogID uuid.UUID) ([]*models.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var comments []*models.Comment
	for _, comment := range r.s.data.comments {
		if comment.BlogID == blogID {
			comments = append(comments, &comment)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].CreateTime.Before(comments[j].CreateTime) })
	return comments, nil
}

type CategoryRepo struct {
	s *Store
}

func (r *CategoryRepo) FindAll(ctx context.Context) ([]*models.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	categories := make([]*models.Category, 0, len(r.s.data.categories))
	for _, category := range r.s.data.categories {
		categories = append(categories, &category)
	}
	sort.Slice(categories, func(i, j int) bool { return strings.Compare(categories[i].Name, categories[j].Name) < 0 })
	return categories, nil
}

func (r *CategoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	category, ok := r.s.data.categories[id]
	if !ok {
		return nil, errs.NewNotFound("category")
	}
	return &category, nil
}

type TagRepo struct {
	s *Store
}

func (r *TagRepo) FindAll(ctx context.Context) ([]*models.Tag, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	tags := make([]*models.Tag, 0, len(r.s.data.tags))
	for _, tag := range r.s.data.tags {
		tags = append(tags, &tag)
	}
	sort.Slice(tags, func(i, j int) bool { return strings.Compare(tags[i].Name, tags[j].Name) < 0 })
	return tags, nil
}

func (r *TagRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Tag, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	tags := make([]*models.Tag, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		tag, ok := r.s.data.tags[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		tags = append(tags, &tag)
	}
	sort.Slice(tags, func(i, j int) bool { return strings.Compare(tags[i].Name, tags[j].Name) < 0 })
	return tags, nil
}
