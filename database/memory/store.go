// Package memory keeps the blog repositories in process memory. It backs the
// service tests and DB_TYPE=memory for local runs.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/google/uuid"
	"github.com/rpupo63/blog-service/models"
)

type state struct {
	blogs      map[uuid.UUID]models.Blog
	blogTags   map[uuid.UUID][]uuid.UUID
	archives   map[uuid.UUID]models.Archive
	comments   map[uuid.UUID]models.Comment
	categories map[uuid.UUID]models.Category
	tags       map[uuid.UUID]models.Tag
}

func newState() state {
	return state{
		blogs:      make(map[uuid.UUID]models.Blog),
		blogTags:   make(map[uuid.UUID][]uuid.UUID),
		archives:   make(map[uuid.UUID]models.Archive),
		comments:   make(map[uuid.UUID]models.Comment),
		categories: make(map[uuid.UUID]models.Category),
		tags:       make(map[uuid.UUID]models.Tag),
	}
}

func (s state) clone() state {
	c := state{
		blogs:      maps.Clone(s.blogs),
		blogTags:   make(map[uuid.UUID][]uuid.UUID, len(s.blogTags)),
		archives:   maps.Clone(s.archives),
		comments:   maps.Clone(s.comments),
		categories: maps.Clone(s.categories),
		tags:       maps.Clone(s.tags),
	}
	for id, tagIDs := range s.blogTags {
		c.blogTags[id] = append([]uuid.UUID(nil), tagIDs...)
	}
	return c
}

// Store holds every entity. Transactions are serialized and roll back by
// restoring a snapshot, so a write made outside a transaction while one is
// rolling back can be lost.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	data state
}

func New() *Store {
	return &Store{data: newState()}
}

func (s *Store) Blogs() *BlogRepo {
	return &BlogRepo{s}
}

func (s *Store) Archives() *ArchiveRepo {
	return &ArchiveRepo{s}
}

func (s *Store) Comments() *CommentRepo {
	return &CommentRepo{s}
}

func (s *Store) Categories() *CategoryRepo {
	return &CategoryRepo{s}
}

func (s *Store) Tags() *TagRepo {
	return &TagRepo{s}
}

type txKey struct{}

// WithTx runs fn as one unit; when fn fails every change it made is undone
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// PutCategory stores or replaces a category
func (s *Store) PutCategory(category models.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.categories[category.ID] = category
}

// PutTag stores or replaces a tag
func (s *Store) PutTag(tag models.Tag) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.tags[tag.ID] = tag
}

// hydrate returns a detached copy of a stored blog with its associations loaded. Callers hold mu.
func (s *Store) hydrate(stored models.Blog) models.Blog {
	blog := stored
	blog.Category, blog.Archive, blog.Tags = nil, nil, nil

	if blog.CategoryID != nil {
		if category, ok := s.data.categories[*blog.CategoryID]; ok {
			blog.Category = &category
		}
	}
	if blog.ArchiveID != nil {
		if archive, ok := s.data.archives[*blog.ArchiveID]; ok {
			blog.Archive = &archive
		}
	}
	for _, tagID := range s.data.blogTags[blog.ID] {
		if tag, ok := s.data.tags[tagID]; ok {
			blog.Tags = append(blog.Tags, tag)
		}
	}
	return blog
}
