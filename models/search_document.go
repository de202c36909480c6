package models

import (
	"time"

	"github.com/google/uuid"
)

// BlogSearchDocument is the denormalized copy of a blog kept in the search index.
// It may lag behind or be missing for a stored blog.
type BlogSearchDocument struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Summary      string    `json:"summary,omitempty"`
	Content      string    `json:"content"`
	CategoryName string    `json:"categoryName,omitempty"`
	ArchiveName  string    `json:"archiveName,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	CreateTime   time.Time `json:"createTime"`
	ReadSize     int64     `json:"readSize"`
	CommentSize  int64     `json:"commentSize"`
}

// NewBlogSearchDocument projects a stored blog into its search document
func NewBlogSearchDocument(b *Blog) BlogSearchDocument {
	doc := BlogSearchDocument{
		ID:          b.ID,
		Title:       b.Title,
		Summary:     b.Summary,
		Content:     b.Content,
		CreateTime:  b.CreateTime,
		ReadSize:    b.ReadSize,
		CommentSize: b.CommentSize,
	}
	if b.Category != nil {
		doc.CategoryName = b.Category.Name
	}
	if b.Archive != nil {
		doc.ArchiveName = b.Archive.Name
	}
	for _, tag := range b.Tags {
		doc.Tags = append(doc.Tags, tag.Name)
	}
	return doc
}
