package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/blog-service/models"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	blogHandler      blogHandler
	referenceHandler referenceHandler
	healthHandler    healthHandler
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error   string `json:"error"`
	Status  string `json:"status"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
	Cause   string `json:"cause,omitempty"`
}

// BlogRequest is the payload for creating or replacing a blog
type BlogRequest struct {
	Title      string      `json:"title"`
	Summary    string      `json:"summary"`
	Content    string      `json:"content"`
	CreateTime time.Time   `json:"createTime"`
	CategoryID *uuid.UUID  `json:"categoryId"`
	TagIDs     []uuid.UUID `json:"tagIds"`
}

func (r BlogRequest) toBlog(id uuid.UUID) *models.Blog {
	blog := &models.Blog{
		ID:         id,
		Title:      r.Title,
		Summary:    r.Summary,
		Content:    r.Content,
		CreateTime: r.CreateTime,
		CategoryID: r.CategoryID,
		Tags:       make([]models.Tag, 0, len(r.TagIDs)),
	}
	for _, tagID := range r.TagIDs {
		blog.Tags = append(blog.Tags, models.Tag{ID: tagID})
	}
	return blog
}

// SaveBlogResponse reports the stored blog and whether search was updated
type SaveBlogResponse struct {
	Blog       *models.Blog `json:"blog"`
	Indexed    bool         `json:"indexed"`
	IndexError string       `json:"indexError,omitempty"`
}

// CommentRequest is the payload for posting a comment
type CommentRequest struct {
	Author  string `json:"author"`
	Content string `json:"content"`
}

type CommentCreatedResponse struct {
	ID uuid.UUID `json:"id"`
}
