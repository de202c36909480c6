package models

import (
	"strings"

	"github.com/google/uuid"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// BlogFilter holds the optional listing criteria. Zero values impose no constraint.
type BlogFilter struct {
	Title      string
	CategoryID uuid.UUID
	ArchiveID  uuid.UUID
	TagID      uuid.UUID
}

// SortField names a sortable blog column in its JSON spelling
type SortField string

const (
	SortByCreateTime  SortField = "createTime"
	SortByReadSize    SortField = "readSize"
	SortByCommentSize SortField = "commentSize"
	SortByTitle       SortField = "title"
)

// Column returns the database column for the field, or "" when the field is not sortable
func (f SortField) Column() string {
	switch f {
	case SortByCreateTime:
		return "create_time"
	case SortByReadSize:
		return "read_size"
	case SortByCommentSize:
		return "comment_size"
	case SortByTitle:
		return "title"
	}
	return ""
}

// SortOrder is one key of a listing order
type SortOrder struct {
	Field SortField
	Desc  bool
}

// PageRequest selects a zero-based page of a listing
type PageRequest struct {
	Page int
	Size int
	Sort []SortOrder
}

// Normalize clamps the page bounds and drops unknown sort keys.
// Without any usable sort key the listing is newest first.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}

	var sorts []SortOrder
	for _, s := range p.Sort {
		if s.Field.Column() != "" {
			sorts = append(sorts, s)
		}
	}
	if len(sorts) == 0 {
		sorts = []SortOrder{{Field: SortByCreateTime, Desc: true}}
	}
	p.Sort = sorts
	return p
}

// Offset is the number of rows skipped before this page
func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// ParseSort reads "field,dir" pairs such as "readSize,desc" into sort orders
func ParseSort(values []string) []SortOrder {
	var orders []SortOrder
	for _, value := range values {
		parts := strings.Split(value, ",")
		field := SortField(strings.TrimSpace(parts[0]))
		if field.Column() == "" {
			continue
		}
		desc := len(parts) > 1 && strings.EqualFold(strings.TrimSpace(parts[1]), "desc")
		orders = append(orders, SortOrder{Field: field, Desc: desc})
	}
	return orders
}

// Page is one slice of a listing together with the total match count
type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	TotalPages int   `json:"totalPages"`
}

// NewPage assembles a page and derives the page count
func NewPage[T any](items []T, total int64, req PageRequest) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if req.Size > 0 {
		pages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return Page[T]{Items: items, Total: total, Page: req.Page, Size: req.Size, TotalPages: pages}
}
