package database

import (
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/blog-service/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// blogFilterScope turns the filter into conjunctive predicates. Absent criteria
// add nothing. withAssociations fetch-joins category and archive into the same
// statement; count queries leave it off.
func blogFilterScope(filter models.BlogFilter, withAssociations bool) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if withAssociations {
			tx = tx.Joins("Category").Joins("Archive")
		}

		// LIKE is case sensitive on postgres
		if filter.Title != "" {
			tx = tx.Where("blogs.title LIKE ?", "%"+escapeLike(filter.Title)+"%")
		}

		if filter.TagID != uuid.Nil {
			tx = tx.Joins("INNER JOIN blog_tags ON blog_tags.blog_id = blogs.id AND blog_tags.tag_id = ?", filter.TagID)
		}

		if filter.CategoryID != uuid.Nil {
			tx = tx.Where("blogs.category_id = ?", filter.CategoryID)
		}

		if filter.ArchiveID != uuid.Nil {
			tx = tx.Where("blogs.archive_id = ?", filter.ArchiveID)
		}

		return tx
	}
}

// pageScope applies ordering and slicing. The id tiebreaker keeps pages stable.
func pageScope(page models.PageRequest) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		for _, s := range page.Sort {
			tx = tx.Order(clause.OrderByColumn{
				Column: clause.Column{Table: clause.CurrentTable, Name: s.Field.Column()},
				Desc:   s.Desc,
			})
		}
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Table: clause.CurrentTable, Name: "id"}})
		return tx.Offset(page.Offset()).Limit(page.Size)
	}
}
