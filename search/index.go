// Package search mirrors blogs into a BadgerDB key/value store and answers
// keyword queries over the mirrored documents.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/rpupo63/blog-service/errs"
	"github.com/rpupo63/blog-service/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const BlogKeyPrefix = "blog:"

func blogKey(id uuid.UUID) []byte {
	return []byte(BlogKeyPrefix + id.String())
}

type BadgerIndex struct {
	db     *badger.DB
	logger zerolog.Logger
}

// Open opens the index stored in dir. An empty dir keeps the index in memory.
func Open(dir string) (*BadgerIndex, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	logger := log.With().Str("component", "searchIndex").Logger()
	opts = opts.WithLogger(badgerLogger{logger})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errs.NewSearchIndexError("open", err)
	}
	return &BadgerIndex{db: db, logger: logger}, nil
}

func (i *BadgerIndex) Close() error {
	return i.db.Close()
}

// Save upserts the document under its blog id
func (i *BadgerIndex) Save(ctx context.Context, doc models.BlogSearchDocument) error {
	if err := ctx.Err(); err != nil {
		return errs.NewSearchIndexError("save", err)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return errs.NewSearchIndexError("save", fmt.Errorf("marshal document: %w", err))
	}
	err = i.db.Update(func(txn *badger.Txn) error {
		return txn.Set(blogKey(doc.ID), data)
	})
	if err != nil {
		return errs.NewSearchIndexError("save", err)
	}
	return nil
}

// Get returns the document mirrored for a blog
func (i *BadgerIndex) Get(ctx context.Context, id uuid.UUID) (*models.BlogSearchDocument, error) {
	var doc models.BlogSearchDocument
	err := i.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(blogKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &doc)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, errs.NewNotFound("search document")
	}
	if err != nil {
		return nil, errs.NewSearchIndexError("get", err)
	}
	return &doc, nil
}

// Search returns up to limit documents whose title, summary or tags contain
// query, ignoring case. Newest documents come first.
func (i *BadgerIndex) Search(ctx context.Context, query string, limit int) ([]models.BlogSearchDocument, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	var docs []models.BlogSearchDocument

	err := i.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(BlogKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var doc models.BlogSearchDocument
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &doc)
			})
			if err != nil {
				i.logger.Warn().Err(err).Str("key", string(it.Item().Key())).Msg("Skipping unreadable search document")
				continue
			}
			if matches(doc, needle) {
				docs = append(docs, doc)
			}
		}
		return nil
	})
	if err != nil {
		return nil, errs.NewSearchIndexError("search", err)
	}

	sort.Slice(docs, func(a, b int) bool { return docs[a].CreateTime.After(docs[b].CreateTime) })
	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}
	if docs == nil {
		docs = []models.BlogSearchDocument{}
	}
	return docs, nil
}

func matches(doc models.BlogSearchDocument, needle string) bool {
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(doc.Title), needle) || strings.Contains(strings.ToLower(doc.Summary), needle) {
		return true
	}
	for _, tag := range doc.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// Unavailable stands in when the index cannot be opened. Every call fails with Err.
type Unavailable struct {
	Err error
}

func (u Unavailable) Save(ctx context.Context, doc models.BlogSearchDocument) error {
	return errs.NewSearchIndexError("save", u.Err)
}

func (u Unavailable) Search(ctx context.Context, query string, limit int) ([]models.BlogSearchDocument, error) {
	return nil, errs.NewSearchIndexError("search", u.Err)
}

func (u Unavailable) Close() error {
	return nil
}

// badgerLogger routes badger's own logging through zerolog
type badgerLogger struct {
	logger zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Infof(format string, args ...any) {
	l.logger.Debug().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Debugf(format string, args ...any) {
	l.logger.Trace().Msgf(strings.TrimSpace(format), args...)
}
