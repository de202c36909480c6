package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/blog-service/errs"
	"github.com/rpupo63/blog-service/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestIndex(t *testing.T) *BadgerIndex {
	t.Helper()
	index, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { index.Close() })
	return index
}

func TestSaveAndGet(t *testing.T) {
	ctx := context.Background()
	index := openTestIndex(t)
	doc := models.BlogSearchDocument{ID: uuid.New(), Title: "Hello World", ArchiveName: "2024年03月"}

	require.NoError(t, index.Save(ctx, doc))
	doc.Title = "Hello Again"
	require.NoError(t, index.Save(ctx, doc))

	stored, err := index.Get(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello Again", stored.Title)
	assert.Equal(t, "2024年03月", stored.ArchiveName)

	_, err = index.Get(ctx, uuid.New())
	assert.True(t, errs.IsNotFound(err))
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	index := openTestIndex(t)
	now := time.Now()

	docs := []models.BlogSearchDocument{
		{ID: uuid.New(), Title: "Learning Go", CreateTime: now.Add(-2 * time.Hour)},
		{ID: uuid.New(), Title: "Cooking", Summary: "a GOod recipe", CreateTime: now.Add(-time.Hour)},
		{ID: uuid.New(), Title: "Travel", Tags: []string{"golang"}, CreateTime: now},
		{ID: uuid.New(), Title: "Unrelated", CreateTime: now},
	}
	for _, doc := range docs {
		require.NoError(t, index.Save(ctx, doc))
	}

	t.Run("matches title summary and tags ignoring case", func(t *testing.T) {
		found, err := index.Search(ctx, "go", 0)
		require.NoError(t, err)
		require.Len(t, found, 3)
		assert.Equal(t, "Travel", found[0].Title)
		assert.Equal(t, "Learning Go", found[2].Title)
	})

	t.Run("limit", func(t *testing.T) {
		found, err := index.Search(ctx, "go", 1)
		require.NoError(t, err)
		assert.Len(t, found, 1)
	})

	t.Run("no match", func(t *testing.T) {
		found, err := index.Search(ctx, "rust", 10)
		require.NoError(t, err)
		assert.Empty(t, found)
	})
}

func TestUnavailable(t *testing.T) {
	index := Unavailable{Err: errors.New("disk gone")}

	err := index.Save(context.Background(), models.BlogSearchDocument{})
	assert.True(t, errs.IsSearchIndexError(err))

	_, err = index.Search(context.Background(), "go", 10)
	assert.True(t, errs.IsSearchIndexError(err))
}
