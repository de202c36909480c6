package memory

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

func seedBlog(t *testing.T, s *Store, title string, created time.Time, tags ...models.Tag) *models.Blog {
	t.Helper()
	blog := &models.Blog{Title: title, Content: "body", CreateTime: created, Tags: tags}
	require.NoError(t, s.Blogs().Save(context.Background(), blog))
	return blog
}

func TestBlogListFilters(t *testing.T) {
	ctx := context.Background()
	s := New()
	golang := models.Tag{ID: uuid.New(), Name: "go"}
	s.PutTag(golang)
	category := models.Category{ID: uuid.New(), Name: "notes"}
	s.PutCategory(category)

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	hello := seedBlog(t, s, "Hello World", base, golang)
	other := seedBlog(t, s, "Other", base.Add(time.Hour))
	other.CategoryID = &category.ID
	require.NoError(t, s.Blogs().Save(ctx, other))

	t.Run("no filters returns everything newest first", func(t *testing.T) {
		page, err := s.Blogs().List(ctx, models.BlogFilter{}, models.PageRequest{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Total)
		require.Len(t, page.Items, 2)
		assert.Equal(t, other.ID, page.Items[0].ID)
	})

	t.Run("title is a case sensitive substring", func(t *testing.T) {
		for title, want := range map[string]int64{"Hello": 1, "lo Wo": 1, "hello": 0} {
			page, err := s.Blogs().List(ctx, models.BlogFilter{Title: title}, models.PageRequest{})
			require.NoError(t, err)
			assert.Equal(t, want, page.Total, title)
		}
	})

	t.Run("tag excludes untagged blogs", func(t *testing.T) {
		page, err := s.Blogs().List(ctx, models.BlogFilter{TagID: golang.ID}, models.PageRequest{})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, hello.ID, page.Items[0].ID)
		require.Len(t, page.Items[0].Tags, 1)
		assert.Equal(t, "go", page.Items[0].Tags[0].Name)
	})

	t.Run("category loads the association", func(t *testing.T) {
		page, err := s.Blogs().List(ctx, models.BlogFilter{CategoryID: category.ID}, models.PageRequest{})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		require.NotNil(t, page.Items[0].Category)
		assert.Equal(t, "notes", page.Items[0].Category.Name)
	})

	t.Run("paging", func(t *testing.T) {
		page, err := s.Blogs().List(ctx, models.BlogFilter{}, models.PageRequest{
			Page: 1,
			Size: 1,
			Sort: []models.SortOrder{{Field: models.SortByTitle}},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, page.TotalPages)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "Other", page.Items[0].Title)
	})
}

func TestBlogSaveKeepsCounters(t *testing.T) {
	ctx := context.Background()
	s := New()
	blog := seedBlog(t, s, "Counted", time.Now())
	require.NoError(t, s.Blogs().IncrementReadSize(ctx, blog.ID))
	require.NoError(t, s.Blogs().IncrementCommentSize(ctx, blog.ID))

	blog.Title = "Renamed"
	blog.ReadSize = 99
	require.NoError(t, s.Blogs().Save(ctx, blog))

	stored, err := s.Blogs().FindByID(ctx, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", stored.Title)
	assert.Equal(t, int64(1), stored.ReadSize)
	assert.Equal(t, int64(1), stored.CommentSize)
}

func TestBlogSaveRejectsUnknownReferences(t *testing.T) {
	ctx := context.Background()
	s := New()
	golang := models.Tag{ID: uuid.New(), Name: "go"}
	s.PutTag(golang)

	err := s.Blogs().Save(ctx, &models.Blog{Title: "Tagged", Content: "body", Tags: []models.Tag{{ID: uuid.New()}}})
	assert.True(t, errs.IsInvalidFieldError(err))

	missing := uuid.New()
	err = s.Blogs().Save(ctx, &models.Blog{Title: "Filed", Content: "body", CategoryID: &missing})
	assert.True(t, errs.IsInvalidFieldError(err))

	tags, err := s.Tags().FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, tags, 1)
	page, err := s.Blogs().List(ctx, models.BlogFilter{}, models.PageRequest{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)

	found, err := s.Tags().FindByIDs(ctx, []uuid.UUID{golang.ID, missing, golang.ID})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "go", found[0].Name)

	_, err = s.Categories().FindByID(ctx, missing)
	assert.True(t, errs.IsNotFound(err))
}

func TestBlogNotFound(t *testing.T) {
	ctx := context.Background()
	s := New()
	id := uuid.New()

	_, err := s.Blogs().FindByID(ctx, id)
	assert.True(t, errs.IsNotFound(err))
	assert.True(t, errs.IsNotFound(s.Blogs().Delete(ctx, id)))
	assert.True(t, errs.IsNotFound(s.Blogs().IncrementReadSize(ctx, id)))
	assert.True(t, errs.IsNotFound(s.Blogs().IncrementCommentSize(ctx, id)))
}

func TestArchiveCreateIfAbsent(t *testing.T) {
	ctx := context.Background()
	s := New()

	first, err := s.Archives().CreateIfAbsent(ctx, models.NewArchive("2024年03月"))
	require.NoError(t, err)
	second, err := s.Archives().CreateIfAbsent(ctx, models.NewArchive("2024年03月"))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	all, err := s.Archives().FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = s.Archives().FindByName(ctx, "2024年04月")
	assert.True(t, errs.IsNotFound(err))
}

func TestWithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s := New()
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(ctx context.Context) error {
		seedBlog(t, s, "Doomed", time.Now())
		_, err := s.Archives().CreateIfAbsent(ctx, models.NewArchive("2024年03月"))
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	page, err := s.Blogs().List(ctx, models.BlogFilter{}, models.PageRequest{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	archives, err := s.Archives().FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, archives)
}

func TestCommentsOldestFirst(t *testing.T) {
	ctx := context.Background()
	s := New()
	blogID := uuid.New()
	now := time.Now()

	require.NoError(t, s.Comments().Create(ctx, &models.Comment{BlogID: blogID, Content: "second", CreateTime: now}))
	require.NoError(t, s.Comments().Create(ctx, &models.Comment{BlogID: blogID, Content: "first", CreateTime: now.Add(-time.Minute)}))
	require.NoError(t, s.Comments().Create(ctx, &models.Comment{BlogID: uuid.New(), Content: "elsewhere"}))

	comments, err := s.Comments().ListByBlog(ctx, blogID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Content)
	assert.NotEqual(t, uuid.Nil, comments[0].ID)
}
