package database

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/blog-service/errs"
	"github.com/rpupo63/blog-service/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqlRecorder keeps every statement gorm renders, in order
type sqlRecorder struct {
	mu         sync.Mutex
	statements []string
}

func (r *sqlRecorder) LogMode(logger.LogLevel) logger.Interface { return r }
func (r *sqlRecorder) Info(context.Context, string, ...interface{}) {}
func (r *sqlRecorder) Warn(context.Context, string, ...interface{}) {}
func (r *sqlRecorder) Error(context.Context, string, ...interface{}) {}

func (r *sqlRecorder) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	sql, _ := fc()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statements = append(r.statements, sql)
}

func (r *sqlRecorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.statements...)
}

// index returns the position of the first statement containing fragment, or -1
func (r *sqlRecorder) index(fragment string) int {
	for i, sql := range r.all() {
		if strings.Contains(sql, fragment) {
			return i
		}
	}
	return -1
}

// recordingDB is a dry run database whose rendered statements land in the returned recorder.
// Nothing is executed, so every write reports zero affected rows.
func recordingDB(t *testing.T) (*gorm.DB, *sqlRecorder) {
	t.Helper()
	rec := &sqlRecorder{}
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=test dbname=test sslmode=disable",
	}), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		// the implicit write transaction would dial the server
		SkipDefaultTransaction: true,
		Logger:                 rec,
	})
	require.NoError(t, err)
	return db, rec
}

func TestIncrementIsSingleStatement(t *testing.T) {
	ctx := context.Background()

	for column, increment := range map[string]func(*BlogRepo, uuid.UUID) error{
		"read_size":    func(r *BlogRepo, id uuid.UUID) error { return r.IncrementReadSize(ctx, id) },
		"comment_size": func(r *BlogRepo, id uuid.UUID) error { return r.IncrementCommentSize(ctx, id) },
	} {
		t.Run(column, func(t *testing.T) {
			db, rec := recordingDB(t)
			id := uuid.New()

			err := increment(NewBlogRepo(db), id)
			assert.True(t, errs.IsNotFound(err), "no row touched means the blog is missing")

			statements := rec.all()
			require.Len(t, statements, 1)
			assert.Contains(t, statements[0], `UPDATE "blogs" SET`)
			assert.Contains(t, statements[0], column+" + 1")
			assert.Contains(t, statements[0], id.String())
			assert.NotContains(t, statements[0], "SELECT")
		})
	}
}

func TestDeleteUnlinksTagsFirst(t *testing.T) {
	db, rec := recordingDB(t)
	id := uuid.New()

	err := NewBlogRepo(db).Delete(context.Background(), id)
	assert.True(t, errs.IsNotFound(err))

	unlink := rec.index("DELETE FROM blog_tags WHERE blog_id")
	remove := rec.index(`DELETE FROM "blogs"`)
	require.NotEqual(t, -1, unlink)
	require.NotEqual(t, -1, remove)
	assert.Less(t, unlink, remove)
}

func TestSaveUnknownIDFallsBackToInsert(t *testing.T) {
	db, rec := recordingDB(t)
	tagID := uuid.New()
	blog := &models.Blog{
		ID:       uuid.New(),
		Title:    "Imported",
		Content:  "body",
		ReadSize: 7,
		Tags:     []models.Tag{{ID: tagID, Name: "go"}},
	}

	require.NoError(t, NewBlogRepo(db).Save(context.Background(), blog))
	assert.Zero(t, blog.ReadSize)

	update := rec.index(`UPDATE "blogs" SET`)
	insert := rec.index(`INSERT INTO "blogs"`)
	require.NotEqual(t, -1, update)
	require.NotEqual(t, -1, insert)
	assert.Less(t, update, insert)
	assert.NotContains(t, rec.all()[update], "read_size")

	link := rec.index(`INSERT INTO "blog_tags"`)
	require.NotEqual(t, -1, link)
	assert.Contains(t, rec.all()[link], tagID.String())
	assert.Equal(t, -1, rec.index(`INSERT INTO "tags"`), "tag rows are never written by a blog save")
}

func TestSaveNewBlogInsertsOnce(t *testing.T) {
	db, rec := recordingDB(t)
	blog := &models.Blog{Title: "Fresh", Content: "body"}

	require.NoError(t, NewBlogRepo(db).Save(context.Background(), blog))
	assert.NotEqual(t, uuid.Nil, blog.ID)
	assert.Equal(t, -1, rec.index(`UPDATE "blogs" SET "title"`))
	assert.NotEqual(t, -1, rec.index(`INSERT INTO "blogs"`))
}

func TestCreateIfAbsentIgnoresNameConflict(t *testing.T) {
	db, rec := recordingDB(t)
	archive := models.NewArchive("2024年03月")

	_, err := NewArchiveRepo(db).CreateIfAbsent(context.Background(), archive)
	require.NoError(t, err)

	insert := rec.index(`INSERT INTO "archives"`)
	require.NotEqual(t, -1, insert)
	assert.Contains(t, rec.all()[insert], `ON CONFLICT ("name") DO NOTHING`)

	// Zero inserted rows means another writer owns the name, so the stored row is read back
	reread := rec.index(`SELECT * FROM "archives" WHERE name =`)
	require.NotEqual(t, -1, reread)
	assert.Less(t, insert, reread)
	assert.Contains(t, rec.all()[reread], "2024年03月")
}

func TestReferenceLookups(t *testing.T) {
	ctx := context.Background()

	t.Run("tags by id", func(t *testing.T) {
		db, rec := recordingDB(t)
		ids := []uuid.UUID{uuid.New(), uuid.New()}

		_, err := NewTagRepo(db).FindByIDs(ctx, ids)
		require.NoError(t, err)
		statements := rec.all()
		require.Len(t, statements, 1)
		assert.Contains(t, statements[0], `SELECT * FROM "tags" WHERE id IN (`)
		assert.Contains(t, statements[0], ids[1].String())
	})

	t.Run("no tag ids skips the query", func(t *testing.T) {
		db, rec := recordingDB(t)

		tags, err := NewTagRepo(db).FindByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, tags)
		assert.Empty(t, rec.all())
	})

	t.Run("category by id", func(t *testing.T) {
		db, rec := recordingDB(t)
		id := uuid.New()

		_, err := NewCategoryRepo(db).FindByID(ctx, id)
		require.NoError(t, err)
		statements := rec.all()
		require.Len(t, statements, 1)
		assert.Contains(t, statements[0], `SELECT * FROM "categories" WHERE id =`)
		assert.Contains(t, statements[0], id.String())
	})
}
