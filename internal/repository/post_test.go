package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"chirp/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// A named shared-cache DB keeps every pooled connection on the same
	// in-memory database; a bare ":memory:" gives each connection its own.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Post{}))
	return db
}

func seedPost(t *testing.T, db *gorm.DB, authorID, text string, createdAt time.Time) *models.Post {
	t.Helper()
	post := &models.Post{
		AuthorID:   authorID,
		AuthorName: "Tester",
		Text:       text,
		CreatedAt:  createdAt,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func TestPostRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	post := &models.Post{AuthorID: "u1", AuthorName: "Tester", Text: "hello"}
	require.NoError(t, repo.Create(ctx, post))
	require.NotEmpty(t, post.ID)

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Text)
	assert.Equal(t, "u1", got.AuthorID)
	assert.Equal(t, "Tester", got.AuthorName)
}

func TestPostRepository_GetByID_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)

	_, err := repo.GetByID(context.Background(), "missing")
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestPostRepository_GetByAuthor(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 30; i++ {
		seedPost(t, db, "u1", fmt.Sprintf("post %d", i), base.Add(time.Duration(i)*time.Minute))
	}
	seedPost(t, db, "u2", "someone else", base)

	posts, err := repo.GetByAuthor(ctx, "u1", 25)
	require.NoError(t, err)

	// Capped at 25, newest first, only u1's posts.
	require.Len(t, posts, 25)
	assert.Equal(t, "post 29", posts[0].Text)
	assert.Equal(t, "post 5", posts[24].Text)
	for _, p := range posts {
		assert.Equal(t, "u1", p.AuthorID)
	}
}

func TestPostRepository_UpdateFields(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	post := seedPost(t, db, "u1", "before", time.Now())
	post.PhotoURL = "http://example.com/keep"
	require.NoError(t, db.Save(post).Error)

	err := repo.UpdateFields(ctx, post.ID, map[string]any{"text": "after"})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Text)
	// Fields outside the update map are untouched.
	assert.Equal(t, "http://example.com/keep", got.PhotoURL)
}

func TestPostRepository_UpdateFields_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)

	err := repo.UpdateFields(context.Background(), "missing", map[string]any{"text": "x"})
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestPostRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	post := seedPost(t, db, "u1", "doomed", time.Now())
	require.NoError(t, repo.Delete(ctx, post.ID))

	_, err := repo.GetByID(ctx, post.ID)
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

// UpdateFields must emit a partial UPDATE naming only the given columns,
// never a full-row save.
func TestPostRepository_UpdateFields_PartialSQL(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "posts" SET "photo_url"=\$1,"updated_at"=\$2 WHERE id = \$3`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewPostRepository(db)
	err = repo.UpdateFields(context.Background(), "p1", map[string]any{"photo_url": "http://x/y"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
