package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hitoshi/rssreader/internal/model"
)

var (
	insertFeedSQL = regexp.QuoteMeta(`INSERT INTO feed (url, title, subtitle, updated)`)
	listFeedsSQL  = regexp.QuoteMeta(`SELECT id, url, title, subtitle, updated FROM feed ORDER BY id ASC OFFSET $1 LIMIT $2`)
	selectFeedSQL = regexp.QuoteMeta(`SELECT id, url, title, subtitle, updated FROM feed WHERE id = $1`)
	lockFeedSQL   = regexp.QuoteMeta(`SELECT id, url, title, subtitle, updated FROM feed WHERE id = $1 FOR UPDATE`)
	deleteFeedSQL = regexp.QuoteMeta(`DELETE FROM feed WHERE id = $1`)
	feedColumns   = []string{"id", "url", "title", "subtitle", "updated"}
)

func strPtr(s string) *string { return &s }

func TestPostgresFeedRepo_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresFeedRepo(db)

	updated := time.Date(2023, 11, 16, 13, 54, 19, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery(insertFeedSQL).
		WithArgs("https://www.reddit.com/r/programming/.rss", "programming", "Computer Programming", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(feedColumns).
			AddRow(1, "https://www.reddit.com/r/programming/.rss", "programming", "Computer Programming", updated))
	mock.ExpectCommit()

	feed, err := repo.Create(context.Background(), &model.Feed{
		URL:      "https://www.reddit.com/r/programming/.rss",
		Title:    strPtr("programming"),
		Subtitle: strPtr("Computer Programming"),
		Updated:  &updated,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), feed.ID)
	require.NotNil(t, feed.Title)
	assert.Equal(t, "programming", *feed.Title)
	require.NotNil(t, feed.Updated)
	assert.True(t, updated.Equal(*feed.Updated))
}

func TestPostgresFeedRepo_Create_NullMetadata(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresFeedRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(insertFeedSQL).
		WithArgs("http://feed1.com", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(feedColumns).AddRow(2, "http://feed1.com", nil, nil, nil))
	mock.ExpectCommit()

	feed, err := repo.Create(context.Background(), &model.Feed{URL: "http://feed1.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), feed.ID)
	assert.Nil(t, feed.Title)
	assert.Nil(t, feed.Subtitle)
	assert.Nil(t, feed.Updated)
}

func TestPostgresFeedRepo_Create_Duplicate_RollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresFeedRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(insertFeedSQL).
		WillReturnError(uniqueViolationError("feed_url_key"))
	mock.ExpectRollback()

	feed, err := repo.Create(context.Background(), &model.Feed{URL: "http://feed1.com"})
	assert.Nil(t, feed)
	require.Error(t, err)
	assert.True(t, model.IsAlreadyExists(err))
	assert.Contains(t, err.Error(), "Feed already exists")
}

func TestPostgresFeedRepo_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresFeedRepo(db)

	mock.ExpectQuery(listFeedsSQL).
		WithArgs(1, 2).
		WillReturnRows(sqlmock.NewRows(feedColumns).
			AddRow(2, "http://feed2.com", "Feed 2", nil, nil).
			AddRow(3, "http://feed3.com", nil, nil, nil))

	feeds, err := repo.List(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Len(t, feeds, 2)
	assert.Equal(t, int64(2), feeds[0].ID)
	assert.Equal(t, int64(3), feeds[1].ID)
}

func TestPostgresFeedRepo_FindByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresFeedRepo(db)

	mock.ExpectQuery(selectFeedSQL).
		WithArgs(42).
		WillReturnError(sql.ErrNoRows)

	feed, err := repo.FindByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, feed)
}

func TestPostgresFeedRepo_DeleteByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresFeedRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(lockFeedSQL).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(feedColumns).AddRow(5, "http://feed5.com", "t", "s", nil))
	mock.ExpectExec(deleteFeedSQL).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	feed, err := repo.DeleteByID(context.Background(), 5)
	require.NoError(t, err)
	require.NotNil(t, feed)
	assert.Equal(t, "http://feed5.com", feed.URL)
}

func TestPostgresFeedRepo_DeleteByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresFeedRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(lockFeedSQL).
		WithArgs(9).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectCommit()

	feed, err := repo.DeleteByID(context.Background(), 9)
	require.NoError(t, err)
	assert.Nil(t, feed)
}
