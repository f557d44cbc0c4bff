package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderQueryVisible(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(postColumns).
		AddRow("Community meeting", "Great turnout", "meeting.jpg", nil, "https://facebook.com/p/1",
			"facebook", "movimiento", nil, time.Date(2025, time.January, 12, 0, 0, 0, 0, time.UTC), true, false, true).
		AddRow(nil, nil, nil, "<iframe></iframe>", nil,
			nil, nil, nil, nil, nil, nil, nil)

	mock.ExpectQuery(`SELECT (.+) FROM posts WHERE visible = \$1 ORDER BY date DESC`).
		WithArgs(true).
		WillReturnRows(rows)

	reader := NewReader(db, DriverPostgres, "posts")
	posts, err := reader.QueryVisible(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 2)

	first := posts[0]
	assert.Equal(t, "Community meeting", *first.Title)
	assert.Equal(t, "movimiento", *first.Category)
	assert.Equal(t, "2025-01-12T00:00:00Z", *first.Date)
	assert.Nil(t, first.EmbedCode)
	assert.Nil(t, first.MediaSource)
	assert.True(t, *first.Featured)
	assert.False(t, *first.Pinned)

	second := posts[1]
	assert.Nil(t, second.Title)
	assert.Nil(t, second.Date)
	assert.Nil(t, second.Visible)
	assert.Equal(t, "<iframe></iframe>", *second.EmbedCode)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReaderQueryVisibleEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM feed_posts WHERE visible = \? ORDER BY date DESC`).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows(postColumns))

	posts, err := NewReader(db, DriverSQLite, "feed_posts").QueryVisible(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReaderQueryVisibleError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT").WillReturnError(errors.New("relation \"posts\" does not exist"))

	_, err = NewReader(db, DriverPostgres, "posts").QueryVisible(context.Background())
	assert.ErrorContains(t, err, "does not exist")
	assert.NoError(t, mock.ExpectationsWereMet())
}
