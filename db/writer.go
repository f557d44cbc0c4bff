package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"movfeed/models"

	sqlbuilder "github.com/huandu/go-sqlbuilder"
	log "github.com/sirupsen/logrus"
)

// Writer stores posts so that a later session can load them
type Writer struct {
	db     *sql.DB
	flavor sqlbuilder.Flavor
	table  string
}

func NewWriter(db *sql.DB, driver string, table string) *Writer {
	return &Writer{
		db:     db,
		flavor: flavor(driver),
		table:  table,
	}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (writer *Writer) CreatePost(ctx context.Context, post models.Post) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	return writer.insert(ctx, writer.db, post)
}

// ImportPosts inserts all posts in one transaction
func (writer *Writer) ImportPosts(ctx context.Context, posts []models.Post) error {
	tx, err := writer.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin error: %w", err)
	}

	for _, post := range posts {
		if err := writer.insert(ctx, tx, post); err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit error: %w", err)
	}

	log.WithFields(log.Fields{"count": len(posts)}).Info("Imported posts")
	return nil
}

func (writer *Writer) insert(ctx context.Context, db execer, post models.Post) error {
	ib := writer.flavor.NewInsertBuilder()
	ib.InsertInto(writer.table).Cols(postColumns...).Values(
		post.Title,
		post.Description,
		post.Image,
		post.EmbedCode,
		post.Url,
		string(post.Type),
		string(post.Category),
		post.MediaSource,
		post.Date.Format(models.DateLayout),
		post.Featured,
		post.Pinned,
		post.Visible,
	)

	query, args := ib.Build()
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert error: %w", err)
	}

	log.WithFields(log.Fields{
		"title": post.Title,
		"date":  post.Date,
	}).Info("Creating post")

	return nil
}
