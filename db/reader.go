package db

import (
	"context"
	"database/sql"
	"fmt"

	"movfeed/models"

	sqlbuilder "github.com/huandu/go-sqlbuilder"
	log "github.com/sirupsen/logrus"
)

// Reader serves the visible posts of a table to the feed loader
type Reader struct {
	db     *sql.DB
	flavor sqlbuilder.Flavor
	table  string
}

func NewReader(db *sql.DB, driver string, table string) *Reader {
	return &Reader{
		db:     db,
		flavor: flavor(driver),
		table:  table,
	}
}

// QueryVisible returns every row with visible set, newest first
func (reader *Reader) QueryVisible(ctx context.Context) ([]models.RawPost, error) {
	sb := reader.flavor.NewSelectBuilder()
	sb.Select(postColumns...).From(reader.table)
	sb.Where(sb.Equal("visible", true))
	sb.OrderBy("date").Desc()

	query, args := sb.Build()
	log.WithFields(log.Fields{
		"sql":  query,
		"args": args,
	}).Debug("Querying visible posts")

	rows, err := reader.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	posts := []models.RawPost{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}

	return posts, nil
}

func scanPost(rows *sql.Rows) (models.RawPost, error) {
	var (
		title, description, image, embedCode, url sql.NullString
		postType, category, mediaSource, date     sql.NullString
		featured, pinned, visible                 sql.NullBool
	)

	err := rows.Scan(
		&title, &description, &image, &embedCode, &url,
		&postType, &category, &mediaSource, &date,
		&featured, &pinned, &visible,
	)
	if err != nil {
		return models.RawPost{}, err
	}

	return models.RawPost{
		Title:       nullString(title),
		Description: nullString(description),
		Image:       nullString(image),
		EmbedCode:   nullString(embedCode),
		Url:         nullString(url),
		Type:        nullString(postType),
		Category:    nullString(category),
		MediaSource: nullString(mediaSource),
		Date:        nullString(date),
		Featured:    nullBool(featured),
		Pinned:      nullBool(pinned),
		Visible:     nullBool(visible),
	}, nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func nullBool(b sql.NullBool) *bool {
	if !b.Valid {
		return nil
	}
	return &b.Bool
}
