package feeds_test

import (
	"context"
	"time"

	"movfeed/feeds"
	"movfeed/models"

	"github.com/samber/lo"
)

// fixedNow is a clock frozen at 2025-01-15 10:00 in Chiapas time
func fixedNow() time.Time {
	return time.Date(2025, time.January, 15, 10, 0, 0, 0, time.FixedZone("CST", -6*60*60))
}

type fakeSource struct {
	rows  []models.RawPost
	err   error
	calls int
}

func (f *fakeSource) QueryVisible(ctx context.Context) ([]models.RawPost, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func raw(title string, date string) models.RawPost {
	return models.RawPost{
		Title: lo.ToPtr(title),
		Date:  lo.ToPtr(date),
	}
}

func pinnedRaw(title string, date string) models.RawPost {
	r := raw(title, date)
	r.Pinned = lo.ToPtr(true)
	return r
}

func titles(posts []models.Post) []string {
	return lo.Map(posts, func(p models.Post, _ int) string { return p.Title })
}

func cardTitles(cards []feeds.Card) []string {
	return lo.Map(cards, func(c feeds.Card, _ int) string { return c.Title })
}

// originalSeeds mirrors the two pinned posts of the landing page
func originalSeeds() []models.RawPost {
	return []models.RawPost{
		{
			Title:    lo.ToPtr("Follow me on Facebook"),
			Url:      lo.ToPtr("https://www.facebook.com/AlexanderJovaniSalazar"),
			Featured: lo.ToPtr(true),
		},
		{
			Title:    lo.ToPtr("Official movement page"),
			Url:      lo.ToPtr("https://www.facebook.com/profile.php?id=100088311252002"),
			Featured: lo.ToPtr(true),
		},
	}
}
