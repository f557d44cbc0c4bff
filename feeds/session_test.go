package feeds_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"movfeed/feeds"
	"movfeed/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStart(t *testing.T) {
	source := &fakeSource{rows: []models.RawPost{
		raw("community meeting", "2025-01-12"),
	}}

	var rendered []feeds.Page
	session := feeds.NewSession(feeds.SessionConfig{
		Pinned:   originalSeeds(),
		Source:   source,
		PageSize: 9,
		Renderer: newRenderer(),
		OnRender: func(p feeds.Page) { rendered = append(rendered, p) },
		Now:      fixedNow,
	})

	assert.False(t, session.Ready())

	result, err := session.Start(context.Background())
	require.NoError(t, err)

	assert.Equal(t, feeds.LoadLoaded, result.Status)
	assert.True(t, session.Ready())
	require.Len(t, rendered, 1)
	assert.Equal(t, []string{"Follow me on Facebook", "Official movement page", "community meeting"}, cardTitles(rendered[0].Cards))
	assert.Equal(t, feeds.BadgePinned, rendered[0].Cards[0].Badge.Kind)

	// A second start does not query the store again
	_, err = session.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, source.calls)
}

func TestSessionDegradesToPinnedPosts(t *testing.T) {
	session := feeds.NewSession(feeds.SessionConfig{
		Pinned: originalSeeds(),
		Source: &fakeSource{err: errors.New("timeout")},
		Now:    fixedNow,
	})

	result, err := session.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, feeds.LoadFailed, result.Status)

	page := session.Page(1, 0)
	assert.Len(t, page.Cards, 2)
	assert.False(t, page.HasMore)
	assert.False(t, page.Empty)
	assert.Equal(t, feeds.DefaultPageSize, page.Size)
}

func TestSessionSplashDelayHonoursContext(t *testing.T) {
	source := &fakeSource{}
	session := feeds.NewSession(feeds.SessionConfig{
		Pinned:      originalSeeds(),
		Source:      source,
		SplashDelay: time.Hour,
		Now:         fixedNow,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := session.Start(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, session.Ready())
	assert.Zero(t, source.calls)
	// Seeds are in place before the splash screen ends
	assert.Equal(t, 2, session.Store.Len())
}

func TestSessionStartAfterCancel(t *testing.T) {
	source := &fakeSource{rows: []models.RawPost{raw("community meeting", "2025-01-12")}}
	session := feeds.NewSession(feeds.SessionConfig{
		Pinned:      originalSeeds(),
		Source:      source,
		SplashDelay: 50 * time.Millisecond,
		Now:         fixedNow,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := session.Start(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, session.Ready())

	result, err := session.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, feeds.LoadLoaded, result.Status)
	assert.True(t, session.Ready())
	assert.Equal(t, 1, source.calls)
	// Seeds are not inserted a second time
	assert.Equal(t, 3, session.Store.Len())
}

func TestSessionConcurrentStart(t *testing.T) {
	source := &fakeSource{rows: []models.RawPost{raw("community meeting", "2025-01-12")}}
	session := feeds.NewSession(feeds.SessionConfig{
		Source:      source,
		SplashDelay: 10 * time.Millisecond,
		Now:         fixedNow,
	})

	var wg sync.WaitGroup
	results := make([]feeds.LoadResult, 4)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := session.Start(context.Background())
			assert.NoError(t, err)
			results[i] = result
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, source.calls)
	for _, result := range results {
		assert.Equal(t, feeds.LoadLoaded, result.Status)
		assert.Equal(t, 1, result.Inserted)
	}
}

func TestSessionSeedsBeforeStart(t *testing.T) {
	session := feeds.NewSession(feeds.SessionConfig{
		Pinned: originalSeeds(),
		Now:    fixedNow,
	})

	// An admin pin before the session starts lands after the seeds
	session.Admin.AddPost(pinnedRaw("early pin", "2025-01-14"))

	assert.Equal(t, []string{"Follow me on Facebook", "Official movement page", "early pin"}, titles(session.Store.All()))
}

func TestSessionAdminTriggersRerender(t *testing.T) {
	var rendered []feeds.Page
	session := feeds.NewSession(feeds.SessionConfig{
		PageSize: 1,
		OnRender: func(p feeds.Page) { rendered = append(rendered, p) },
		Now:      fixedNow,
	})

	_, err := session.Start(context.Background())
	require.NoError(t, err)
	require.Len(t, rendered, 1)
	assert.True(t, rendered[0].Empty)

	session.Admin.AddPost(raw("first", "2025-01-01"))
	session.Admin.AddPost(raw("second", "2025-01-02"))

	require.Len(t, rendered, 3)
	last := rendered[2]
	assert.Equal(t, 1, last.Number)
	assert.Equal(t, []string{"second"}, cardTitles(last.Cards))
	assert.True(t, last.HasMore)
}

func TestSeedPinnedForcesPinned(t *testing.T) {
	n := feeds.NewNormalizer(fixedNow)
	store := feeds.NewStore()

	feeds.SeedPinned(store, n, []models.RawPost{raw("seed", "2025-01-01")})

	all := store.All()
	require.Len(t, all, 1)
	assert.True(t, all[0].Pinned)
}
