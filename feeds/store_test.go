package feeds_test

import (
	"fmt"
	"math/rand"
	"slices"
	"testing"

	"movfeed/feeds"
	"movfeed/models"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreInsertPinnedBlock(t *testing.T) {
	n := feeds.NewNormalizer(fixedNow)
	store := feeds.NewStore()

	store.Insert(n.Normalize(pinnedRaw("pinned1", "2025-01-01")))
	store.Insert(n.Normalize(pinnedRaw("pinned2", "2025-01-02")))
	store.Insert(n.Normalize(raw("nonpinned", "2025-01-03")))
	assert.Equal(t, []string{"pinned1", "pinned2", "nonpinned"}, titles(store.All()))

	store.Insert(n.Normalize(pinnedRaw("pinned3", "2025-01-04")))
	assert.Equal(t, []string{"pinned1", "pinned2", "pinned3", "nonpinned"}, titles(store.All()))

	store.Insert(n.Normalize(raw("nonpinned2", "2025-01-05")))
	assert.Equal(t, []string{"pinned1", "pinned2", "pinned3", "nonpinned", "nonpinned2"}, titles(store.All()))
}

func TestStoreInsertPinnedIntoEmptyAndAllPinned(t *testing.T) {
	n := feeds.NewNormalizer(fixedNow)
	store := feeds.NewStore()

	store.Insert(n.Normalize(pinnedRaw("a", "2025-01-01")))
	store.Insert(n.Normalize(pinnedRaw("b", "2025-01-01")))

	assert.Equal(t, []string{"a", "b"}, titles(store.All()))
}

func TestStoreVisibleSortedOrdering(t *testing.T) {
	n := feeds.NewNormalizer(fixedNow)
	store := feeds.NewStore()

	store.Insert(n.Normalize(raw("old", "2024-12-01")))
	store.Insert(n.Normalize(pinnedRaw("pinned-old", "2024-01-01")))
	store.Insert(n.Normalize(raw("new", "2025-01-10")))
	store.Insert(n.Normalize(raw("same-day-first", "2025-01-05")))
	store.Insert(n.Normalize(raw("same-day-second", "2025-01-05")))
	store.Insert(n.Normalize(pinnedRaw("pinned-new", "2025-01-20")))

	hidden := raw("hidden", "2025-02-01")
	hidden.Visible = lo.ToPtr(false)
	store.Insert(n.Normalize(hidden))

	expected := []string{"pinned-new", "pinned-old", "new", "same-day-first", "same-day-second", "old"}
	assert.Equal(t, expected, titles(slices.Collect(store.VisibleSorted())))

	// Restartable and read only
	assert.Equal(t, expected, titles(slices.Collect(store.VisibleSorted())))
	assert.Equal(t, 7, store.Len())
}

func TestStoreVisibleSortedEarlyStop(t *testing.T) {
	n := feeds.NewNormalizer(fixedNow)
	store := feeds.NewStore()
	for i := 0; i < 5; i++ {
		store.Insert(n.Normalize(raw(fmt.Sprintf("post-%d", i), "2025-01-01")))
	}

	var taken []string
	for post := range store.VisibleSorted() {
		taken = append(taken, post.Title)
		if len(taken) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"post-0", "post-1"}, taken)
}

// Whatever the insertion sequence, pinned posts come first and dates never
// increase within a tier.
func TestStoreVisibleSortedProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 50; round++ {
		n := feeds.NewNormalizer(fixedNow)
		store := feeds.NewStore()

		count := rng.Intn(40)
		for i := 0; i < count; i++ {
			r := raw(fmt.Sprintf("post-%d", i), fmt.Sprintf("2025-%02d-%02d", rng.Intn(12)+1, rng.Intn(28)+1))
			r.Pinned = lo.ToPtr(rng.Intn(4) == 0)
			r.Visible = lo.ToPtr(rng.Intn(5) != 0)
			store.Insert(n.Normalize(r))
		}

		sorted := slices.Collect(store.VisibleSorted())
		seenUnpinned := false
		for i, post := range sorted {
			require.True(t, post.Visible)
			if !post.Pinned {
				seenUnpinned = true
			} else {
				require.False(t, seenUnpinned, "pinned post after unpinned in round %d", round)
			}
			if i > 0 && sorted[i-1].Pinned == post.Pinned {
				require.GreaterOrEqual(t, sorted[i-1].Date.Compare(post.Date), 0)
			}
		}
	}
}

func TestStoreFindRemoveUpdate(t *testing.T) {
	n := feeds.NewNormalizer(fixedNow)
	store := feeds.NewStore()

	first := n.Normalize(raw("first", "2025-01-01"))
	second := n.Normalize(raw("second", "2025-01-02"))
	store.Insert(first)
	store.Insert(second)

	found, ok := store.Find(second.Id)
	require.True(t, ok)
	assert.Equal(t, "second", found.Title)

	_, ok = store.Find(12345)
	assert.False(t, ok)

	updated, ok := store.Update(first.Id, func(p *models.Post) { p.Featured = true })
	require.True(t, ok)
	assert.True(t, updated.Featured)
	stored, _ := store.Find(first.Id)
	assert.True(t, stored.Featured)

	_, ok = store.Update(12345, func(p *models.Post) { p.Featured = true })
	assert.False(t, ok)

	assert.True(t, store.Remove(first.Id))
	assert.False(t, store.Remove(first.Id))
	assert.Equal(t, []string{"second"}, titles(store.All()))
}

func TestStoreAllReturnsCopy(t *testing.T) {
	n := feeds.NewNormalizer(fixedNow)
	store := feeds.NewStore()
	store.Insert(n.Normalize(raw("original", "2025-01-01")))

	all := store.All()
	all[0].Title = "changed"

	assert.Equal(t, []string{"original"}, titles(store.All()))
}
