package feeds

import (
	"iter"
	"slices"
	"sync"

	"movfeed/models"

	"github.com/samber/lo"
)

// Store keeps every post of the session in insertion order, with pinned
// posts grouped at the front at insert time. Display order is not read from
// here directly, it is recomputed by VisibleSorted.
type Store struct {
	sync.RWMutex
	posts []models.Post
}

func NewStore() *Store {
	return &Store{posts: make([]models.Post, 0)}
}

// Insert places a pinned post at the end of the pinned block, right before
// the first unpinned post. Unpinned posts are appended.
func (s *Store) Insert(post models.Post) {
	s.Lock()
	defer s.Unlock()

	if post.Pinned {
		_, idx, found := lo.FindIndexOf(s.posts, func(p models.Post) bool { return !p.Pinned })
		if found {
			s.posts = slices.Insert(s.posts, idx, post)
			return
		}
	}
	s.posts = append(s.posts, post)
}

func (s *Store) Len() int {
	s.RLock()
	defer s.RUnlock()
	return len(s.posts)
}

// All returns a copy of the posts in store order
func (s *Store) All() []models.Post {
	s.RLock()
	defer s.RUnlock()
	return slices.Clone(s.posts)
}

func (s *Store) Find(id int64) (models.Post, bool) {
	s.RLock()
	defer s.RUnlock()
	return lo.Find(s.posts, func(p models.Post) bool { return p.Id == id })
}

// Remove deletes the post with the given id. Reports false if there is none.
func (s *Store) Remove(id int64) bool {
	s.Lock()
	defer s.Unlock()

	_, idx, found := lo.FindIndexOf(s.posts, func(p models.Post) bool { return p.Id == id })
	if !found {
		return false
	}
	s.posts = slices.Delete(s.posts, idx, idx+1)
	return true
}

// Update applies fn to the stored post in place and returns the result.
// The post keeps its position in the store.
func (s *Store) Update(id int64, fn func(post *models.Post)) (models.Post, bool) {
	s.Lock()
	defer s.Unlock()

	_, idx, found := lo.FindIndexOf(s.posts, func(p models.Post) bool { return p.Id == id })
	if !found {
		return models.Post{}, false
	}
	fn(&s.posts[idx])
	return s.posts[idx], true
}

// Visible returns a snapshot of the visible posts in display order: pinned
// before unpinned, newest date first within each group, store order on ties.
func (s *Store) Visible() []models.Post {
	s.RLock()
	visible := lo.Filter(s.posts, func(p models.Post, _ int) bool { return p.Visible })
	s.RUnlock()

	slices.SortStableFunc(visible, compareForDisplay)
	return visible
}

// VisibleSorted yields the visible posts in display order. Every range over
// the returned sequence takes a fresh snapshot, so it can be restarted and it
// never observes a half applied mutation.
func (s *Store) VisibleSorted() iter.Seq[models.Post] {
	return func(yield func(models.Post) bool) {
		for _, post := range s.Visible() {
			if !yield(post) {
				return
			}
		}
	}
}

func compareForDisplay(a, b models.Post) int {
	if a.Pinned != b.Pinned {
		if a.Pinned {
			return -1
		}
		return 1
	}
	return b.Date.Compare(a.Date)
}
