package feeds

import (
	"errors"

	"movfeed/models"

	log "github.com/sirupsen/logrus"
)

var ErrPostNotFound = errors.New("post not found")

// Admin edits the feed in memory. Every operation takes effect immediately
// and is followed by a re-render of the first page through onChange.
type Admin struct {
	store      *Store
	normalizer *Normalizer
	onChange   func()
}

func NewAdmin(store *Store, normalizer *Normalizer, onChange func()) *Admin {
	if onChange == nil {
		onChange = func() {}
	}
	return &Admin{
		store:      store,
		normalizer: normalizer,
		onChange:   onChange,
	}
}

// AddPost normalizes raw and inserts it. Pinned posts land at the end of the
// pinned block.
func (a *Admin) AddPost(raw models.RawPost) models.Post {
	post := a.normalizer.Normalize(raw)
	a.store.Insert(post)

	log.WithFields(log.Fields{
		"id":     post.Id,
		"title":  post.Title,
		"pinned": post.Pinned,
	}).Info("Post added")
	adminOperations.WithLabelValues("add", "ok").Inc()

	a.onChange()
	return post
}

// ListPosts returns every post, hidden ones included, in store order
func (a *Admin) ListPosts() []models.Post {
	return a.store.All()
}

func (a *Admin) DeletePost(id int64) error {
	if !a.store.Remove(id) {
		return a.notFound("delete", id)
	}

	log.WithFields(log.Fields{"id": id}).Info("Post deleted")
	adminOperations.WithLabelValues("delete", "ok").Inc()

	a.onChange()
	return nil
}

func (a *Admin) ToggleFeatured(id int64) (models.Post, error) {
	post, ok := a.store.Update(id, func(p *models.Post) { p.Featured = !p.Featured })
	if !ok {
		return models.Post{}, a.notFound("toggle_featured", id)
	}

	log.WithFields(log.Fields{"id": id, "featured": post.Featured}).Info("Post featured flag toggled")
	adminOperations.WithLabelValues("toggle_featured", "ok").Inc()

	a.onChange()
	return post, nil
}

// TogglePinned flips the pinned flag without moving the post in the store,
// display order picks the change up on the next sort.
func (a *Admin) TogglePinned(id int64) (models.Post, error) {
	post, ok := a.store.Update(id, func(p *models.Post) { p.Pinned = !p.Pinned })
	if !ok {
		return models.Post{}, a.notFound("toggle_pinned", id)
	}

	log.WithFields(log.Fields{"id": id, "pinned": post.Pinned}).Info("Post pinned flag toggled")
	adminOperations.WithLabelValues("toggle_pinned", "ok").Inc()

	a.onChange()
	return post, nil
}

func (a *Admin) notFound(operation string, id int64) error {
	log.WithFields(log.Fields{
		"operation": operation,
		"id":        id,
	}).Warn("Post not found")
	adminOperations.WithLabelValues(operation, "not_found").Inc()
	return ErrPostNotFound
}
