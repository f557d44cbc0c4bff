package feeds

import (
	"context"

	log "github.com/sirupsen/logrus"
)

type LoadStatus string

const (
	// No remote store configured, only local posts are shown
	LoadUnconfigured LoadStatus = "unconfigured"
	LoadFailed       LoadStatus = "failed"
	// The store answered with zero rows. Not an error.
	LoadEmpty  LoadStatus = "empty"
	LoadLoaded LoadStatus = "loaded"
)

type LoadResult struct {
	Status   LoadStatus
	Inserted int
	Err      error
}

// Loader copies the remote posts into a store once per session
type Loader struct {
	normalizer *Normalizer
}

func NewLoader(normalizer *Normalizer) *Loader {
	return &Loader{normalizer: normalizer}
}

// Load queries the source and inserts every returned row. Failures are
// logged and reported in the result, never returned: posts already in the
// store (the pinned seeds) stay as they are and the feed degrades to them.
func (l *Loader) Load(ctx context.Context, store *Store, source Source) LoadResult {
	result := l.load(ctx, store, source)
	remoteLoads.WithLabelValues(string(result.Status)).Inc()
	remotePostsLoaded.Add(float64(result.Inserted))
	return result
}

func (l *Loader) load(ctx context.Context, store *Store, source Source) LoadResult {
	if source == nil {
		log.Warn("Remote post store is not configured, serving local posts only")
		return LoadResult{Status: LoadUnconfigured}
	}

	log.Info("Loading posts from remote store")

	rows, err := source.QueryVisible(ctx)
	if err != nil {
		log.WithFields(log.Fields{
			"error": err,
		}).Error("Error loading posts from remote store")
		return LoadResult{Status: LoadFailed, Err: err}
	}

	if len(rows) == 0 {
		log.Info("Remote store has no posts yet")
		return LoadResult{Status: LoadEmpty}
	}

	for _, row := range rows {
		store.Insert(l.normalizer.Normalize(row))
	}

	log.WithFields(log.Fields{
		"count": len(rows),
		"total": store.Len(),
	}).Info("Loaded posts from remote store")

	return LoadResult{Status: LoadLoaded, Inserted: len(rows)}
}
