package feeds

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"movfeed/models"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

type SessionConfig struct {
	// Posts always shown first. They are inserted pinned.
	Pinned []models.RawPost

	// Remote store, nil when none is configured
	Source Source

	// Delay at the start of Start before the remote store is loaded
	SplashDelay time.Duration

	PageSize int
	Renderer *Renderer

	// Called with a fresh first page after the initial load and after every
	// administrative change
	OnRender func(Page)

	Now func() time.Time
}

// Session is one lifetime of the feed. The pinned posts are seeded when it
// is created, Start then waits for the splash delay, loads the remote store
// once and renders.
type Session struct {
	Store *Store
	Admin *Admin

	normalizer *Normalizer
	loader     *Loader
	renderer   *Renderer
	source     Source
	splash     time.Duration
	pageSize   int
	onRender   func(Page)

	// Serializes Start and guards result
	mu     sync.Mutex
	ready  atomic.Bool
	result LoadResult
}

func NewSession(config SessionConfig) *Session {
	normalizer := NewNormalizer(config.Now)
	store := NewStore()

	s := &Session{
		Store:      store,
		normalizer: normalizer,
		loader:     NewLoader(normalizer),
		renderer:   config.Renderer,
		source:     config.Source,
		splash:     config.SplashDelay,
		pageSize:   config.PageSize,
		onRender:   config.OnRender,
	}

	if s.renderer == nil {
		s.renderer = NewRenderer(RendererConfig{AnimationStep: DefaultAnimationStep})
	}
	if s.pageSize < 1 {
		s.pageSize = DefaultPageSize
	}

	s.Admin = NewAdmin(store, normalizer, s.Rerender)
	SeedPinned(store, normalizer, config.Pinned)
	return s
}

// Start runs the bootstrap sequence. It blocks for the splash delay and the
// remote query. Only a cancelled context stops it early, in which case Start
// may be called again. Remote failures are reported in the returned result.
// Once the session is ready further calls return the first result without
// querying the store again.
func (s *Session) Start(ctx context.Context) (LoadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready.Load() {
		log.Warn("Session already started, skipping remote load")
		return s.result, nil
	}

	if s.splash > 0 {
		timer := time.NewTimer(s.splash)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return LoadResult{}, ctx.Err()
		case <-timer.C:
		}
	}

	s.result = s.loader.Load(ctx, s.Store, s.source)
	s.ready.Store(true)

	log.WithFields(log.Fields{
		"status":   s.result.Status,
		"inserted": s.result.Inserted,
		"visible":  len(s.Store.Visible()),
	}).Info("Feed session ready")

	s.Rerender()
	return s.result, nil
}

// Ready reports whether the remote load has finished
func (s *Session) Ready() bool {
	return s.ready.Load()
}

func (s *Session) Page(n int, size int) Page {
	if size < 1 {
		size = s.pageSize
	}
	return s.renderer.Page(s.Store, n, size)
}

func (s *Session) PageSize() int {
	return s.pageSize
}

// Rerender renders the first page and hands it to the OnRender hook
func (s *Session) Rerender() {
	if s.onRender == nil {
		return
	}
	s.onRender(s.Page(1, s.pageSize))
}

// SeedPinned inserts the configured pinned posts. A seed is pinned whatever
// its own pinned field says.
func SeedPinned(store *Store, normalizer *Normalizer, seeds []models.RawPost) {
	for _, seed := range seeds {
		seed.Pinned = lo.ToPtr(true)
		store.Insert(normalizer.Normalize(seed))
	}

	log.WithFields(log.Fields{
		"count": len(seeds),
	}).Info("Seeded pinned posts")
}
