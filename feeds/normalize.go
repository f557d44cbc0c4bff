package feeds

import (
	"strings"
	"sync"
	"time"

	"movfeed/models"

	"github.com/samber/lo"
)

const (
	DefaultTitle = "Untitled"
	DefaultUrl   = "#"
)

// typeHints maps URL substrings to a social network. Order matters: the
// first network with a matching hint wins.
var typeHints = []struct {
	Type  models.PostType
	Hints []string
}{
	{models.TypeFacebook, []string{"facebook.com", "fb.com"}},
	{models.TypeInstagram, []string{"instagram.com"}},
	{models.TypeYouTube, []string{"youtube.com", "youtu.be"}},
	{models.TypeTikTok, []string{"tiktok.com"}},
	{models.TypeTwitter, []string{"twitter.com", "x.com"}},
}

// DetectType infers the social network of a post from its URL
func DetectType(url string) models.PostType {
	url = strings.ToLower(url)
	if url == "" {
		return models.TypeLink
	}

	for _, candidate := range typeHints {
		if lo.ContainsBy(candidate.Hints, func(hint string) bool {
			return strings.Contains(url, hint)
		}) {
			return candidate.Type
		}
	}
	return models.TypeLink
}

// Normalizer turns raw posts into fully populated ones. It never fails,
// missing or invalid fields fall back to their defaults.
type Normalizer struct {
	now func() time.Time

	mu     sync.Mutex
	lastId int64
}

func NewNormalizer(now func() time.Time) *Normalizer {
	if now == nil {
		now = time.Now
	}
	return &Normalizer{now: now}
}

func (n *Normalizer) Normalize(raw models.RawPost) models.Post {
	url, _ := lo.Coalesce(lo.FromPtr(raw.Url), DefaultUrl)
	title, _ := lo.Coalesce(lo.FromPtr(raw.Title), DefaultTitle)

	postType, ok := models.ParsePostType(lo.FromPtr(raw.Type))
	if !ok {
		postType = DetectType(lo.FromPtr(raw.Url))
	}

	category, ok := models.ParseCategory(lo.FromPtr(raw.Category))
	if !ok {
		category = models.CategoryMovement
	}

	date, err := models.ParseDate(lo.FromPtr(raw.Date))
	if err != nil {
		date = models.Today(n.now())
	}

	return models.Post{
		Id:          n.nextId(),
		Title:       title,
		Description: lo.FromPtr(raw.Description),
		Image:       lo.FromPtr(raw.Image),
		EmbedCode:   lo.FromPtr(raw.EmbedCode),
		Url:         url,
		Type:        postType,
		Category:    category,
		MediaSource: lo.FromPtr(raw.MediaSource),
		Date:        date,
		Featured:    lo.FromPtr(raw.Featured),
		Pinned:      lo.FromPtr(raw.Pinned),
		Visible:     lo.FromPtrOr(raw.Visible, true),
	}
}

// nextId hands out creation timestamps in milliseconds. Posts created within
// the same millisecond get the next free number so ids stay unique and
// increasing for the lifetime of the process.
func (n *Normalizer) nextId() int64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.now().UnixMilli()
	if id <= n.lastId {
		id = n.lastId + 1
	}
	n.lastId = id
	return id
}
