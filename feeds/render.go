package feeds

import (
	"strings"
	"time"

	"movfeed/models"
)

const (
	DefaultPageSize      = 9
	DefaultAnimationStep = 100 * time.Millisecond
	DefaultDateLayout    = "January 2, 2006"
)

type BadgeKind string

const (
	BadgePinned   BadgeKind = "pinned"
	BadgeFeatured BadgeKind = "featured"
	BadgeMedia    BadgeKind = "media"
)

type MediaKind string

const (
	MediaEmbed MediaKind = "embed"
	MediaImage MediaKind = "image"
)

type ActionKind string

const (
	// Plain hyperlink to the post
	ActionLink ActionKind = "link"
	// Opens the image in an overlay instead of navigating away
	ActionCapture ActionKind = "capture"
)

type Badge struct {
	Kind  BadgeKind `json:"kind"`
	Label string    `json:"label"`
}

type Media struct {
	Kind  MediaKind `json:"kind"`
	Embed string    `json:"embed,omitempty"`
	Src   string    `json:"src,omitempty"`
	Alt   string    `json:"alt,omitempty"`
}

type Action struct {
	Kind   ActionKind `json:"kind"`
	Label  string     `json:"label"`
	Target string     `json:"target"`
}

// Card is everything the presentation layer needs to draw one post
type Card struct {
	Id               int64           `json:"id"`
	Title            string          `json:"title"`
	Description      string          `json:"description,omitempty"`
	Date             models.Date     `json:"date"`
	DisplayDate      string          `json:"displayDate"`
	Type             models.PostType `json:"type"`
	Icon             string          `json:"icon"`
	SocialLabel      string          `json:"socialLabel"`
	Badge            *Badge          `json:"badge,omitempty"`
	Media            *Media          `json:"media,omitempty"`
	Action           Action          `json:"action"`
	Link             string          `json:"link,omitempty"`
	AnimationDelayMs int64           `json:"animationDelayMs"`
}

// Labels are the user facing strings put on cards
type Labels struct {
	Pinned      string
	Featured    string
	Coverage    string
	ViewPost    string
	ViewPage    string
	ViewCapture string
}

func DefaultLabels() Labels {
	return Labels{
		Pinned:      "Pinned",
		Featured:    "Featured",
		Coverage:    "Coverage",
		ViewPost:    "View post",
		ViewPage:    "View page",
		ViewCapture: "View full capture",
	}
}

type RendererConfig struct {
	Labels        Labels
	DateLayout    string
	AnimationStep time.Duration
}

// Renderer maps posts to cards. It holds no state besides its config.
type Renderer struct {
	labels        Labels
	dateLayout    string
	animationStep time.Duration
}

func NewRenderer(config RendererConfig) *Renderer {
	r := &Renderer{
		labels:        config.Labels,
		dateLayout:    config.DateLayout,
		animationStep: config.AnimationStep,
	}
	if r.labels == (Labels{}) {
		r.labels = DefaultLabels()
	}
	if r.dateLayout == "" {
		r.dateLayout = DefaultDateLayout
	}
	if r.animationStep < 0 {
		r.animationStep = 0
	}
	return r
}

// Card builds the card of a post. index is the absolute position of the
// card in the feed and only drives the entrance animation delay.
func (r *Renderer) Card(post models.Post, index int) Card {
	card := Card{
		Id:               post.Id,
		Title:            post.Title,
		Description:      post.Description,
		Date:             post.Date,
		DisplayDate:      post.Date.Format(r.dateLayout),
		Type:             post.Type,
		Icon:             string(post.Type),
		SocialLabel:      r.socialLabel(post),
		Badge:            r.badge(post),
		Media:            media(post),
		Action:           r.action(post),
		AnimationDelayMs: int64(index) * r.animationStep.Milliseconds(),
	}

	// Embedded players handle their own clicks
	if post.EmbedCode == "" {
		card.Link = post.Url
	}

	return card
}

// badge picks the first match of pinned, featured, media source
func (r *Renderer) badge(post models.Post) *Badge {
	switch {
	case post.Pinned:
		return &Badge{Kind: BadgePinned, Label: r.labels.Pinned}
	case post.Featured:
		return &Badge{Kind: BadgeFeatured, Label: r.labels.Featured}
	case post.Category == models.CategoryMedia && post.MediaSource != "":
		return &Badge{Kind: BadgeMedia, Label: post.MediaSource}
	}
	return nil
}

func media(post models.Post) *Media {
	switch {
	case post.EmbedCode != "":
		return &Media{Kind: MediaEmbed, Embed: post.EmbedCode}
	case post.Image != "":
		return &Media{Kind: MediaImage, Src: post.Image, Alt: post.Title}
	}
	return nil
}

func (r *Renderer) action(post models.Post) Action {
	if post.Category == models.CategoryMedia {
		if post.Image != "" {
			return Action{Kind: ActionCapture, Label: r.labels.ViewCapture, Target: post.Image}
		}
		return Action{Kind: ActionLink, Label: r.labels.ViewPage, Target: post.Url}
	}
	return Action{Kind: ActionLink, Label: r.labels.ViewPost, Target: post.Url}
}

func (r *Renderer) socialLabel(post models.Post) string {
	if post.Category == models.CategoryMedia {
		return r.labels.Coverage
	}
	return capitalizeFirst(string(post.Type))
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
