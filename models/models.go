package models

import "strings"

// PostType is the social network a post links to
type PostType string

const (
	TypeFacebook  PostType = "facebook"
	TypeInstagram PostType = "instagram"
	TypeYouTube   PostType = "youtube"
	TypeTikTok    PostType = "tiktok"
	TypeTwitter   PostType = "twitter"
	TypeLink      PostType = "link"
)

var postTypes = []PostType{TypeFacebook, TypeInstagram, TypeYouTube, TypeTikTok, TypeTwitter, TypeLink}

// ParsePostType returns the PostType named by s. Unknown names report false.
func ParsePostType(s string) (PostType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range postTypes {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Category separates posts written by the movement from press coverage
type Category string

const (
	CategoryMovement Category = "movement"
	CategoryMedia    Category = "media"
)

// ParseCategory accepts the english names and the legacy spanish ones
// ("movimiento", "medios") still present in older rows.
func ParseCategory(s string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movement", "movimiento":
		return CategoryMovement, true
	case "media", "medios":
		return CategoryMedia, true
	}
	return "", false
}

// Post model with all fields populated. Only the normalizer creates these.
type Post struct {
	Id          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Image       string   `json:"image,omitempty"`
	EmbedCode   string   `json:"embedCode,omitempty"`
	Url         string   `json:"url"`
	Type        PostType `json:"type"`
	Category    Category `json:"category"`
	MediaSource string   `json:"mediaSource,omitempty"`
	Date        Date     `json:"date"`
	Featured    bool     `json:"featured"`
	Pinned      bool     `json:"pinned"`
	Visible     bool     `json:"visible"`
}

// RawPost is a loosely typed post as it arrives from the remote store, the
// config file or the admin API. Any field may be missing.
type RawPost struct {
	Title       *string `json:"title,omitempty" toml:"title"`
	Description *string `json:"description,omitempty" toml:"description"`
	Image       *string `json:"image,omitempty" toml:"image"`
	EmbedCode   *string `json:"embedCode,omitempty" toml:"embed_code"`
	Url         *string `json:"url,omitempty" toml:"url"`
	Type        *string `json:"type,omitempty" toml:"type"`
	Category    *string `json:"category,omitempty" toml:"category"`
	MediaSource *string `json:"mediaSource,omitempty" toml:"media_source"`
	Date        *string `json:"date,omitempty" toml:"date"`
	Featured    *bool   `json:"featured,omitempty" toml:"featured"`
	Pinned      *bool   `json:"pinned,omitempty" toml:"pinned"`
	Visible     *bool   `json:"visible,omitempty" toml:"visible"`
}
