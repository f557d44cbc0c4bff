package config

import (
	"fmt"
	"os"
	"time"

	"movfeed/feeds"
	"movfeed/models"

	"github.com/BurntSushi/toml"
	"github.com/samber/lo"
)

const (
	RemoteNone = ""
	RemoteRest = "rest"
	RemoteSQL  = "sql"
)

// TomlFeed holds the presentation settings of the feed
type TomlFeed struct {
	PageSize      int           `toml:"page_size"`
	SplashDelay   time.Duration `toml:"splash_delay"`
	AnimationStep time.Duration `toml:"animation_step"`
	DateLayout    string        `toml:"date_layout"`
}

// TomlLabels are the user facing strings of the rendered cards
type TomlLabels struct {
	Pinned      string `toml:"pinned"`
	Featured    string `toml:"featured"`
	Coverage    string `toml:"coverage"`
	ViewPost    string `toml:"view_post"`
	ViewPage    string `toml:"view_page"`
	ViewCapture string `toml:"view_capture"`
}

// TomlRemote describes where the session loads posts from.
// Kind is "rest" for a PostgREST endpoint, "sql" for a database, or empty.
// Timeout only applies to the REST store and is off when zero.
type TomlRemote struct {
	Kind    string        `toml:"kind"`
	Url     string        `toml:"url"`
	Key     string        `toml:"key"`
	Table   string        `toml:"table"`
	Driver  string        `toml:"driver"`
	Dsn     string        `toml:"dsn"`
	Timeout time.Duration `toml:"timeout"`
}

type TomlServer struct {
	Port        int    `toml:"port"`
	CorsOrigins string `toml:"cors_origins"`
}

// TomlConfig represents the top-level configuration
type TomlConfig struct {
	Feed   TomlFeed         `toml:"feed"`
	Labels TomlLabels       `toml:"labels"`
	Remote TomlRemote       `toml:"remote"`
	Server TomlServer       `toml:"server"`
	Pinned []models.RawPost `toml:"pinned"`
}

// Default returns the configuration used when no file is given
func Default() *TomlConfig {
	labels := feeds.DefaultLabels()
	return &TomlConfig{
		Feed: TomlFeed{
			PageSize:      feeds.DefaultPageSize,
			SplashDelay:   2500 * time.Millisecond,
			AnimationStep: feeds.DefaultAnimationStep,
			DateLayout:    feeds.DefaultDateLayout,
		},
		Labels: TomlLabels{
			Pinned:      labels.Pinned,
			Featured:    labels.Featured,
			Coverage:    labels.Coverage,
			ViewPost:    labels.ViewPost,
			ViewPage:    labels.ViewPage,
			ViewCapture: labels.ViewCapture,
		},
		Remote: TomlRemote{
			Table: "posts",
		},
		Server: TomlServer{
			Port:        3000,
			CorsOrigins: "*",
		},
		Pinned: DefaultPinned(),
	}
}

// DefaultPinned returns the two posts that open the feed
func DefaultPinned() []models.RawPost {
	return []models.RawPost{
		{
			Title:       lo.ToPtr("Follow me on Facebook"),
			Description: lo.ToPtr("Stay up to date with my activities, proposals and community work."),
			Image:       lo.ToPtr("https://diariodechiapas.com/wp-content/uploads/2024/02/DIME_12A-1-1.jpg"),
			Url:         lo.ToPtr("https://www.facebook.com/AlexanderJovaniSalazar"),
			Type:        lo.ToPtr(string(models.TypeFacebook)),
			Category:    lo.ToPtr(string(models.CategoryMovement)),
			Featured:    lo.ToPtr(true),
			Pinned:      lo.ToPtr(true),
		},
		{
			Title:       lo.ToPtr("Official movement page"),
			Description: lo.ToPtr("Join the movement and follow our official page."),
			Image:       lo.ToPtr("https://edudevsys.github.io/lamejoropcionparatuxtla/assets/images/logoM4T.jpg"),
			Url:         lo.ToPtr("https://www.facebook.com/profile.php?id=100088311252002"),
			Type:        lo.ToPtr(string(models.TypeFacebook)),
			Category:    lo.ToPtr(string(models.CategoryMovement)),
			Featured:    lo.ToPtr(true),
			Pinned:      lo.ToPtr(true),
		},
	}
}

// LoadConfig reads a TOML file. Keys missing from the file keep their
// defaults, an explicit empty pinned list disables the seeded posts.
func LoadConfig(path string) (*TomlConfig, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config TomlConfig
	md, err := toml.Decode(string(data), &config)
	if err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	config.applyDefaults(md)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *TomlConfig) applyDefaults(md toml.MetaData) {
	d := Default()

	if c.Feed.PageSize < 1 {
		c.Feed.PageSize = d.Feed.PageSize
	}
	if !md.IsDefined("feed", "splash_delay") {
		c.Feed.SplashDelay = d.Feed.SplashDelay
	}
	if !md.IsDefined("feed", "animation_step") {
		c.Feed.AnimationStep = d.Feed.AnimationStep
	}
	c.Feed.DateLayout = lo.CoalesceOrEmpty(c.Feed.DateLayout, d.Feed.DateLayout)

	c.Labels.Pinned = lo.CoalesceOrEmpty(c.Labels.Pinned, d.Labels.Pinned)
	c.Labels.Featured = lo.CoalesceOrEmpty(c.Labels.Featured, d.Labels.Featured)
	c.Labels.Coverage = lo.CoalesceOrEmpty(c.Labels.Coverage, d.Labels.Coverage)
	c.Labels.ViewPost = lo.CoalesceOrEmpty(c.Labels.ViewPost, d.Labels.ViewPost)
	c.Labels.ViewPage = lo.CoalesceOrEmpty(c.Labels.ViewPage, d.Labels.ViewPage)
	c.Labels.ViewCapture = lo.CoalesceOrEmpty(c.Labels.ViewCapture, d.Labels.ViewCapture)

	c.Remote.Table = lo.CoalesceOrEmpty(c.Remote.Table, d.Remote.Table)

	if c.Server.Port == 0 {
		c.Server.Port = d.Server.Port
	}
	c.Server.CorsOrigins = lo.CoalesceOrEmpty(c.Server.CorsOrigins, d.Server.CorsOrigins)

	if !md.IsDefined("pinned") {
		c.Pinned = d.Pinned
	}
}

// Validate checks the remote settings, the only part that cannot fall back
// to a default
func (c *TomlConfig) Validate() error {
	switch c.Remote.Kind {
	case RemoteNone:
	case RemoteRest:
		if c.Remote.Url == "" {
			return fmt.Errorf("remote kind %q requires a url", c.Remote.Kind)
		}
	case RemoteSQL:
		if c.Remote.Driver != "sqlite" && c.Remote.Driver != "postgres" {
			return fmt.Errorf("unsupported remote driver %q", c.Remote.Driver)
		}
		if c.Remote.Dsn == "" {
			return fmt.Errorf("remote kind %q requires a dsn", c.Remote.Kind)
		}
	default:
		return fmt.Errorf("unknown remote kind %q", c.Remote.Kind)
	}

	if c.Feed.SplashDelay < 0 || c.Feed.AnimationStep < 0 || c.Remote.Timeout < 0 {
		return fmt.Errorf("durations must not be negative")
	}

	return nil
}

func (c *TomlConfig) RendererConfig() feeds.RendererConfig {
	return feeds.RendererConfig{
		Labels: feeds.Labels{
			Pinned:      c.Labels.Pinned,
			Featured:    c.Labels.Featured,
			Coverage:    c.Labels.Coverage,
			ViewPost:    c.Labels.ViewPost,
			ViewPage:    c.Labels.ViewPage,
			ViewCapture: c.Labels.ViewCapture,
		},
		DateLayout:    c.Feed.DateLayout,
		AnimationStep: c.Feed.AnimationStep,
	}
}
