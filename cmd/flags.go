/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"movfeed/config"
	"movfeed/db"
	"movfeed/feeds"
	"movfeed/rest"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func configFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the feed configuration file, built-in defaults when empty",
			EnvVars: []string{"MOVFEED_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "remote-kind",
			Usage:   "Remote post store: rest or sql",
			EnvVars: []string{"MOVFEED_REMOTE_KIND"},
		},
		&cli.StringFlag{
			Name:    "remote-url",
			Usage:   "Base URL of the PostgREST endpoint",
			EnvVars: []string{"MOVFEED_REMOTE_URL"},
		},
		&cli.StringFlag{
			Name:    "remote-key",
			Usage:   "API key for the PostgREST endpoint",
			EnvVars: []string{"MOVFEED_REMOTE_KEY"},
		},
		&cli.StringFlag{
			Name:    "remote-table",
			Usage:   "Table holding the posts",
			EnvVars: []string{"MOVFEED_REMOTE_TABLE"},
		},
		&cli.StringFlag{
			Name:    "db-driver",
			Usage:   "SQL driver: sqlite or postgres",
			EnvVars: []string{"MOVFEED_DB_DRIVER"},
		},
		&cli.StringFlag{
			Name:    "db-dsn",
			Usage:   "SQLite file path or PostgreSQL connection string",
			EnvVars: []string{"MOVFEED_DB_DSN"},
		},
	}
}

// loadConfig reads the config file and applies the remote settings given as
// flags or environment variables on top of it
func loadConfig(ctx *cli.Context) (*config.TomlConfig, error) {
	cfg, err := config.LoadConfig(ctx.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	remote := &cfg.Remote
	if ctx.IsSet("remote-kind") {
		remote.Kind = ctx.String("remote-kind")
	}
	if ctx.IsSet("remote-url") {
		remote.Url = ctx.String("remote-url")
	}
	if ctx.IsSet("remote-key") {
		remote.Key = ctx.String("remote-key")
	}
	if ctx.IsSet("remote-table") {
		remote.Table = ctx.String("remote-table")
	}
	if ctx.IsSet("db-driver") {
		remote.Driver = ctx.String("db-driver")
	}
	if ctx.IsSet("db-dsn") {
		remote.Dsn = ctx.String("db-dsn")
	}

	// A URL alone is enough to pick the REST store
	if remote.Kind == config.RemoteNone && remote.Url != "" {
		remote.Kind = config.RemoteRest
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// newSource builds the configured remote store. The returned close function
// is never nil.
func newSource(remote config.TomlRemote) (feeds.Source, func() error, error) {
	noop := func() error { return nil }

	switch remote.Kind {
	case config.RemoteRest:
		log.WithFields(log.Fields{
			"url":   remote.Url,
			"table": remote.Table,
		}).Info("Using PostgREST post store")
		return rest.NewClient(remote.Url, remote.Key, remote.Table, remote.Timeout), noop, nil

	case config.RemoteSQL:
		conn, err := db.Open(remote.Driver, remote.Dsn)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open post database: %w", err)
		}
		log.WithFields(log.Fields{
			"driver": remote.Driver,
			"table":  remote.Table,
		}).Info("Using SQL post store")
		return db.NewReader(conn, remote.Driver, remote.Table), conn.Close, nil
	}

	return nil, noop, nil
}

func newSession(cfg *config.TomlConfig, source feeds.Source, onRender func(feeds.Page)) *feeds.Session {
	return feeds.NewSession(feeds.SessionConfig{
		Pinned:      cfg.Pinned,
		Source:      source,
		SplashDelay: cfg.Feed.SplashDelay,
		PageSize:    cfg.Feed.PageSize,
		Renderer:    feeds.NewRenderer(cfg.RendererConfig()),
		OnRender:    onRender,
	})
}
