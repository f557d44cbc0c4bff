/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func RootApp() *cli.App {
	return &cli.App{
		Name:  "movfeed",
		Usage: "Serve the movement's social media feed",
		Description: `Merges a fixed set of pinned posts with the posts stored in a remote
		table, sorts them pinned first and newest first, and serves them as
		paginated card descriptors over HTTP.

		Posts are read once per session from a PostgREST endpoint (e.g. Supabase)
		or from an SQL database. Without a remote store only the pinned posts
		are shown.

		Flags can generally be set via environment variables, e.g.:

		--config => MOVFEED_CONFIG=config/feed.toml
		--port => MOVFEED_PORT=8080

		Variables are also read from the file named by MOVFEED_ENV_FILE
		(default .env) when it exists.
		`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"MOVFEED_LOG_LEVEL"},
				Value:   "info",
			},
			&cli.BoolFlag{
				Name:    "log-json",
				Usage:   "Log as JSON instead of text",
				EnvVars: []string{"MOVFEED_LOG_JSON"},
			},
		},
		Before: func(ctx *cli.Context) error {
			level, err := log.ParseLevel(ctx.String("log-level"))
			if err != nil {
				return err
			}
			log.SetLevel(level)
			if ctx.Bool("log-json") {
				log.SetFormatter(&log.JSONFormatter{})
			}
			return nil
		},
		Commands: []*cli.Command{
			serveCmd(),
			feedCmd(),
			postsCmd(),
			migrateCmd(),
			rollbackCmd(),
		},
		Action: func(ctx *cli.Context) error {
			// Show help if no command is specified
			return ctx.App.Run([]string{"", "help"})
		},
	}
}

// Execute loads the env file and runs the app with the process arguments
func Execute() error {
	if err := loadEnvFile(os.Getenv("MOVFEED_ENV_FILE")); err != nil {
		return err
	}
	return RootApp().Run(os.Args)
}

// loadEnvFile sets variables from a dotenv file without overriding the ones
// already in the environment. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
