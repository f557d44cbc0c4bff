/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"movfeed/server"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the feed over HTTP",
		Description: `Starts the feed HTTP server.

Seeds the pinned posts, waits for the splash delay, loads the remote posts
once and serves paginated cards under /api/feed. Administrative changes made
through /api/posts are pushed to clients listening on /api/feed/events.`,
		Flags: append(configFlags(),
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on, overrides the config file",
				EnvVars: []string{"MOVFEED_PORT"},
			},
			&cli.StringFlag{
				Name:    "cors-origins",
				Usage:   "Comma separated allowed origins, overrides the config file",
				EnvVars: []string{"MOVFEED_CORS_ORIGINS"},
			},
		),
		Action: func(ctx *cli.Context) error {
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}

			port := cfg.Server.Port
			if ctx.IsSet("port") {
				port = ctx.Int("port")
			}
			corsOrigins := cfg.Server.CorsOrigins
			if ctx.IsSet("cors-origins") {
				corsOrigins = ctx.String("cors-origins")
			}

			source, closeSource, err := newSource(cfg.Remote)
			if err != nil {
				return err
			}
			defer closeSource()

			bc := server.NewBroadcaster()
			session := newSession(cfg, source, bc.Broadcast)

			app := server.Server(&server.ServerConfig{
				Session:     session,
				Broadcaster: bc,
				CorsOrigins: corsOrigins,
			})

			// Graceful shutdown
			sigCtx, stop := signal.NotifyContext(ctx.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			go func() {
				if _, err := session.Start(sigCtx); err != nil && sigCtx.Err() == nil {
					log.WithFields(log.Fields{"error": err}).Error("Feed session failed to start")
				}
			}()

			listenErr := make(chan error, 1)
			go func() {
				log.WithFields(log.Fields{"port": port}).Info("Starting server")
				listenErr <- app.Listen(fmt.Sprintf(":%d", port))
			}()

			select {
			case err := <-listenErr:
				bc.Shutdown()
				return err
			case <-sigCtx.Done():
			}

			log.Info("Gracefully shutting down")
			bc.Shutdown()
			if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
				return err
			}

			log.Info("Done")
			return nil
		},
	}
}

