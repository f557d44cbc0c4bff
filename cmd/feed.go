/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func feedCmd() *cli.Command {
	return &cli.Command{
		Name:  "feed",
		Usage: "Print a page of the feed to the command line",
		Description: `Runs one feed session and prints the cards of the requested page.

Returns each card as a JSON object on a single line. Use a tool like jq to
process the output.

Prints all other log messages to stderr.`,
		Flags: append(configFlags(),
			&cli.IntFlag{
				Name:  "page",
				Usage: "Page to print, starting at 1",
				Value: 1,
			},
			&cli.IntFlag{
				Name:  "size",
				Usage: "Cards per page, the configured page size when 0",
			},
			&cli.BoolFlag{
				Name:  "splash",
				Usage: "Wait for the configured splash delay before loading",
			},
		),
		Action: func(ctx *cli.Context) error {
			// Keep stdout for the cards
			log.SetOutput(os.Stderr)

			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}
			if !ctx.Bool("splash") {
				cfg.Feed.SplashDelay = 0
			}

			source, closeSource, err := newSource(cfg.Remote)
			if err != nil {
				return err
			}
			defer closeSource()

			session := newSession(cfg, source, nil)
			if _, err := session.Start(ctx.Context); err != nil {
				return err
			}

			page := session.Page(ctx.Int("page"), ctx.Int("size"))
			for _, card := range page.Cards {
				cardJson, err := json.Marshal(card)
				if err != nil {
					return fmt.Errorf("error marshalling card %d: %w", card.Id, err)
				}
				fmt.Fprintln(ctx.App.Writer, string(cardJson))
			}

			log.WithFields(log.Fields{
				"page":    page.Number,
				"total":   page.Total,
				"hasMore": page.HasMore,
				"empty":   page.Empty,
			}).Info("Printed feed page")

			return nil
		},
	}
}
