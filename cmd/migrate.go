/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"movfeed/db"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func databaseFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "db-driver",
			Usage:   "SQL driver: sqlite or postgres",
			EnvVars: []string{"MOVFEED_DB_DRIVER"},
			Value:   db.DriverSQLite,
		},
		&cli.StringFlag{
			Name:    "db-dsn",
			Usage:   "SQLite file path or PostgreSQL connection URL",
			EnvVars: []string{"MOVFEED_DB_DSN"},
			Value:   "feed.db",
		},
	}
}

func migrateCmd() *cli.Command {
	return &cli.Command{
		Name:        "migrate",
		Usage:       "Run database migrations",
		Description: `Creates the posts table on the configured database. Will create the SQLite file if it does not exist.`,
		Flags:       databaseFlags(),
		Action: func(ctx *cli.Context) error {
			log.WithFields(log.Fields{
				"driver": ctx.String("db-driver"),
			}).Info("Database configured")
			return db.Migrate(ctx.String("db-driver"), ctx.String("db-dsn"))
		},
	}
}

func rollbackCmd() *cli.Command {
	return &cli.Command{
		Name:        "rollback",
		Usage:       "Rollback database migration",
		Description: `Rolls back the last database migration`,
		Flags:       databaseFlags(),
		Action: func(ctx *cli.Context) error {
			log.WithFields(log.Fields{
				"driver": ctx.String("db-driver"),
			}).Info("Database configured")
			return db.Rollback(ctx.String("db-driver"), ctx.String("db-dsn"))
		},
	}
}
