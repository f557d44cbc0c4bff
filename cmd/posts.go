/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"movfeed/db"
	"movfeed/feeds"
	"movfeed/models"

	"github.com/cqroot/prompt"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func postsCmd() *cli.Command {
	return &cli.Command{
		Name:  "posts",
		Usage: "Manage the posts stored in an SQL database",
		Description: `Writes posts to the posts table so that the next feed session loads them.

Run the migrate command first to create the table.`,
		Subcommands: []*cli.Command{
			postsAddCmd(),
			postsImportCmd(),
		},
	}
}

func postsWriterFlags() []cli.Flag {
	return append(databaseFlags(),
		&cli.StringFlag{
			Name:    "db-table",
			Usage:   "Table holding the posts",
			EnvVars: []string{"MOVFEED_REMOTE_TABLE"},
			Value:   "posts",
		},
	)
}

func openWriter(ctx *cli.Context) (*db.Writer, func() error, error) {
	driver := ctx.String("db-driver")
	conn, err := db.Open(driver, ctx.String("db-dsn"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open post database: %w", err)
	}
	return db.NewWriter(conn, driver, ctx.String("db-table")), conn.Close, nil
}

func postsAddCmd() *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Add a single post",
		Description: `Adds one post. Missing fields get the same defaults as posts loaded from
a remote store: the type is detected from the URL and the date is today.`,
		Flags: append(postsWriterFlags(),
			&cli.StringFlag{Name: "title", Usage: "Post title"},
			&cli.StringFlag{Name: "description", Usage: "Post description"},
			&cli.StringFlag{Name: "url", Usage: "Link to the original post"},
			&cli.StringFlag{Name: "image", Usage: "Image URL"},
			&cli.StringFlag{Name: "embed-code", Usage: "HTML embed snippet shown instead of the image"},
			&cli.StringFlag{Name: "type", Usage: "facebook, instagram, youtube, tiktok, twitter or link"},
			&cli.StringFlag{Name: "category", Usage: "movement or media"},
			&cli.StringFlag{Name: "media-source", Usage: "Name of the outlet for media posts"},
			&cli.StringFlag{Name: "date", Usage: "Publication date, YYYY-MM-DD"},
			&cli.BoolFlag{Name: "featured", Usage: "Mark the post as featured"},
			&cli.BoolFlag{Name: "pinned", Usage: "Pin the post"},
			&cli.BoolFlag{Name: "hidden", Usage: "Store the post as not visible"},
			&cli.BoolFlag{
				Name:    "interactive",
				Aliases: []string{"i"},
				Usage:   "Ask for the main fields instead of reading flags",
			},
		),
		Action: func(ctx *cli.Context) error {
			var raw models.RawPost
			var err error
			if ctx.Bool("interactive") {
				raw, err = askPost()
				if err != nil {
					return err
				}
			} else {
				raw = rawPostFromFlags(ctx)
			}

			post := feeds.NewNormalizer(nil).Normalize(raw)

			writer, closeWriter, err := openWriter(ctx)
			if err != nil {
				return err
			}
			defer closeWriter()

			if err := writer.CreatePost(ctx.Context, post); err != nil {
				return err
			}

			postJson, err := json.Marshal(post)
			if err != nil {
				return err
			}
			fmt.Fprintln(ctx.App.Writer, string(postJson))
			return nil
		},
	}
}

func rawPostFromFlags(ctx *cli.Context) models.RawPost {
	optional := func(name string) *string {
		if !ctx.IsSet(name) {
			return nil
		}
		return lo.ToPtr(ctx.String(name))
	}

	return models.RawPost{
		Title:       optional("title"),
		Description: optional("description"),
		Image:       optional("image"),
		EmbedCode:   optional("embed-code"),
		Url:         optional("url"),
		Type:        optional("type"),
		Category:    optional("category"),
		MediaSource: optional("media-source"),
		Date:        optional("date"),
		Featured:    lo.ToPtr(ctx.Bool("featured")),
		Pinned:      lo.ToPtr(ctx.Bool("pinned")),
		Visible:     lo.ToPtr(!ctx.Bool("hidden")),
	}
}

func askPost() (models.RawPost, error) {
	title, err := prompt.New().Ask("Title:").Input("")
	if err != nil {
		return models.RawPost{}, err
	}

	url, err := prompt.New().Ask("URL:").Input("https://www.facebook.com/")
	if err != nil {
		return models.RawPost{}, err
	}

	description, err := prompt.New().Ask("Description:").Input("")
	if err != nil {
		return models.RawPost{}, err
	}

	category, err := prompt.New().Ask("Category:").Choose([]string{
		string(models.CategoryMovement),
		string(models.CategoryMedia),
	})
	if err != nil {
		return models.RawPost{}, err
	}

	raw := models.RawPost{
		Title:       lo.EmptyableToPtr(title),
		Url:         lo.EmptyableToPtr(url),
		Description: lo.EmptyableToPtr(description),
		Category:    lo.ToPtr(category),
	}

	if category == string(models.CategoryMedia) {
		source, err := prompt.New().Ask("Media outlet:").Input("")
		if err != nil {
			return models.RawPost{}, err
		}
		raw.MediaSource = lo.EmptyableToPtr(source)
	}

	image, err := prompt.New().Ask("Image URL:").Input("")
	if err != nil {
		return models.RawPost{}, err
	}
	raw.Image = lo.EmptyableToPtr(image)

	return raw, nil
}

func postsImportCmd() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import posts from a JSON file",
		ArgsUsage: "<file.json | ->",
		Description: `Reads a JSON array of posts, the same shape the REST store returns, and
inserts them in one transaction. Use - to read from stdin.`,
		Flags: postsWriterFlags(),
		Action: func(ctx *cli.Context) error {
			path := ctx.Args().First()
			if path == "" {
				return fmt.Errorf("missing input file")
			}

			raws, err := readRawPosts(path, ctx.App.Reader)
			if err != nil {
				return err
			}

			normalizer := feeds.NewNormalizer(nil)
			posts := lo.Map(raws, func(raw models.RawPost, _ int) models.Post {
				return normalizer.Normalize(raw)
			})

			writer, closeWriter, err := openWriter(ctx)
			if err != nil {
				return err
			}
			defer closeWriter()

			if err := writer.ImportPosts(ctx.Context, posts); err != nil {
				return err
			}

			log.WithFields(log.Fields{
				"file":  path,
				"count": len(posts),
			}).Info("Import finished")
			return nil
		},
	}
}

func readRawPosts(path string, stdin io.Reader) ([]models.RawPost, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("error reading posts: %w", err)
	}

	var raws []models.RawPost
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("error parsing posts: %w", err)
	}
	return raws, nil
}
