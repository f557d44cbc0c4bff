package server

import (
	"bufio"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"movfeed/feeds"
	"movfeed/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cache"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
)

//go:embed dist/*
var dist embed.FS

const eventsPath = "/api/feed/events"

// Largest page a client can ask for
const maxPageSize = 100

type ServerConfig struct {
	// The feed session serving pages and admin operations
	Session *feeds.Session

	// Pushes re-rendered pages to SSE clients
	Broadcaster *Broadcaster

	// Comma separated list of allowed origins
	CorsOrigins string

	// Interval between keep-alive pings on the event stream
	PingInterval time.Duration
}

// Returns a fiber.App instance serving the feed, its admin API and the page
func Server(config *ServerConfig) *fiber.App {
	session := config.Session
	bc := config.Broadcaster

	pingInterval := config.PingInterval
	if pingInterval <= 0 {
		pingInterval = 5 * time.Second
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// Middleware to track the latency of each request
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		latency := time.Since(start)
		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		requestDuration.WithLabelValues(c.Method(), c.Route().Path, strconv.Itoa(status)).Observe(latency.Seconds())
		log.WithFields(log.Fields{
			"method":  c.Method(),
			"route":   c.Route().Path,
			"status":  status,
			"latency": latency,
		}).Info("Request")
		return err
	})

	app.Use(requestid.New(requestid.ConfigDefault))
	app.Use(compress.New(compress.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == eventsPath
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: config.CorsOrigins,
		AllowHeaders: "Cache-Control, Content-Type",
	}))

	// Only the embedded page is cached, everything under /api changes with
	// the feed
	app.Use(cache.New(cache.Config{
		Next: func(c *fiber.Ctx) bool {
			if c.Method() != fiber.MethodGet {
				return true
			}
			return strings.HasPrefix(c.Path(), "/api") || c.Path() == "/metrics" || c.Path() == "/health"
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.Request().URI().String()
		},
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"ready":  session.Ready(),
		})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	api.Get("/feed", func(c *fiber.Ctx) error {
		if !session.Ready() {
			return fiber.NewError(fiber.StatusServiceUnavailable, "feed is still loading")
		}

		page := session.Page(c.QueryInt("page", 1), min(c.QueryInt("size", 0), maxPageSize))
		pagesServed.Inc()

		log.WithFields(log.Fields{
			"page":  page.Number,
			"size":  page.Size,
			"cards": len(page.Cards),
		}).Debug("Serving feed page")

		return c.JSON(page)
	})

	api.Delete("/feed/events", func(c *fiber.Ctx) error {
		key := c.Query("key", "")
		bc.RemoveClient(key)
		return c.Status(fiber.StatusOK).SendString("OK")
	})

	api.Get("/feed/events", func(c *fiber.Ctx) error {
		c.Set("Content-Type", "text/event-stream")
		c.Set("Cache-Control", "no-cache")
		c.Set("Connection", "keep-alive")
		c.Set("Transfer-Encoding", "chunked")

		// Unique client key
		key := uuid.New().String()
		pages := make(chan feeds.Page, 10)
		bc.AddClient(key, pages)

		c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
			alive := time.NewTicker(pingInterval)
			defer alive.Stop()
			defer func() {
				log.Infof("Cleaning up SSE stream for client: %s", key)
				bc.RemoveClient(key)
			}()

			fmt.Fprintf(w, "event: init\ndata: %s\n\n", key)
			if session.Ready() {
				if err := writePage(w, session.Page(1, 0)); err != nil {
					log.Warnf("Failed to send feed to client %s: %v", key, err)
					return
				}
			}
			if err := w.Flush(); err != nil {
				log.Errorf("Failed to send init event: %v", err)
				return
			}

			for {
				select {
				case <-alive.C:
					if _, err := fmt.Fprintf(w, "event: ping\ndata: \n\n"); err != nil {
						log.Warnf("Failed to send ping to client %s: %v", key, err)
						return
					}
				case page, ok := <-pages:
					if !ok {
						log.Debugf("Feed channel closed for client %s", key)
						return
					}
					if err := writePage(w, page); err != nil {
						log.Warnf("Failed to send feed to client %s: %v", key, err)
						return
					}
				}

				if err := w.Flush(); err != nil {
					log.Warnf("Failed to flush event for client %s: %v", key, err)
					return
				}
			}
		}))

		return nil
	})

	api.Get("/posts", func(c *fiber.Ctx) error {
		return c.JSON(session.Admin.ListPosts())
	})

	api.Post("/posts", func(c *fiber.Ctx) error {
		var raw models.RawPost
		if err := json.Unmarshal(c.Body(), &raw); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid post: "+err.Error())
		}

		post := session.Admin.AddPost(raw)
		return c.Status(fiber.StatusCreated).JSON(post)
	})

	api.Delete("/posts/:id", func(c *fiber.Ctx) error {
		id, err := postId(c)
		if err != nil {
			return err
		}
		if err := session.Admin.DeletePost(id); err != nil {
			return adminError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	api.Post("/posts/:id/featured", func(c *fiber.Ctx) error {
		id, err := postId(c)
		if err != nil {
			return err
		}
		post, err := session.Admin.ToggleFeatured(id)
		if err != nil {
			return adminError(err)
		}
		return c.JSON(post)
	})

	api.Post("/posts/:id/pinned", func(c *fiber.Ctx) error {
		id, err := postId(c)
		if err != nil {
			return err
		}
		post, err := session.Admin.TogglePinned(id)
		if err != nil {
			return adminError(err)
		}
		return c.JSON(post)
	})

	// Serve the feed page
	app.Use("/", filesystem.New(filesystem.Config{
		Browse:     false,
		Index:      "index.html",
		Root:       http.FS(dist),
		PathPrefix: "/dist",
	}))

	return app
}

func writePage(w *bufio.Writer, page feeds.Page) error {
	data, err := json.Marshal(page)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: feed\ndata: %s\n\n", data)
	return err
}

func postId(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid post id")
	}
	return id, nil
}

func adminError(err error) error {
	if errors.Is(err, feeds.ErrPostNotFound) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return err
}
