package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dabasajay/linkspage/internal/config"
	"github.com/dabasajay/linkspage/internal/fetch"
	"github.com/dabasajay/linkspage/internal/handler"
	"github.com/dabasajay/linkspage/internal/links"
	"github.com/dabasajay/linkspage/internal/logger"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "linkspage",
		Usage: "Personal links page rewritten from a remote template",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Value:   config.DefaultPort,
				Usage:   "HTTP server port",
				EnvVars: []string{"PORT"},
			},
			&cli.StringFlag{
				Name:    "template-url",
				Value:   config.DefaultTemplateURL,
				Usage:   "URL of the HTML template to rewrite",
				EnvVars: []string{"TEMPLATE_URL"},
			},
			&cli.DurationFlag{
				Name:    "fetch-timeout",
				Value:   config.DefaultFetchTimeout,
				Usage:   "Timeout for a single template fetch",
				EnvVars: []string{"FETCH_TIMEOUT"},
			},
			&cli.StringFlag{
				Name:    "links-file",
				Value:   config.DefaultLinksFile,
				Usage:   "YAML file with profile, links and social_links keys; built-in data when empty",
				EnvVars: []string{"LINKS_FILE"},
			},
			&cli.BoolFlag{
				Name:    "minify",
				Usage:   "Minify the rewritten HTML (buffers the whole page)",
				EnvVars: []string{"MINIFY"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.Setup(logger.ParseLevel(c.String("log-level")))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the web server",
				Action: runServe,
			},
			{
				Name:   "links",
				Usage:  "Print the /links JSON body",
				Action: runLinks,
			},
		},
		Action: runServe,
	}
}

func loadStore(c *cli.Context) (*links.Store, error) {
	path := c.String("links-file")
	if path == "" {
		return links.Default(), nil
	}

	store, err := links.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load links: %w", err)
	}
	slog.Info("links loaded", "path", path, "links", len(store.Links()), "social_links", len(store.SocialLinks()))
	return store, nil
}

func runServe(c *cli.Context) error {
	ctx := c.Context

	port := c.String("port")
	if port == "" {
		port = config.DefaultPort
	}

	store, err := loadStore(c)
	if err != nil {
		return err
	}

	fetcher := fetch.New(fetch.Config{
		URL:     c.String("template-url"),
		Timeout: c.Duration("fetch-timeout"),
	})

	h := handler.New(handler.Config{
		Fetcher: fetcher,
		Store:   store,
		Minify:  c.Bool("minify"),
		Logger:  slog.Default(),
	})

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           h.Routes(),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server",
			"server_addr", "http://localhost:"+port,
			"template_url", fetcher.URL(),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-done:
		slog.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

func runLinks(c *cli.Context) error {
	store, err := loadStore(c)
	if err != nil {
		return err
	}

	body, err := handler.New(handler.Config{Store: store}).LinksJSON()
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(c.App.Writer, string(body))
	return err
}
