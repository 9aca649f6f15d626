package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/starford/garden/internal/manifest"
	"github.com/starford/garden/internal/markdown"
	"github.com/starford/garden/internal/mcpserver"
	"github.com/starford/garden/internal/storage"
)

// RunMCP syncs the index and serves the MCP tools over stdio. Logs go to
// stderr since stdout carries the protocol.
func RunMCP(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := newLogger(app.config, os.Stderr)

	rt, err := openGarden(app.config, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	logger.Info("MCP server starting", slog.String("version", app.version))
	if err := mcpserver.New(rt.svc, app.version).ServeStdio(); err != nil {
		return fmt.Errorf("mcp serve: %w", err)
	}
	return nil
}

// GenerateManifest rewrites the creation-date manifest for every post.
// Dates already recorded are kept; new posts get their file date.
func GenerateManifest(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	store, err := storage.NewFS(cfg.Garden.PostsDir())
	if err != nil {
		return fmt.Errorf("init posts storage: %w", err)
	}

	prev, err := manifest.Load(store, cfg.Garden.ManifestFile)
	if err != nil {
		return fmt.Errorf("load manifest: %w", err)
	}
	entries, err := manifest.Build(store, "")
	if err != nil {
		return fmt.Errorf("build manifest: %w", err)
	}
	entries = manifest.Merge(prev, entries)
	if err := manifest.Write(store, cfg.Garden.ManifestFile, entries); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	_, err = fmt.Fprintf(app.out, "wrote %d entries to %s\n", len(entries), cfg.Garden.ManifestFile)
	return err
}

// RenderMarkdown converts markdown read from r to HTML using the configured
// asset root.
func RenderMarkdown(r io.Reader, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	md, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read markdown: %w", err)
	}
	renderer := markdown.New(markdown.WithAssetRoot(app.config.Garden.AssetRoot))
	_, err = fmt.Fprintln(app.out, renderer.Render(string(md)))
	return err
}
