package main

import (
	"flag"
	"log/slog"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/meltforce/stepup/internal/config"
	"github.com/meltforce/stepup/internal/mcp"
	"github.com/meltforce/stepup/internal/service"
	"github.com/meltforce/stepup/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file (local mode)")
	remote := flag.String("remote", "", "base URL of a running StepUp server; when set, data is read over its REST API instead of the local store")
	apiKey := flag.String("api-key", os.Getenv("STEPUP_AUTH_API_KEY"), "API key for the remote server")
	flag.Parse()

	// Stdout carries the MCP stdio transport; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var ds mcp.DataSource

	if *remote != "" {
		ds = mcp.NewHTTPClient(*remote, *apiKey)
		log.Info("MCP server starting", "mode", "remote", "url", *remote)
	} else {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}

		if err := storage.RunMigrations(cfg.Storage.Path); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}

		store, err := storage.Open(cfg.Storage.Path, log)
		if err != nil {
			log.Error("failed to open store", "error", err)
			os.Exit(1)
		}
		defer store.Close()

		ds = service.New(store, log)
		log.Info("MCP server starting", "mode", "local", "store", cfg.Storage.Path)
	}

	s := mcp.New(ds, Version, log)
	if err := mcpserver.ServeStdio(s); err != nil {
		log.Error("MCP server error", "error", err)
		os.Exit(1)
	}
}
