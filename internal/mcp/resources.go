package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meltforce/stepup/internal/models"
)

var resTemplates = mcp.NewResource(
	"stepup://templates",
	"Workout Templates",
	mcp.WithResourceDescription("All workout templates with their exercises and planned sets, newest first"),
	mcp.WithMIMEType("application/json"),
)

var resRecentHistory = mcp.NewResource(
	"stepup://recent_history",
	"Recent History",
	mcp.WithResourceDescription("The 20 most recent completed sessions with duration and per-set results"),
	mcp.WithMIMEType("application/json"),
)

func (h *handlers) templates(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	templates := h.ds.ListTemplates(ctx)
	if templates == nil {
		templates = []models.Workout{}
	}
	return resourceJSON(req, templates)
}

func (h *handlers) recentHistory(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	history := h.ds.ListHistory(ctx)
	if history == nil {
		history = []models.Workout{}
	}
	if len(history) > 20 {
		history = history[:20]
	}
	return resourceJSON(req, history)
}

func resourceJSON(req mcp.ReadResourceRequest, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
