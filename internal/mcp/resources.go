package mcp

import (
	"context"
	"encoding/json"

	"github.com/claude/liftlog/internal/stats"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) recentSessions(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	end := h.clock.Now()
	start := end.AddDate(0, 0, -14)
	return jsonContents(req.Params.URI, sessionsBetween(h.history.Load(ctx), start, end, end.Location()))
}

func (h *handlers) statistics(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonContents(req.Params.URI, stats.Summarize(h.history.Load(ctx), h.clock.Now()))
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
