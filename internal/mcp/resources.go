package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) dashboardResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	stats, res, err := h.ds.RefreshDashboard(ctx)
	if err != nil {
		return nil, err
	}
	return jsonContents(req.Params.URI, withOutcome(res, "stats", stats))
}

func (h *handlers) templatesResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	templates, res, err := h.ds.Templates(ctx)
	if err != nil {
		return nil, err
	}
	return jsonContents(req.Params.URI, withOutcome(res, "templates", templates))
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
