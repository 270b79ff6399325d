package ingest

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sitelens/sitelens/capture"
	"github.com/sitelens/sitelens/catalog"
	"github.com/sitelens/sitelens/kit"
)

// RegisterMCP registers the ingestion tools on an MCP server.
func (p *Pipeline) RegisterMCP(srv *mcp.Server) {
	p.registerAnalyzeURLTool(srv)
	p.registerAnalyzeImageTool(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// --- analyze_url ---

type analyzeURLReq struct {
	URL         string   `json:"url"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Category    []string `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

func (p *Pipeline) registerAnalyzeURLTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "sitelens_analyze_url",
		Description: "Capture a website, analyze its design, and store it as a website example.",
		InputSchema: inputSchema(map[string]any{
			"url":         map[string]any{"type": "string", "description": "Website URL (including https://)"},
			"title":       map[string]any{"type": "string"},
			"description": map[string]any{"type": "string"},
			"category":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"tags":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		}, []string{"url"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*analyzeURLReq)
		return p.Process(ctx, Item{
			Input: capture.URLInput(r.URL),
			Meta: catalog.Metadata{
				Title:       r.Title,
				Description: r.Description,
				URL:         r.URL,
				Category:    r.Category,
				Tags:        r.Tags,
			},
		})
	}

	kit.RegisterMCPTool(srv, tool, endpoint, kit.DecodeJSON[analyzeURLReq]())
}

// --- analyze_image ---

type analyzeImageReq struct {
	Path        string   `json:"path"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	URL         string   `json:"url,omitempty"`
	Category    []string `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

func (p *Pipeline) registerAnalyzeImageTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "sitelens_analyze_image",
		Description: "Analyze a screenshot file and store it as a website example.",
		InputSchema: inputSchema(map[string]any{
			"path":        map[string]any{"type": "string", "description": "Path to a jpeg/png screenshot"},
			"title":       map[string]any{"type": "string"},
			"description": map[string]any{"type": "string"},
			"url":         map[string]any{"type": "string"},
			"category":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"tags":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		}, []string{"path"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*analyzeImageReq)
		data, err := os.ReadFile(r.Path)
		if err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}
		mimeType := mime.TypeByExtension(filepath.Ext(r.Path))
		title := r.Title
		if title == "" {
			title = stem(r.Path)
		}
		return p.Process(ctx, Item{
			Input: capture.ImageInput(data, mimeType),
			Meta: catalog.Metadata{
				Title:       title,
				Description: r.Description,
				URL:         r.URL,
				Category:    r.Category,
				Tags:        r.Tags,
			},
		})
	}

	kit.RegisterMCPTool(srv, tool, endpoint, kit.DecodeJSON[analyzeImageReq]())
}

func stem(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
