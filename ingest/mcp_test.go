package ingest

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sitelens/sitelens/catalog"
)

var testMCPImpl = &mcp.Implementation{Name: "sitelens-test", Version: "0.1.0"}

func mcpSession(t *testing.T) (*mcp.ClientSession, *fakeStore) {
	t.Helper()
	pipe, _, _, _, st := testPipeline(t, nil)
	srv := mcp.NewServer(testMCPImpl, nil)
	pipe.RegisterMCP(srv)

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx := context.Background()
	go func() { _ = srv.Run(ctx, serverT) }()

	client := mcp.NewClient(testMCPImpl, nil)
	session, err := client.Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session, st
}

func mcpCallTool(t *testing.T, session *mcp.ClientSession, name string, args any) string {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	if result.IsError {
		t.Fatalf("CallTool(%s) tool error: %v", name, result.Content)
	}
	tc, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("CallTool(%s): expected TextContent", name)
	}
	return tc.Text
}

// --- sitelens_analyze_url ---

func TestMCP_AnalyzeURL(t *testing.T) {
	session, st := mcpSession(t)

	text := mcpCallTool(t, session, "sitelens_analyze_url", map[string]any{
		"url":  "https://example.com",
		"tags": []string{"saas"},
	})

	var res Result
	if err := json.Unmarshal([]byte(text), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if res.ID == "" {
		t.Error("expected an id in the tool reply")
	}
	if res.Example.URL != "https://example.com" {
		t.Errorf("URL = %q", res.Example.URL)
	}
	if res.Example.Type != catalog.TypeApp {
		t.Errorf("Type = %q, want %q", res.Example.Type, catalog.TypeApp)
	}
	if len(st.created) != 1 {
		t.Errorf("stored = %d, want 1", len(st.created))
	}
}

// --- sitelens_analyze_image ---

func TestMCP_AnalyzeImage(t *testing.T) {
	session, _ := mcpSession(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "landing-page.png")
	os.WriteFile(path, []byte("fake png bytes"), 0644)

	text := mcpCallTool(t, session, "sitelens_analyze_image", map[string]any{"path": path})

	var res Result
	if err := json.Unmarshal([]byte(text), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	// Title defaults to the file stem when the caller gives none.
	if res.Example.Title != "landing-page" {
		t.Errorf("Title = %q, want %q", res.Example.Title, "landing-page")
	}
	if res.Example.Type != catalog.TypeScreen {
		t.Errorf("Type = %q, want %q", res.Example.Type, catalog.TypeScreen)
	}
}

func TestMCP_AnalyzeImage_MissingFile(t *testing.T) {
	session, st := mcpSession(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "sitelens_analyze_image",
		Arguments: map[string]any{"path": filepath.Join(t.TempDir(), "absent.png")},
	})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	// A failed item is a tool error, not a protocol error.
	if !result.IsError {
		t.Fatal("expected a tool error for a missing file")
	}
	if len(st.created) != 0 {
		t.Errorf("stored = %d, want 0", len(st.created))
	}
}
