// Package ingest wires the design-ingestion pipeline: capture, vision
// analysis, normalization, media upload, and persistence, plus the
// sequential batch driver that runs it over many inputs.
//
// Every external collaborator is an interface on Config, so each call
// site (CLI, HTTP, MCP) constructs one Pipeline and every test swaps in
// doubles without touching global state.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sitelens/sitelens/capture"
	"github.com/sitelens/sitelens/catalog"
	"github.com/sitelens/sitelens/vision"
)

// Capturer resolves a raw input into image bytes plus page context.
type Capturer interface {
	Capture(ctx context.Context, in capture.RawInput) (*capture.Result, *capture.StyleSnapshot, error)
}

// Analyzer sends an image to the hosted model and parses the reply.
type Analyzer interface {
	Analyze(ctx context.Context, image []byte, mimeType string) (*vision.Analysis, error)
}

// Uploader persists raw bytes under a path and returns a durable URL.
type Uploader interface {
	Upload(ctx context.Context, data []byte, path string) (string, error)
}

// Store persists normalized records.
type Store interface {
	Create(ctx context.Context, ex catalog.WebsiteExample) (string, error)
	Update(ctx context.Context, id string, p catalog.Patch) error
}

// Config wires a Pipeline. Capturer, Analyzer, Uploader, and Store are
// required; the rest have defaults.
type Config struct {
	Capturer Capturer
	Analyzer Analyzer
	Uploader Uploader
	Store    Store

	// Delay is the fixed wait between batch items, the backpressure
	// that keeps sequential runs under the model provider's rate
	// limit. Default: 2s.
	Delay time.Duration

	// NewID generates website and screenshot ids. Default: UUIDv4.
	NewID func() string

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.Delay <= 0 {
		c.Delay = 2 * time.Second
	}
	if c.NewID == nil {
		c.NewID = uuid.NewString
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

func (c *Config) validate() error {
	if c.Capturer == nil {
		return fmt.Errorf("ingest: Capturer is required")
	}
	if c.Analyzer == nil {
		return fmt.Errorf("ingest: Analyzer is required")
	}
	if c.Uploader == nil {
		return fmt.Errorf("ingest: Uploader is required")
	}
	if c.Store == nil {
		return fmt.Errorf("ingest: Store is required")
	}
	return nil
}

// Item is one input plus its caller-supplied metadata.
type Item struct {
	Input capture.RawInput
	Meta  catalog.Metadata
}

// Result is one successfully ingested design.
type Result struct {
	ID      string                 `json:"id"`
	Example catalog.WebsiteExample `json:"websiteExample"`
	Styles  *capture.StyleSnapshot `json:"styles,omitempty"`
}

// Pipeline runs the single-item ingestion sequence.
type Pipeline struct {
	cfg Config
}

// New creates a Pipeline. Missing collaborators are a construction
// error, not a runtime surprise.
func New(cfg Config) (*Pipeline, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.defaults()
	return &Pipeline{cfg: cfg}, nil
}

// Process ingests one item: capture, analyze, normalize, upload, store.
// Any stage error aborts the item and propagates unwrapped, so callers
// can branch on the stage sentinels (capture.ErrInvalidInput,
// vision.ErrMalformedResponse, catalog.ErrUpload, ...).
//
// Website and screenshot ids are generated fresh on every call; a
// retried item can never overwrite an earlier partial upload.
func (p *Pipeline) Process(ctx context.Context, item Item) (*Result, error) {
	log := p.cfg.Logger

	shot, styles, err := p.cfg.Capturer.Capture(ctx, item.Input)
	if err != nil {
		return nil, err
	}

	analysis, err := p.cfg.Analyzer.Analyze(ctx, shot.ImageBytes, shot.MIMEType)
	if err != nil {
		return nil, err
	}

	websiteID := p.cfg.NewID()
	screenshotID := p.cfg.NewID()

	draft := catalog.Normalize(catalog.NormalizeInput{
		Analysis:     *analysis,
		Styles:       styles,
		Meta:         item.Meta,
		PageTitle:    shot.PageTitle,
		SourceURL:    item.Input.URL,
		ScreenshotID: screenshotID,
	})
	draft.ID = websiteID

	// Upload must complete before the record is written; the store
	// additionally refuses transient URLs.
	imageURL, err := p.cfg.Uploader.Upload(ctx, shot.ImageBytes,
		catalog.ScreenshotPath(websiteID, screenshotID))
	if err != nil {
		return nil, err
	}
	draft.Screenshots[0].ImageURL = imageURL

	id, err := p.cfg.Store.Create(ctx, draft)
	if err != nil {
		return nil, err
	}
	draft.ID = id

	log.Info("ingest: item stored",
		"id", id, "title", draft.Title, "tags", len(draft.Tags),
		"components", len(draft.Screenshots[0].Components))

	return &Result{ID: id, Example: draft, Styles: styles}, nil
}

// Store exposes the configured record store for call-site adapters that
// need direct reads/patches (description updates, HTTP GETs).
func (p *Pipeline) Store() Store { return p.cfg.Store }
