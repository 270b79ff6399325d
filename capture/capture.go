// Package capture turns a raw design input into image bytes: uploaded
// images pass through after validation, URLs are navigated in a
// sandboxed headless Chrome and rastered full-page.
//
// Every capture uses its own browser process, torn down on all exit
// paths. URL captures also return a best-effort StyleSnapshot read from
// the live page's stylesheets.
package capture

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Capturer produces capture results from raw inputs.
type Capturer struct {
	cfg Config
}

// New creates a Capturer with the given configuration.
func New(cfg Config) *Capturer {
	cfg.defaults()
	return &Capturer{cfg: cfg}
}

// Capture resolves a RawInput into image bytes plus page context.
// The StyleSnapshot is non-nil only for URL inputs, and even then only
// best-effort: style extraction failures never fail the capture.
func (c *Capturer) Capture(ctx context.Context, in RawInput) (*Result, *StyleSnapshot, error) {
	switch in.Kind {
	case KindImage:
		res, err := c.captureImage(in)
		return res, nil, err
	case KindURL:
		return c.captureURL(ctx, in.URL)
	default:
		return nil, nil, fmt.Errorf("%w: unknown input kind %q", ErrInvalidInput, in.Kind)
	}
}

func (c *Capturer) captureImage(in RawInput) (*Result, error) {
	if len(in.Bytes) == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidInput)
	}
	if !strings.HasPrefix(in.MIMEType, "image/") {
		return nil, fmt.Errorf("%w: not an image MIME type: %q", ErrInvalidInput, in.MIMEType)
	}
	return &Result{
		ImageBytes: in.Bytes,
		MIMEType:   in.MIMEType,
		CapturedAt: time.Now(),
	}, nil
}

func (c *Capturer) captureURL(ctx context.Context, pageURL string) (*Result, *StyleSnapshot, error) {
	if err := validateURL(pageURL); err != nil {
		return nil, nil, err
	}

	log := c.cfg.Logger
	var res *Result
	var snap *StyleSnapshot

	err := c.withPage(ctx, func(page *rod.Page) error {
		if err := c.navigate(ctx, page, pageURL); err != nil {
			return err
		}

		info, err := page.Info()
		if err != nil {
			log.Warn("capture: read page title failed", "url", pageURL, "error", err)
		}
		title := ""
		if info != nil {
			title = info.Title
		}

		quality := c.cfg.Quality
		img, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
			Format:  proto.PageCaptureScreenshotFormatJpeg,
			Quality: &quality,
		})
		if err != nil {
			return fmt.Errorf("%w: screenshot %s: %v", ErrNavigationFailed, pageURL, err)
		}

		// Best-effort; never fails the capture.
		snap = c.extractStyles(ctx, page)

		res = &Result{
			ImageBytes:     img,
			MIMEType:       "image/jpeg",
			PageTitle:      title,
			CapturedAt:     time.Now(),
			ViewportWidth:  c.cfg.ViewportWidth,
			ViewportHeight: c.cfg.ViewportHeight,
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	log.Debug("capture: url captured",
		"url", pageURL, "title", res.PageTitle, "bytes", len(res.ImageBytes))
	return res, snap, nil
}

func validateURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("%w: empty URL", ErrInvalidInput)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: unsupported scheme %q", ErrInvalidInput, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidInput)
	}
	return nil
}
