package capture

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// withPage launches an isolated Chrome, opens a stealth tab at the
// configured viewport, runs fn, and tears everything down on every exit
// path. A leaked browser process per item would exhaust the host over a
// long batch run, so teardown is unconditional.
func (c *Capturer) withPage(ctx context.Context, fn func(page *rod.Page) error) error {
	// Sandbox disabled for containerized execution.
	l := launcher.New().
		Headless(true).
		NoSandbox(true).
		Set("disable-setuid-sandbox").
		Set("disable-dev-shm-usage")

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: launch chrome: %v", ErrNavigationFailed, err)
	}
	defer l.Cleanup()

	browser := rod.New().ControlURL(u).Context(ctx)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("%w: connect chrome: %v", ErrNavigationFailed, err)
	}
	defer browser.Close()

	page, err := stealth.Page(browser)
	if err != nil {
		return fmt.Errorf("%w: create tab: %v", ErrNavigationFailed, err)
	}
	defer page.Close()

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             c.cfg.ViewportWidth,
		Height:            c.cfg.ViewportHeight,
		DeviceScaleFactor: 1,
		Mobile:            false,
	}); err != nil {
		return fmt.Errorf("%w: set viewport: %v", ErrNavigationFailed, err)
	}

	return fn(page)
}

// navigate drives a page to pageURL and waits for the network to go
// quiet, then for the fixed settle delay. The whole sequence runs under
// the navigation timeout.
func (c *Capturer) navigate(ctx context.Context, page *rod.Page, pageURL string) error {
	navCtx, cancel := context.WithTimeout(ctx, c.cfg.NavigationTimeout)
	defer cancel()

	p := page.Context(navCtx)
	wait := p.WaitNavigation(proto.PageLifecycleEventNameNetworkAlmostIdle)

	if err := p.Navigate(pageURL); err != nil {
		return fmt.Errorf("%w: navigate %s: %v", ErrNavigationFailed, pageURL, err)
	}
	wait()

	if err := navCtx.Err(); err != nil {
		return fmt.Errorf("%w: navigate %s: %v", ErrNavigationFailed, pageURL, err)
	}

	// Late-loading content: carousels, lazy images, font swaps.
	select {
	case <-time.After(c.cfg.SettleDelay):
	case <-ctx.Done():
		return fmt.Errorf("%w: navigate %s: %v", ErrNavigationFailed, pageURL, ctx.Err())
	}
	return nil
}
