// Package snapshot captures a screenshot of the running app for visual
// verification.
//
// It drives a headless Chrome/Chromium instance over the DevTools
// protocol via github.com/chromedp/chromedp: fix the viewport to a
// mobile-like size, navigate to the target URL, capture the visible
// viewport as a PNG, and write it to the output path. The whole
// sequence is strictly linear; failures in any step abort the capture
// and propagate to the caller.
//
// The target server is assumed to be running already. This package does
// not start or manage it.
package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chromedp/chromedp"

	"github.com/mmr-tortoise/devserve/internal/model"
)

// Capture runs the full capture sequence with the given settings:
// launch a headless browser, emulate the configured viewport, navigate
// to the URL (waiting for the page load event), screenshot the visible
// viewport, and write the PNG to the output path. Parent directories of
// the output path are created as needed; an existing file is
// overwritten.
//
// The sequence is bounded by the config's timeout on top of whatever
// deadline ctx already carries. The browser is shut down when Capture
// returns, success or not.
func Capture(ctx context.Context, cfg model.SnapshotConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.EffectiveTimeout())
	defer cancel()

	// NewContext with a default allocator launches headless Chrome.
	// Cancelling the context tears the browser process down.
	browserCtx, cancelBrowser := chromedp.NewContext(ctx)
	defer cancelBrowser()

	var shot []byte
	err := chromedp.Run(browserCtx,
		chromedp.EmulateViewport(int64(cfg.ViewportWidth), int64(cfg.ViewportHeight)),
		chromedp.Navigate(cfg.URL),
		chromedp.CaptureScreenshot(&shot),
	)
	if err != nil {
		return fmt.Errorf("failed to capture %s: %w", cfg.URL, err)
	}

	if err := writeOutput(cfg.Output, shot); err != nil {
		return err
	}
	return nil
}

// writeOutput writes the screenshot bytes to path, creating parent
// directories first so a fresh checkout can receive the artifact at its
// conventional nested location.
func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write screenshot %s: %w", path, err)
	}
	return nil
}
