// Package cli — snapshot.go implements the "devserve snapshot" command.
//
// The snapshot command is a manual smoke-test helper: it loads the
// running app in a headless browser at a fixed mobile-sized viewport and
// saves a screenshot for visual verification. It assumes a server
// (devserve serve, or a dev bundler) is already listening at the target
// URL; it does not start or manage that server.
package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/devserve/internal/model"
	"github.com/mmr-tortoise/devserve/internal/snapshot"
)

// snapshotFlags holds the flag values for the snapshot command.
// These are bound to cobra flags in NewSnapshotCommand.
type snapshotFlags struct {
	url     string        // --url: address to load
	output  string        // --output: screenshot file path
	width   int           // --width: viewport width in logical pixels
	height  int           // --height: viewport height in logical pixels
	timeout time.Duration // --timeout: bound on the whole capture
	config  string        // --config: explicit config file path
}

// NewSnapshotCommand creates the "snapshot" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewSnapshotCommand() *cobra.Command {
	flags := &snapshotFlags{}

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Capture a screenshot of the running app for visual verification",
		Long: `Launch a headless browser, open the app at a mobile-sized viewport
(default 375x667), and save a screenshot of the visible viewport.

The defaults reproduce the original verification script exactly: load
http://localhost:5173/ and write the PNG to
jules-scratch/verification/compact_ui_verification.png, overwriting any
previous capture.

Examples:
  devserve snapshot
  devserve snapshot --url http://localhost:8080/ --output verify.png
  devserve snapshot --width 1280 --height 800`,

		Args: cobra.NoArgs,

		// RunE returns an error to the root command's error handler.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.url, "url", model.DefaultSnapshotURL,
		"Address to load in the browser")
	cmd.Flags().StringVar(&flags.output, "output", model.DefaultSnapshotOutput,
		"File path for the PNG screenshot")
	cmd.Flags().IntVar(&flags.width, "width", model.DefaultViewportWidth,
		"Viewport width in logical pixels")
	cmd.Flags().IntVar(&flags.height, "height", model.DefaultViewportHeight,
		"Viewport height in logical pixels")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", model.DefaultSnapshotTimeout,
		"Time budget for the whole capture")
	cmd.Flags().StringVar(&flags.config, "config", "",
		"Config file path (default: devserve.jsonc/.json/.yaml/.yml in the working directory)")

	return cmd
}

// runSnapshot is the main logic function for the snapshot command.
func runSnapshot(cmd *cobra.Command, flags *snapshotFlags) error {
	// Resolve configuration: file under the defaults, set flags on top.
	cfg, err := loadConfig(flags.config)
	if err != nil {
		return err
	}
	snapCfg := mergeSnapshotConfig(cmd, cfg.Snapshot)
	if err := snapCfg.Validate(); err != nil {
		return model.WrapCLIError(model.ExitConfigError, "invalid snapshot configuration", err)
	}
	VerboseLog("Snapshot config: url=%s output=%s viewport=%dx%d timeout=%s",
		snapCfg.URL, snapCfg.Output, snapCfg.ViewportWidth, snapCfg.ViewportHeight,
		snapCfg.EffectiveTimeout())

	// Capture. Any browser-automation fault (unreachable target,
	// navigation timeout, unwritable output) surfaces here.
	if err := snapshot.Capture(cmd.Context(), snapCfg); err != nil {
		return model.WrapCLIError(model.ExitSnapshotFailed, "screenshot capture failed", err)
	}

	return reportSnapshot(snapCfg)
}

// mergeSnapshotConfig layers explicitly set flags over the config-file
// values, mirroring mergeServeConfig.
func mergeSnapshotConfig(cmd *cobra.Command, base model.SnapshotConfig) model.SnapshotConfig {
	merged := base
	f := cmd.Flags()
	if f.Changed("url") {
		merged.URL, _ = f.GetString("url")
	}
	if f.Changed("output") {
		merged.Output, _ = f.GetString("output")
	}
	if f.Changed("width") {
		merged.ViewportWidth, _ = f.GetInt("width")
	}
	if f.Changed("height") {
		merged.ViewportHeight, _ = f.GetInt("height")
	}
	if f.Changed("timeout") {
		merged.Timeout, _ = f.GetDuration("timeout")
	}
	return merged
}

// reportSnapshot prints the artifact location in the format selected by
// the --json flag.
func reportSnapshot(snapCfg model.SnapshotConfig) error {
	if IsJSONOutput() {
		result := map[string]string{
			"url":    snapCfg.URL,
			"output": snapCfg.Output,
		}
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
	} else {
		color.New(color.FgGreen).Printf("📸 Screenshot saved: %s\n", snapCfg.Output)
	}
	return nil
}
