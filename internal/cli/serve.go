// Package cli — serve.go implements the "devserve serve" command.
//
// The serve command runs the static asset server:
//  1. Load the optional project config file and merge flags over it
//  2. Probe for a free port starting at the configured value
//  3. Print the startup banner with the resolved local URL
//  4. Serve files from the base directory until interrupted
//
// An interrupt (Ctrl+C) is a clean stop with exit code 0; any other
// startup or runtime fault exits non-zero.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/devserve/internal/config"
	"github.com/mmr-tortoise/devserve/internal/model"
	"github.com/mmr-tortoise/devserve/internal/port"
	"github.com/mmr-tortoise/devserve/internal/server"
)

// serveFlags holds the flag values for the serve command.
// These are bound to cobra flags in NewServeCommand.
type serveFlags struct {
	port   int    // --port: start of the free-port search
	dir    string // --dir: base directory to serve
	entry  string // --entry: root redirect target
	config string // --config: explicit config file path
}

// NewServeCommand creates the "serve" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewServeCommand() *cobra.Command {
	flags := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the app's static assets over local HTTP",
		Long: `Serve files from a base directory over plain local HTTP.

The server picks the first free port at or above the configured start
(default 8080), redirects the site root to the standalone entry document,
answers /favicon.ico with 404, and corrects the content-type header for
source-asset extensions the platform MIME database misclassifies
(.ts, .tsx, .js, .jsx, .json, .css, .html, .svg, .ico).

Settings come from flags, or from a devserve.jsonc/.json/.yaml/.yml file
in the working directory; flags win.

Examples:
  devserve serve
  devserve serve --port 3000 --dir dist
  devserve serve --entry /app.html`,

		Args: cobra.NoArgs,

		// RunE returns an error to the root command's error handler.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, flags)
		},
	}

	cmd.Flags().IntVar(&flags.port, "port", model.DefaultPortStart,
		"Starting port for the free-port search")
	cmd.Flags().StringVar(&flags.dir, "dir", ".",
		"Base directory to serve files from")
	cmd.Flags().StringVar(&flags.entry, "entry", model.DefaultEntryPath,
		"Path the site root redirects to")
	cmd.Flags().StringVar(&flags.config, "config", "",
		"Config file path (default: devserve.jsonc/.json/.yaml/.yml in the working directory)")

	return cmd
}

// runServe is the main logic function for the serve command.
func runServe(cmd *cobra.Command, flags *serveFlags) error {
	// Step 1: Resolve configuration. Config file values sit under the
	// defaults; flags the user actually set override the file.
	cfg, err := loadConfig(flags.config)
	if err != nil {
		return err
	}
	serveCfg := mergeServeConfig(cmd, cfg.Serve)
	if err := serveCfg.Validate(); err != nil {
		return model.WrapCLIError(model.ExitConfigError, "invalid serve configuration", err)
	}
	VerboseLog("Serve config: port>=%d dir=%s entry=%s", serveCfg.Port, serveCfg.Dir, serveCfg.Entry)

	// Step 2: Pick the first free port at or above the configured start.
	chosenPort, err := port.NewScanner().FindFreePort(serveCfg.Port)
	if err != nil {
		return model.WrapCLIError(model.ExitPortExhausted, "could not find a free port", err)
	}
	VerboseLog("Selected port %d", chosenPort)

	// Step 3: Startup banner with the resolved local URL.
	printBanner(chosenPort)

	// Step 4: Serve until interrupted. signal.NotifyContext cancels the
	// context on Ctrl+C, which ListenAndServe treats as a clean stop.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	srv := server.New(chosenPort, serveCfg.Dir, serveCfg.Entry, os.Stdout)
	if err := srv.ListenAndServe(ctx); err != nil {
		return model.WrapCLIError(model.ExitServerError, "server failed", err)
	}

	color.New(color.FgYellow).Fprintln(os.Stdout, "\n🛑 Server stopped by user")
	return nil
}

// mergeServeConfig layers explicitly set flags over the config-file
// values. Only flags the user actually passed override the file; flag
// defaults never mask a config-file setting.
func mergeServeConfig(cmd *cobra.Command, base model.ServeConfig) model.ServeConfig {
	merged := base
	f := cmd.Flags()
	if f.Changed("port") {
		merged.Port, _ = f.GetInt("port")
	}
	if f.Changed("dir") {
		merged.Dir, _ = f.GetString("dir")
	}
	if f.Changed("entry") {
		merged.Entry, _ = f.GetString("entry")
	}
	return merged
}

// loadConfig loads the project config from an explicit path when given,
// otherwise searches the working directory. Errors are already CLIErrors.
func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadFromDir(".")
}

// printBanner writes the startup banner to stdout: tool name, resolved
// local URL, redirect note, and the Ctrl+C hint.
func printBanner(chosenPort int) {
	cyan := color.New(color.FgCyan)
	bold := color.New(color.Bold)

	bold.Println("🚀 devserve - static asset server")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("🌐 Starting server on port %d...\n", chosenPort)
	fmt.Println("   Open your browser and navigate to:")
	fmt.Println()
	cyan.Printf("   http://localhost:%d\n", chosenPort)
	fmt.Println()
	fmt.Println("   The server will redirect to the standalone version")
	fmt.Println("   Press Ctrl+C to stop the server")
	fmt.Println()
}
