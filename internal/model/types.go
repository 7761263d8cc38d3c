// Package model defines the domain types for the devserve CLI.
//
// The tool has no persistent state; these types are transient
// configuration and error values passed between the CLI layer and the
// server/snapshot components. Defaults mirror the original hardcoded
// scripts so that running a subcommand with no flags reproduces the
// original behavior exactly.
package model

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultPortStart is the first port probed when selecting a port
	// for the static server. Probing continues upward from here.
	DefaultPortStart = 8080

	// DefaultEntryPath is the standalone entry document the site root
	// redirects to.
	DefaultEntryPath = "/index-standalone.html"

	// DefaultSnapshotURL is the address the snapshot command loads.
	// It points at the dev server's conventional local address.
	DefaultSnapshotURL = "http://localhost:5173/"

	// DefaultSnapshotOutput is the path the screenshot is written to.
	// The file is overwritten on every run.
	DefaultSnapshotOutput = "jules-scratch/verification/compact_ui_verification.png"

	// DefaultViewportWidth and DefaultViewportHeight fix the browser
	// viewport to a mobile-like size (logical pixels).
	DefaultViewportWidth  = 375
	DefaultViewportHeight = 667

	// DefaultSnapshotTimeout bounds the whole capture sequence
	// (browser launch, navigation, screenshot).
	DefaultSnapshotTimeout = 30 * time.Second
)

// ServeConfig holds the settings for the static asset server.
//
// Dir is an explicit base directory parameter rather than a process-wide
// working directory change: the handler resolves every request path
// against Dir, so the server never mutates global process state.
type ServeConfig struct {
	// Port is the starting port for the free-port search. The server
	// binds the first available port at or above this value.
	Port int `json:"port" yaml:"port"`

	// Dir is the base directory files are served from.
	Dir string `json:"dir" yaml:"dir"`

	// Entry is the absolute URL path the site root ("/") redirects to.
	Entry string `json:"entry" yaml:"entry"`
}

// DefaultServeConfig returns a ServeConfig with the original server's
// hardcoded values: port search from 8080, current directory, redirect
// to /index-standalone.html.
func DefaultServeConfig() ServeConfig {
	return ServeConfig{
		Port:  DefaultPortStart,
		Dir:   ".",
		Entry: DefaultEntryPath,
	}
}

// Validate checks the ServeConfig field values. It verifies the port
// range and that the entry path is a rooted URL path suitable for a
// Location header.
func (c *ServeConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("serve config: port %d out of range (1-65535)", c.Port)
	}
	if c.Dir == "" {
		return fmt.Errorf("serve config: dir must not be empty")
	}
	if c.Entry == "" {
		return fmt.Errorf("serve config: entry must not be empty")
	}
	if !strings.HasPrefix(c.Entry, "/") {
		return fmt.Errorf("serve config: entry %q must start with /", c.Entry)
	}
	// http.FileServer canonicalizes any */index.html path by redirecting
	// to its directory, and the directory "/" redirects back to the
	// entry document. Reject such entries up front instead of serving a
	// redirect loop.
	if strings.HasSuffix(c.Entry, "/index.html") {
		return fmt.Errorf("serve config: entry %q would redirect in a loop (the file server canonicalizes index.html to its directory); use a different file name", c.Entry)
	}
	return nil
}

// SnapshotConfig holds the settings for the snapshot command.
//
// The original verification script hardcoded every one of these values;
// they are exposed as configuration with identical defaults so existing
// workflows keep producing the same artifact at the same path.
type SnapshotConfig struct {
	// URL is the address the browser navigates to. The target server
	// must already be listening; the snapshot command does not start it.
	URL string `json:"url" yaml:"url"`

	// Output is the file path the PNG screenshot is written to.
	// Parent directories are created as needed; an existing file is
	// overwritten.
	Output string `json:"output" yaml:"output"`

	// ViewportWidth and ViewportHeight set the browser viewport in
	// logical pixels before navigation.
	ViewportWidth  int `json:"width" yaml:"width"`
	ViewportHeight int `json:"height" yaml:"height"`

	// Timeout bounds the entire capture sequence. Zero means
	// DefaultSnapshotTimeout.
	Timeout time.Duration `json:"-" yaml:"-"`

	// TimeoutSeconds is the config-file representation of Timeout,
	// kept as an integer so JSONC and YAML files stay human-editable.
	TimeoutSeconds int `json:"timeoutSeconds,omitempty" yaml:"timeoutSeconds,omitempty"`
}

// DefaultSnapshotConfig returns a SnapshotConfig with the original
// verification script's hardcoded values: 375×667 viewport,
// http://localhost:5173/, output under jules-scratch/verification/.
func DefaultSnapshotConfig() SnapshotConfig {
	return SnapshotConfig{
		URL:            DefaultSnapshotURL,
		Output:         DefaultSnapshotOutput,
		ViewportWidth:  DefaultViewportWidth,
		ViewportHeight: DefaultViewportHeight,
		Timeout:        DefaultSnapshotTimeout,
	}
}

// Validate checks the SnapshotConfig field values: the URL must parse
// as an absolute http(s) URL, the output path must be non-empty, and
// the viewport dimensions must be positive.
func (c *SnapshotConfig) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("snapshot config: url must not be empty")
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("snapshot config: invalid url %q: %w", c.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("snapshot config: url %q must use http or https", c.URL)
	}
	if c.Output == "" {
		return fmt.Errorf("snapshot config: output path must not be empty")
	}
	if c.ViewportWidth < 1 || c.ViewportHeight < 1 {
		return fmt.Errorf("snapshot config: viewport %dx%d must be positive",
			c.ViewportWidth, c.ViewportHeight)
	}
	return nil
}

// EffectiveTimeout resolves the capture deadline, preferring Timeout,
// then TimeoutSeconds from a config file, then the default.
func (c *SnapshotConfig) EffectiveTimeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	if c.TimeoutSeconds > 0 {
		return time.Duration(c.TimeoutSeconds) * time.Second
	}
	return DefaultSnapshotTimeout
}

// ExitCode defines standard CLI exit codes. These codes allow scripts
// and CI systems to programmatically determine the outcome of a command.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	// A clean interrupt of the serve command also exits with this code.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitConfigError indicates a config file or flag value was invalid.
	ExitConfigError ExitCode = 2

	// ExitPortExhausted indicates no free port was found within the
	// search window.
	ExitPortExhausted ExitCode = 3

	// ExitServerError indicates the server failed at startup or at
	// runtime (e.g., a bind permission error).
	ExitServerError ExitCode = 4

	// ExitSnapshotFailed indicates the browser capture failed
	// (unreachable target, navigation timeout, unwritable output).
	ExitSnapshotFailed ExitCode = 5
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
