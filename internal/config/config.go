// Package config loads the optional devserve project config file.
//
// The config file lets a project pin the server and snapshot settings
// (port, served directory, entry document, snapshot URL/viewport/output)
// instead of repeating flags. Both JSONC and YAML are supported: the
// JSON variants are stripped of comments and trailing commas with
// github.com/tidwall/jsonc before parsing, so the file can be annotated
// the way devcontainer.json files conventionally are.
//
// A missing config file is not an error; every setting has a built-in
// default and flags override whatever the file says.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/mmr-tortoise/devserve/internal/model"
)

// candidateNames are the file names probed by Find, in priority order.
// JSONC comes first to match the tool's own documentation examples.
var candidateNames = []string{
	"devserve.jsonc",
	"devserve.json",
	"devserve.yaml",
	"devserve.yml",
}

// Config is the on-disk configuration shape. Both sections are
// optional; zero-valued fields fall back to the model defaults during
// merge.
type Config struct {
	// Serve configures the static asset server.
	Serve model.ServeConfig `json:"serve" yaml:"serve"`

	// Snapshot configures the screenshot command.
	Snapshot model.SnapshotConfig `json:"snapshot" yaml:"snapshot"`
}

// Default returns a Config with every field at its built-in default.
func Default() Config {
	return Config{
		Serve:    model.DefaultServeConfig(),
		Snapshot: model.DefaultSnapshotConfig(),
	}
}

// Find locates the project config file in dir, probing the candidate
// names in priority order. Returns the path of the first file that
// exists, or "" if none does (which is not an error).
func Find(dir string) string {
	for _, name := range candidateNames {
		path := filepath.Join(dir, name)
		// os.Stat checks existence without reading contents.
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// Load reads and parses the config file at path, layering its values
// over the built-in defaults. The format is chosen by file extension:
// .yaml/.yml parse as YAML, everything else as JSONC.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, model.WrapCLIError(model.ExitConfigError,
			fmt.Sprintf("failed to read config file %s", path), err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Default(), model.WrapCLIError(model.ExitConfigError,
				fmt.Sprintf("failed to parse config file %s", path), err)
		}
	default:
		// Strip JSONC comments (// and /* */) and trailing commas
		// before handing the bytes to encoding/json. Unknown fields
		// are silently ignored, so unrelated keys in the file are fine.
		clean := jsonc.ToJSON(data)
		if err := json.Unmarshal(clean, &cfg); err != nil {
			return Default(), model.WrapCLIError(model.ExitConfigError,
				fmt.Sprintf("failed to parse config file %s", path), err)
		}
	}

	// Unmarshaling over the defaults clears any field the file sets to
	// its zero value; re-apply defaults for anything left empty.
	applyDefaults(&cfg)
	return cfg, nil
}

// LoadFromDir finds and loads the config file in dir. When no config
// file exists, the built-in defaults are returned with no error.
func LoadFromDir(dir string) (Config, error) {
	path := Find(dir)
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// applyDefaults fills zero-valued fields with the model defaults so a
// partial config file (say, only "serve: {port: 3000}") behaves like
// the defaults with one override.
func applyDefaults(cfg *Config) {
	def := Default()

	if cfg.Serve.Port == 0 {
		cfg.Serve.Port = def.Serve.Port
	}
	if cfg.Serve.Dir == "" {
		cfg.Serve.Dir = def.Serve.Dir
	}
	if cfg.Serve.Entry == "" {
		cfg.Serve.Entry = def.Serve.Entry
	}

	if cfg.Snapshot.URL == "" {
		cfg.Snapshot.URL = def.Snapshot.URL
	}
	if cfg.Snapshot.Output == "" {
		cfg.Snapshot.Output = def.Snapshot.Output
	}
	if cfg.Snapshot.ViewportWidth == 0 {
		cfg.Snapshot.ViewportWidth = def.Snapshot.ViewportWidth
	}
	if cfg.Snapshot.ViewportHeight == 0 {
		cfg.Snapshot.ViewportHeight = def.Snapshot.ViewportHeight
	}

	// Timeout is never unmarshaled directly (json/yaml "-"), so Default()
	// left it at 30s. A timeoutSeconds value from the file must still win
	// over that built-in default, so resolve it here explicitly.
	if cfg.Snapshot.TimeoutSeconds > 0 {
		cfg.Snapshot.Timeout = time.Duration(cfg.Snapshot.TimeoutSeconds) * time.Second
	} else if cfg.Snapshot.Timeout == 0 {
		cfg.Snapshot.Timeout = def.Snapshot.Timeout
	}
}
