// Package config loads the layered run configuration: built-in defaults,
// overridden by an optional YAML file, overridden by CLI flags — the
// same three-layer merge this package's conductor ancestor used for its
// own settings, generalized to the search engine's Config fields.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/xerg-dev/xerg/internal/engine"
	"github.com/xerg-dev/xerg/internal/xerrors"
)

// fileConfig mirrors the engine.Config fields a YAML file may set for
// unmarshalling; pattern, root and watch have no YAML key and come only
// from flags. color is a string here since engine.Color has no textual
// YAML representation of its own.
type fileConfig struct {
	Color         string `yaml:"color"`
	Stats         *bool  `yaml:"stats"`
	Xtreme        *bool  `yaml:"xtreme"`
	Verbose       *bool  `yaml:"verbose"`
	HistoryPath   string `yaml:"history_path"`
	ReportPath    string `yaml:"report_path"`
	ReportHTML    *bool  `yaml:"report_html"`
	WatchDebounce string `yaml:"watch_debounce"`
}

// Defaults returns the built-in defaults. Every field here reproduces
// the core engine's historical behavior when nothing else overrides it.
func Defaults() *engine.Config {
	home, _ := HomeDir()
	return &engine.Config{
		Root:          ".",
		Color:         engine.ColorNone,
		Stats:         false,
		Xtreme:        false,
		Verbose:       false,
		HistoryPath:   filepath.Join(home, "history.db"),
		ReportPath:    "",
		ReportHTML:    false,
		Watch:         false,
		WatchDebounce: 300 * time.Millisecond,
	}
}

// Load merges, in increasing precedence, built-in defaults, the YAML file
// at explicitPath (or the first of $XERG_HOME/config.yaml / ./.xerg.yaml
// that exists, when explicitPath is empty), and the already-parsed CLI
// flags in overrides. A malformed YAML file is a fatal ConfigError; a
// missing one silently falls back to defaults.
func Load(explicitPath string, overrides *engine.Config) (*engine.Config, error) {
	cfg := Defaults()

	path := explicitPath
	if path == "" {
		path = defaultConfigPath()
	}

	if path != "" {
		if err := applyFile(cfg, path); err != nil {
			return nil, err
		}
	}

	applyOverrides(cfg, overrides)
	return cfg, nil
}

func defaultConfigPath() string {
	if home, err := HomeDir(); err == nil {
		p := filepath.Join(home, "config.yaml")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	if _, err := os.Stat(".xerg.yaml"); err == nil {
		return ".xerg.yaml"
	}
	return ""
}

func applyFile(cfg *engine.Config, path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return xerrors.NewConfigError("config", "failed to read config file", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return xerrors.NewConfigError("config", "failed to parse config file", err)
	}

	if fc.Color != "" {
		c, err := engine.ParseColor(fc.Color)
		if err != nil {
			return err
		}
		cfg.Color = c
	}
	if fc.Stats != nil {
		cfg.Stats = *fc.Stats
	}
	if fc.Xtreme != nil {
		cfg.Xtreme = *fc.Xtreme
	}
	if fc.Verbose != nil {
		cfg.Verbose = *fc.Verbose
	}
	if fc.HistoryPath != "" {
		cfg.HistoryPath = fc.HistoryPath
	}
	if fc.ReportPath != "" {
		cfg.ReportPath = fc.ReportPath
	}
	if fc.ReportHTML != nil {
		cfg.ReportHTML = *fc.ReportHTML
	}
	if fc.WatchDebounce != "" {
		d, err := time.ParseDuration(fc.WatchDebounce)
		if err != nil {
			return xerrors.NewConfigError("watch_debounce", "invalid duration", err)
		}
		cfg.WatchDebounce = d
	}

	return nil
}

// applyOverrides copies every non-zero-value field from overrides onto
// cfg. Pattern and Root are always taken from overrides since they have
// no meaningful file-level default (Root's default of "." is set above
// and only replaced when the flag differs from it).
func applyOverrides(cfg *engine.Config, overrides *engine.Config) {
	if overrides == nil {
		return
	}
	if overrides.Pattern != "" {
		cfg.Pattern = overrides.Pattern
	}
	if overrides.Root != "" {
		cfg.Root = overrides.Root
	}
	if overrides.Color != engine.ColorNone {
		cfg.Color = overrides.Color
	}
	if overrides.Stats {
		cfg.Stats = true
	}
	if overrides.Xtreme {
		cfg.Xtreme = true
	}
	if overrides.Verbose {
		cfg.Verbose = true
	}
	if overrides.HistoryPath != "" {
		cfg.HistoryPath = overrides.HistoryPath
	}
	if overrides.ReportPath != "" {
		cfg.ReportPath = overrides.ReportPath
	}
	if overrides.ReportHTML {
		cfg.ReportHTML = true
	}
	if overrides.Watch {
		cfg.Watch = true
	}
	if overrides.WatchDebounce != 0 {
		cfg.WatchDebounce = overrides.WatchDebounce
	}
}

// Validate checks the fields Load cannot validate on its own (the
// pattern and root path are validated by engine.Compile and the
// enumerator respectively).
func Validate(cfg *engine.Config) error {
	if cfg.Pattern == "" {
		return xerrors.NewConfigError("pattern", "pattern is required", nil)
	}
	if cfg.WatchDebounce < 0 {
		return xerrors.NewConfigError("watch_debounce", fmt.Sprintf("must be >= 0, got %v", cfg.WatchDebounce), nil)
	}
	return nil
}
