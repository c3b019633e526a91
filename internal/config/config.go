// Package config loads and persists user settings as YAML, following
// BreachLine's app/settings shape: a Settings struct with yaml/json
// tags, a package-level defaults value, and a best-effort
// overlay-onto-defaults loader that ignores a missing or unreadable
// file rather than failing startup.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings holds the user-configurable knobs this core actually reads.
// Fields that BreachLine's Settings carried for its desktop shell — window
// geometry, licensing, sync tokens, the plugin registry — have no home
// in a terminal dialect core and are dropped rather than renamed.
type Settings struct {
	// AutoExecuteOnLoad runs the buffer's default view query as soon as
	// a data source finishes loading, matching BreachLine's
	// OpenFileTab behavior of showing content immediately.
	AutoExecuteOnLoad bool `yaml:"auto_execute_on_load" json:"auto_execute_on_load"`

	SortByTime       bool `yaml:"sort_by_time" json:"sort_by_time"`
	SortDescending   bool `yaml:"sort_descending" json:"sort_descending"`
	EnableQueryCache bool `yaml:"enable_query_cache" json:"enable_query_cache"`
	CacheSizeLimitMB int  `yaml:"cache_size_limit_mb" json:"cache_size_limit_mb"`

	DefaultIngestTimezone  string `yaml:"default_ingest_timezone" json:"default_ingest_timezone"`
	DisplayTimezone        string `yaml:"display_timezone" json:"display_timezone"`
	TimestampDisplayFormat string `yaml:"timestamp_display_format" json:"timestamp_display_format"`
	PinTimestampColumn     bool   `yaml:"pin_timestamp_column" json:"pin_timestamp_column"`

	MaxDirectoryFiles int `yaml:"max_directory_files" json:"max_directory_files"`

	CompactByDefault     bool `yaml:"compact_by_default" json:"compact_by_default"`
	ShowRowNumberDefault bool `yaml:"show_row_number_default" json:"show_row_number_default"`

	HistoryFile   string `yaml:"history_file" json:"history_file"`
	CacheDir      string `yaml:"cache_dir" json:"cache_dir"`
	MaxHistoryLen int    `yaml:"max_history_len" json:"max_history_len"`
}

var defaultSettings = Settings{
	AutoExecuteOnLoad:      true,
	SortByTime:             false,
	SortDescending:         false,
	EnableQueryCache:       true,
	CacheSizeLimitMB:       100,
	DefaultIngestTimezone:  "Local",
	DisplayTimezone:        "Local",
	TimestampDisplayFormat: "2006-01-02 15:04:05",
	PinTimestampColumn:     false,
	MaxDirectoryFiles:      500,
	CompactByDefault:       false,
	ShowRowNumberDefault:   true,
	HistoryFile:            "history.log",
	CacheDir:               "cache",
	MaxHistoryLen:          5000,
}

// Default returns a copy of the built-in defaults.
func Default() Settings { return defaultSettings }

// Load returns the effective settings: defaults overlaid with whatever
// keys are present in the YAML file at path. A missing file, or one
// that fails to parse, yields the defaults rather than an error —
// mirroring BreachLine's GetEffectiveSettings, which never lets a
// corrupt settings file block startup.
func Load(path string) Settings {
	settings := defaultSettings

	b, err := os.ReadFile(path)
	if err != nil {
		return settings
	}
	var m map[string]any
	if err := yaml.Unmarshal(b, &m); err != nil {
		return settings
	}

	applyBool(m, "auto_execute_on_load", &settings.AutoExecuteOnLoad)
	applyBool(m, "sort_by_time", &settings.SortByTime)
	applyBool(m, "sort_descending", &settings.SortDescending)
	applyBool(m, "enable_query_cache", &settings.EnableQueryCache)
	applyInt(m, "cache_size_limit_mb", &settings.CacheSizeLimitMB, 0)
	applyString(m, "default_ingest_timezone", &settings.DefaultIngestTimezone)
	applyString(m, "display_timezone", &settings.DisplayTimezone)
	applyString(m, "timestamp_display_format", &settings.TimestampDisplayFormat)
	applyBool(m, "pin_timestamp_column", &settings.PinTimestampColumn)
	applyInt(m, "max_directory_files", &settings.MaxDirectoryFiles, 1)
	applyBool(m, "compact_by_default", &settings.CompactByDefault)
	applyBool(m, "show_row_number_default", &settings.ShowRowNumberDefault)
	applyString(m, "history_file", &settings.HistoryFile)
	applyString(m, "cache_dir", &settings.CacheDir)
	applyInt(m, "max_history_len", &settings.MaxHistoryLen, 1)

	return settings
}

// Save writes settings to path as YAML, creating parent directories as
// needed, matching BreachLine's SaveSettings write-whole-file
// approach (no atomic rename — a config file half-written by a crash
// mid-write is an acceptable loss, unlike the results cache).
func Save(path string, settings Settings) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: creating %s: %w", dir, err)
		}
	}
	b, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("config: marshaling settings: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	return nil
}

// DefaultPath returns the dotfile path settings are loaded from and
// saved to when the caller has no explicit override, "~/.tablescope.yml".
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: resolving home directory: %w", err)
	}
	return filepath.Join(home, ".tablescope.yml"), nil
}

func applyBool(m map[string]any, key string, dst *bool) {
	if v, ok := m[key]; ok {
		if vb, ok := v.(bool); ok {
			*dst = vb
		}
	}
}

func applyInt(m map[string]any, key string, dst *int, min int) {
	if v, ok := m[key]; ok {
		if vi, ok := v.(int); ok && vi >= min {
			*dst = vi
		}
	}
}

func applyString(m map[string]any, key string, dst *string) {
	if v, ok := m[key]; ok {
		if vs, ok := v.(string); ok {
			*dst = vs
		}
	}
}
