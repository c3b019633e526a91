package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	got := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if got != defaultSettings {
		t.Fatalf("Load(missing) = %+v, want defaults", got)
	}
}

func TestLoadOverlaysKnownKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yml")
	content := "cache_size_limit_mb: 250\ndisplay_timezone: UTC\nauto_execute_on_load: false\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got := Load(path)
	if got.CacheSizeLimitMB != 250 {
		t.Fatalf("CacheSizeLimitMB = %d, want 250", got.CacheSizeLimitMB)
	}
	if got.DisplayTimezone != "UTC" {
		t.Fatalf("DisplayTimezone = %q, want UTC", got.DisplayTimezone)
	}
	if got.AutoExecuteOnLoad {
		t.Fatalf("AutoExecuteOnLoad = true, want false")
	}
	// Untouched keys keep their default value.
	if got.MaxDirectoryFiles != defaultSettings.MaxDirectoryFiles {
		t.Fatalf("MaxDirectoryFiles = %d, want default %d", got.MaxDirectoryFiles, defaultSettings.MaxDirectoryFiles)
	}
}

func TestLoadIgnoresMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yml")
	if err := os.WriteFile(path, []byte("not: [valid: yaml"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got := Load(path)
	if got != defaultSettings {
		t.Fatalf("Load(malformed) = %+v, want defaults", got)
	}
}

func TestLoadIgnoresOutOfRangeInt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yml")
	if err := os.WriteFile(path, []byte("max_directory_files: 0\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got := Load(path)
	if got.MaxDirectoryFiles != defaultSettings.MaxDirectoryFiles {
		t.Fatalf("MaxDirectoryFiles = %d, want default kept for out-of-range override", got.MaxDirectoryFiles)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "settings.yml")

	want := Default()
	want.CacheSizeLimitMB = 42
	want.DisplayTimezone = "America/New_York"

	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got := Load(path)
	if got.CacheSizeLimitMB != 42 || got.DisplayTimezone != "America/New_York" {
		t.Fatalf("round trip = %+v", got)
	}
}

func TestDefaultPathUsesHomeDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath: %v", err)
	}
	want := filepath.Join(home, ".tablescope.yml")
	if got != want {
		t.Fatalf("DefaultPath = %q, want %q", got, want)
	}
}
