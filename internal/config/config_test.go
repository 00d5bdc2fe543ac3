package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDir_RespectsXDGConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")

	dir, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if want := filepath.Join("/tmp/xdg-test", "verselog"); dir != want {
		t.Errorf("Dir() = %q, want %q", dir, want)
	}
}

func TestDir_DefaultsToHomeConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")

	dir, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if filepath.Base(dir) != "verselog" {
		t.Errorf("Dir() = %q, want .../verselog", dir)
	}
	if filepath.Base(filepath.Dir(dir)) != ".config" {
		t.Errorf("Dir() = %q, want .../.config/verselog", dir)
	}
}

func TestDefaultArchivePath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")

	path, err := DefaultArchivePath()
	if err != nil {
		t.Fatalf("DefaultArchivePath() error: %v", err)
	}
	if want := filepath.Join("/tmp/xdg-test", "verselog", "sessions.db"); path != want {
		t.Errorf("DefaultArchivePath() = %q, want %q", path, want)
	}
}

func TestLoadSettings_FileNotFound(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadSettings(dir)
	if err != nil {
		t.Fatalf("LoadSettings() returned error for missing file: %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadSettings() returned nil config")
	}
	if cfg.LogPath != "" || cfg.ArchivePath != "" {
		t.Errorf("expected empty settings, got %+v", cfg)
	}
}

func TestLoadSettings_ValidLines(t *testing.T) {
	dir := t.TempDir()
	content := `# verselog settings
log_path = /games/sc/Game.log
archive_path=/data/sessions.db
`
	if err := os.WriteFile(filepath.Join(dir, "settings"), []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadSettings(dir)
	if err != nil {
		t.Fatalf("LoadSettings() error: %v", err)
	}
	if cfg.LogPath != "/games/sc/Game.log" {
		t.Errorf("LogPath = %q", cfg.LogPath)
	}
	if cfg.ArchivePath != "/data/sessions.db" {
		t.Errorf("ArchivePath = %q", cfg.ArchivePath)
	}
}

func TestLoadSettings_MalformedLinesSkipped(t *testing.T) {
	dir := t.TempDir()
	content := `no-separator-here
=leading-separator
log_path=
unknown_key=value

log_path=/valid/Game.log
`
	if err := os.WriteFile(filepath.Join(dir, "settings"), []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadSettings(dir)
	if err != nil {
		t.Fatalf("LoadSettings() error: %v", err)
	}
	if cfg.LogPath != "/valid/Game.log" {
		t.Errorf("LogPath = %q, want /valid/Game.log", cfg.LogPath)
	}
	if cfg.ArchivePath != "" {
		t.Errorf("ArchivePath = %q, want empty", cfg.ArchivePath)
	}
}

func TestFindGameLog_CurrentDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Game.log"), []byte("<log>\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	if got := FindGameLog(); got != "Game.log" {
		t.Errorf("FindGameLog() = %q, want Game.log", got)
	}
}
