// Package config provides configuration file parsing for verselog.
package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// Dir returns the verselog config directory, respecting XDG_CONFIG_HOME.
// Defaults to ~/.config/verselog if XDG_CONFIG_HOME is not set.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "verselog"), nil
}

// DefaultArchivePath returns the default location of the session archive
// database, {config dir}/sessions.db.
func DefaultArchivePath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sessions.db"), nil
}

// Settings holds the optional values declared in the settings file.
// Zero values mean "not set"; the caller applies its own defaults.
type Settings struct {
	LogPath     string
	ArchivePath string
}

// LoadSettings reads the settings file at {dir}/settings and returns the
// parsed config. If the file does not exist, an empty config is returned
// without an error. Invalid or malformed lines are silently skipped.
func LoadSettings(dir string) (*Settings, error) {
	cfg := &Settings{}

	path := filepath.Join(dir, "settings")
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip blank lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Expect exactly one "=" separating key from value.
		idx := strings.IndexByte(line, '=')
		if idx <= 0 {
			continue
		}

		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		if key == "" || value == "" {
			continue
		}

		switch key {
		case "log_path":
			cfg.LogPath = value
		case "archive_path":
			cfg.ArchivePath = value
		}
		// Unknown keys are ignored so old binaries tolerate newer files.
	}

	if err := scanner.Err(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// gameLogCandidates are the locations probed by FindGameLog, in order.
// The RSI launcher installs under Program Files on Windows; the same tree
// shows up under Wine and Proton prefixes elsewhere.
func gameLogCandidates() []string {
	candidates := []string{
		"Game.log",
		`C:\Program Files\Roberts Space Industries\StarCitizen\LIVE\Game.log`,
		`C:\Program Files\Roberts Space Industries\StarCitizen\PTU\Game.log`,
	}

	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates,
			filepath.Join(home, "Games", "star-citizen", "drive_c", "Program Files",
				"Roberts Space Industries", "StarCitizen", "LIVE", "Game.log"),
			filepath.Join(home, ".wine", "drive_c", "Program Files",
				"Roberts Space Industries", "StarCitizen", "LIVE", "Game.log"),
		)
	}
	return candidates
}

// FindGameLog returns the first Game.log found among the known install
// locations, starting with the current directory. Returns "" when none
// exists.
func FindGameLog() string {
	for _, path := range gameLogCandidates() {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
