package app

import (
	"testing"

	"github.com/verselog/verselog/internal/archive"
)

// touchArchive creates an empty archive database at path.
func touchArchive(path string) error {
	db, err := archive.New(path)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.CreateSchema()
}

func TestHistoryCommand(t *testing.T) {
	if historyCmd.Use != "history [session-id]" {
		t.Errorf("expected Use to be 'history [session-id]', got '%s'", historyCmd.Use)
	}

	if historyCmd.Short == "" {
		t.Error("expected Short description to be set")
	}

	if historyCmd.RunE == nil {
		t.Error("expected RunE to be set")
	}

	if historyCmd.Args == nil {
		t.Error("expected Args validator to be set")
	}
}

func TestRunHistory_NoArchive(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	old := archivePath
	archivePath = ""
	t.Cleanup(func() { archivePath = old })

	// Missing archive is not an error; the command explains how to create one.
	if err := runHistory(historyCmd, nil); err != nil {
		t.Errorf("runHistory with no archive: %v", err)
	}
}

func TestRunHistory_InvalidID(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	old := archivePath
	archivePath = ""
	t.Cleanup(func() { archivePath = old })

	// Create an empty archive so the ID path is reached.
	path, err := resolveArchivePath()
	if err != nil {
		t.Fatalf("resolveArchivePath: %v", err)
	}
	if err := touchArchive(path); err != nil {
		t.Fatalf("touchArchive: %v", err)
	}

	if err := runHistory(historyCmd, []string{"not-a-number"}); err == nil {
		t.Error("expected error for non-numeric session ID")
	}

	if err := runHistory(historyCmd, []string{"999"}); err == nil {
		t.Error("expected error for unknown session ID")
	}
}
