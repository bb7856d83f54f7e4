package errmsg

import (
	"errors"
	"testing"
)

func TestFormat(t *testing.T) {
	if got := Format(OpCatalogQuery, nil); got != "" {
		t.Errorf("Format with nil error = %q, want empty", got)
	}

	err := errors.New("disk full")
	got := Format(OpSessionSave, err)
	want := "Failed to save playback session: disk full"
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestFormatWith(t *testing.T) {
	err := errors.New("no such file")
	got := FormatWith(OpImportProbe, "/music/a.flac", err)
	want := "Failed to read file metadata '/music/a.flac': no such file"
	if got != want {
		t.Errorf("FormatWith() = %q, want %q", got, want)
	}

	if got := FormatWith(OpImportProbe, "", err); got != Format(OpImportProbe, err) {
		t.Errorf("FormatWith with empty context = %q, want Format fallback", got)
	}
}
