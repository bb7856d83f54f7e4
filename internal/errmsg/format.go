// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Catalog operations
	OpCatalogOpen   Op = "open catalog"
	OpCatalogQuery  Op = "query catalog"
	OpCatalogInsert Op = "insert into catalog"
	OpCatalogUpdate Op = "update catalog entry"
	OpCatalogDelete Op = "delete from catalog"

	// Import operations
	OpImportLibrary Op = "import library file"
	OpImportFiles   Op = "add files to library"
	OpImportProbe   Op = "read file metadata"

	// Cover operations
	OpCoverExtract Op = "extract album cover"

	// Playlist operations
	OpPlaylistCreate Op = "create playlist"
	OpPlaylistUpdate Op = "update playlist"
	OpPlaylistDelete Op = "delete playlist"

	// File operations
	OpFileCopy   Op = "copy media file"
	OpFileDelete Op = "delete media file"
	OpFileMove   Op = "move media file"

	// Playback operations
	OpPlaybackStart  Op = "start playback"
	OpPlaybackSeek   Op = "seek"
	OpPlaybackVolume Op = "set volume"

	// Session operations
	OpSessionSave    Op = "save playback session"
	OpSessionRestore Op = "restore playback session"

	// Initialization
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
