package playback

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/mkeller/aria/internal/catalog"
)

const sessionFileName = "aria/session.json"

// Snapshot is the persisted playback session, written after every
// state-mutating transition and read back once at startup.
type Snapshot struct {
	Volume   int        `json:"volume"`
	Position int64      `json:"position"` // milliseconds
	Shuffle  bool       `json:"shuffle"`
	Repeat   RepeatMode `json:"repeat"`

	Current *catalog.AudioTrack `json:"current,omitempty"`
	Queue   []int64             `json:"queue"`
	History []int64             `json:"history"`
}

// SessionStore reads and writes the session snapshot file.
type SessionStore struct {
	path string
}

// NewSessionStore resolves the snapshot location under the user data
// directory. path overrides the default when non-empty.
func NewSessionStore(path string) (*SessionStore, error) {
	if path == "" {
		resolved, err := xdg.DataFile(sessionFileName)
		if err != nil {
			return nil, err
		}
		path = resolved
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &SessionStore{path: path}, nil
}

// Save overwrites the snapshot atomically (write to temp, rename).
func (s *SessionStore) Save(snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Load reads the snapshot. A missing or malformed file reports
// ok=false and means "fresh session", never an error to surface.
func (s *SessionStore) Load() (Snapshot, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Snapshot{}, false
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, false
	}
	return snap, true
}
