package fs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SessionFile stores adopted credentials between runs so a reconnect can
// reuse the same account instead of bootstrapping a fresh one.
type SessionFile struct {
	Address string `json:"address"`
	Seed    string `json:"seed"`
	PeerURL string `json:"peerUrl"`
}

// SaveSession writes session.json into the data dir.
func SaveSession(dataDir string, session *SessionFile) (string, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal session file: %w", err)
	}

	filename := filepath.Join(dataDir, "session.json")
	if err := os.WriteFile(filename, data, 0600); err != nil {
		return "", fmt.Errorf("failed to save session file: %w", err)
	}

	return filename, nil
}

// LoadSession reads session.json from the data dir.
func LoadSession(dataDir string) (*SessionFile, error) {
	filename := filepath.Join(dataDir, "session.json")

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var session SessionFile
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session file: %w", err)
	}

	return &session, nil
}
