package fs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// BalanceEntry is one balance snapshot taken by the poller.
type BalanceEntry struct {
	Timestamp string             `json:"timestamp"` // RFC3339
	Balances  map[string]float64 `json:"balances"`  // symbol -> balance
}

// BalanceHistory is the file structure for balance_history.json.
type BalanceHistory struct {
	Entries []BalanceEntry `json:"entries"`
}

func balanceHistoryPath(dataDir string) string {
	return filepath.Join(dataDir, "balance_history.json")
}

// LoadBalanceHistory loads the snapshot history. A missing file yields an
// empty dataset, not an error.
func LoadBalanceHistory(dataDir string) (*BalanceHistory, error) {
	filePath := balanceHistoryPath(dataDir)

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return &BalanceHistory{Entries: []BalanceEntry{}}, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read balance history file: %w", err)
	}

	if len(data) == 0 {
		return &BalanceHistory{Entries: []BalanceEntry{}}, nil
	}

	var history BalanceHistory
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("failed to parse balance history JSON: %w", err)
	}

	if history.Entries == nil {
		history.Entries = []BalanceEntry{}
	}

	return &history, nil
}

// AppendBalanceSnapshot adds one snapshot, trimming the history to
// maxEntries (0 keeps everything). Written atomically via a temp file.
func AppendBalanceSnapshot(dataDir string, balances map[string]float64, maxEntries int) error {
	filePath := balanceHistoryPath(dataDir)

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	history, err := LoadBalanceHistory(dataDir)
	if err != nil {
		history = &BalanceHistory{Entries: []BalanceEntry{}}
	}

	history.Entries = append(history.Entries, BalanceEntry{
		Timestamp: time.Now().Format(time.RFC3339),
		Balances:  balances,
	})

	if maxEntries > 0 && len(history.Entries) > maxEntries {
		history.Entries = history.Entries[len(history.Entries)-maxEntries:]
	}

	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal balance history JSON: %w", err)
	}

	tempFilePath := filePath + ".tmp"
	if err := os.WriteFile(tempFilePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write balance history temp file: %w", err)
	}
	if err := os.Rename(tempFilePath, filePath); err != nil {
		return fmt.Errorf("failed to replace balance history file: %w", err)
	}

	return nil
}
