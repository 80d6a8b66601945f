package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestSessionRoundTrip(t *testing.T) {
	dir := t.TempDir()

	saved := &SessionFile{
		Address: "#42",
		Seed:    "deadbeef",
		PeerURL: "http://peer.convex.live:8080",
	}
	path, err := SaveSession(dir, saved)
	if err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	if filepath.Base(path) != "session.json" {
		t.Errorf("unexpected file name %s", path)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("session file mode = %v, want 0600", info.Mode().Perm())
	}

	loaded, err := LoadSession(dir)
	if err != nil {
		t.Fatalf("LoadSession: %v", err)
	}
	if *loaded != *saved {
		t.Errorf("loaded %+v, want %+v", loaded, saved)
	}
}

func TestLoadSession_MissingFile(t *testing.T) {
	if _, err := LoadSession(t.TempDir()); err == nil {
		t.Fatal("expected an error for a missing session file")
	}
}

func TestLoadBalanceHistory_MissingFileYieldsEmpty(t *testing.T) {
	history, err := LoadBalanceHistory(t.TempDir())
	if err != nil {
		t.Fatalf("LoadBalanceHistory: %v", err)
	}
	if len(history.Entries) != 0 {
		t.Errorf("expected empty history, got %d entries", len(history.Entries))
	}
}

func TestAppendBalanceSnapshot_TrimsToCapacity(t *testing.T) {
	dir := t.TempDir()

	for i := 0; i < 5; i++ {
		balances := map[string]float64{"CVX": float64(i)}
		if err := AppendBalanceSnapshot(dir, balances, 3); err != nil {
			t.Fatalf("snapshot %d: %v", i, err)
		}
	}

	history, err := LoadBalanceHistory(dir)
	if err != nil {
		t.Fatalf("LoadBalanceHistory: %v", err)
	}
	if len(history.Entries) != 3 {
		t.Fatalf("expected 3 entries after trim, got %d", len(history.Entries))
	}
	// The oldest snapshots (0 and 1) are gone; 2, 3, 4 remain in order.
	for i, entry := range history.Entries {
		want := float64(i + 2)
		if entry.Balances["CVX"] != want {
			t.Errorf("entry %d: balance %v, want %v", i, entry.Balances["CVX"], want)
		}
		if entry.Timestamp == "" {
			t.Errorf("entry %d: missing timestamp", i)
		}
	}
}

func TestAppendBalanceSnapshot_LeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	if err := AppendBalanceSnapshot(dir, map[string]float64{"USDF": 7}, 0); err != nil {
		t.Fatalf("AppendBalanceSnapshot: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "balance_history.json.tmp")); !os.IsNotExist(err) {
		t.Error("temp file must be renamed away")
	}
}

func TestAppendBalanceSnapshot_UnlimitedCapacity(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 4; i++ {
		balances := map[string]float64{fmt.Sprintf("T%d", i): 1}
		if err := AppendBalanceSnapshot(dir, balances, 0); err != nil {
			t.Fatalf("snapshot %d: %v", i, err)
		}
	}
	history, err := LoadBalanceHistory(dir)
	if err != nil {
		t.Fatalf("LoadBalanceHistory: %v", err)
	}
	if len(history.Entries) != 4 {
		t.Errorf("capacity 0 must keep everything, got %d entries", len(history.Entries))
	}
}
