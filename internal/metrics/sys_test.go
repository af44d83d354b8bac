package metrics

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCollectSysHealth(t *testing.T) {
	dataPath := t.TempDir()
	dbPath := filepath.Join(dataPath, "fridge.db")
	if err := os.WriteFile(dbPath, make([]byte, 2048), 0644); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := os.WriteFile(filepath.Join(dataPath, "other.log"), make([]byte, 512), 0644); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	health := CollectSysHealth(dataPath, dbPath)

	if health.DatabaseSize != "2.0 KB" {
		t.Errorf("Expected database size '2.0 KB', got '%s'", health.DatabaseSize)
	}
	// 2048 + 512 bytes across the directory.
	if health.DataDirSize != "2.5 KB" {
		t.Errorf("Expected data dir size '2.5 KB', got '%s'", health.DataDirSize)
	}
	if health.Goroutines < 1 {
		t.Errorf("Expected at least one goroutine, got %d", health.Goroutines)
	}
}

func TestCollectSysHealthMissingPaths(t *testing.T) {
	health := CollectSysHealth(filepath.Join(t.TempDir(), "nope"), filepath.Join(t.TempDir(), "nope.db"))
	if health.DatabaseSize != "0 B" || health.DataDirSize != "0 B" {
		t.Errorf("Expected zero sizes for missing paths, got %s / %s", health.DatabaseSize, health.DataDirSize)
	}
}

func TestFormatBytes(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{2048, "2.0 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	}
	for _, tc := range cases {
		if got := formatBytes(tc.in); got != tc.want {
			t.Errorf("formatBytes(%d): expected '%s', got '%s'", tc.in, tc.want, got)
		}
	}
}
