package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestClearCacheDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "seq"), 0755); err != nil {
		t.Fatal(err)
	}
	files := map[string]int{
		filepath.Join(dir, "seq", "a"): 100,
		filepath.Join(dir, "seq", "b"): 50,
		filepath.Join(dir, "c"):        25,
	}
	for path, size := range files {
		if err := os.WriteFile(path, make([]byte, size), 0644); err != nil {
			t.Fatal(err)
		}
	}

	entries, reclaimed, err := clearCacheDir(dir)
	if err != nil {
		t.Fatalf("clearCacheDir: %v", err)
	}
	if entries != 3 {
		t.Errorf("entries = %d, want 3", entries)
	}
	if reclaimed != 175 {
		t.Errorf("reclaimed = %d, want 175", reclaimed)
	}

	// The cache dir itself survives, emptied.
	left, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(left) != 0 {
		t.Errorf("cache dir should be empty, found %d entries", len(left))
	}
}

func TestClearCacheDirMissing(t *testing.T) {
	entries, reclaimed, err := clearCacheDir(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("missing dir should be an empty cache, got %v", err)
	}
	if entries != 0 || reclaimed != 0 {
		t.Errorf("entries = %d, reclaimed = %d, want 0, 0", entries, reclaimed)
	}
}

func TestFormatBytes(t *testing.T) {
	cases := map[int64]string{
		0:       "0 B",
		512:     "512 B",
		2048:    "2.0 KB",
		1536000: "1.5 MB",
	}
	for n, want := range cases {
		if got := formatBytes(n); got != want {
			t.Errorf("formatBytes(%d) = %q, want %q", n, got, want)
		}
	}
}
