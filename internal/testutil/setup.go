package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteTemp writes data to name inside a fresh temp directory and returns
// the path.
func WriteTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteHic builds s and writes it to a temp file.
func WriteHic(t *testing.T, s HicSpec) (string, *HicFile) {
	t.Helper()
	f := BuildHic(s)
	return WriteTemp(t, "input.hic", f.Data), f
}

// ReadFile reads path or fails the test.
func ReadFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return data
}
