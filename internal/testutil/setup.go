package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// IndexName is the file name of a resource index inside a module.
const IndexName = "resources.index"

// WriteIndex writes data to <tmp>/<module>/<IndexName> and returns the path.
// The module directory mirrors an unpacked package so the resource root
// derived from the path is the temp directory itself.
//
// Example:
//
//	path := testutil.WriteIndex(t, "entry", gen.V2())
func WriteIndex(t *testing.T, module string, data []byte) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), module)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, IndexName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// Rewrite replaces the contents of path and moves its modification time
// forward by d so caches keyed on mtime notice the change.
func Rewrite(t *testing.T, path string, data []byte, d time.Duration) {
	t.Helper()
	st, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	mtime := st.ModTime().Add(d)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("chtimes %s: %v", path, err)
	}
}
