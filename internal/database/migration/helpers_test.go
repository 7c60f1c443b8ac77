package migration

import (
	"io/fs"
	"os"
	"testing"
)

func osDirFS(t *testing.T, dir string) fs.FS {
	t.Helper()
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		t.Fatalf("migrations dir not found: %s", dir)
	}
	return os.DirFS(dir)
}
