package migrations

import (
	"os"
	"path/filepath"
	"testing"
)

func TestVersion(t *testing.T) {
	cases := map[string]string{
		"001_session_revocations.sql": "001",
		"migrations/002_reset.sql":    "002",
		"003.sql":                     "003.sql",
	}
	for name, want := range cases {
		if got := Version(name); got != want {
			t.Fatalf("Version(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestSQLFilesSortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_b.sql", "001_a.sql", "README.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "000_dir.sql"), 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	files, err := SQLFiles(dir)
	if err != nil {
		t.Fatalf("SQLFiles: %v", err)
	}
	if len(files) != 2 || filepath.Base(files[0]) != "001_a.sql" || filepath.Base(files[1]) != "002_b.sql" {
		t.Fatalf("unexpected files %v", files)
	}

	if _, err := SQLFiles(filepath.Join(dir, "missing")); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}
