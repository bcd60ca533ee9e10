package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestArchiveCopy(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "report.pdf")
	dst := filepath.Join(dir, "archive", "nested", "report.pdf")

	content := []byte("document bytes")
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := ArchiveCopy(src, dst); err != nil {
		t.Fatalf("ArchiveCopy: %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	if string(got) != string(content) {
		t.Fatalf("archive content mismatch: %q", got)
	}
}

func TestArchiveCopyMissingSource(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "out.bin")
	if err := ArchiveCopy(filepath.Join(dir, "absent.bin"), dst); err == nil {
		t.Fatal("expected error for missing source")
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Fatal("destination should not exist after failed archive")
	}
}
