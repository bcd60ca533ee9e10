// Package fileutil provides integrity-checked file copies for archiving
// documents and media artifacts.
package fileutil

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ArchiveCopy copies src to dst, creating parent directories as needed and
// verifying the written bytes against a SHA256 of the source. The destination
// is removed on any mismatch so a failed archive never leaves a partial file.
func ArchiveCopy(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create archive directory: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	srcHasher := sha256.New()
	written, err := io.Copy(io.MultiWriter(out, srcHasher), in)
	if err != nil {
		os.Remove(dst)
		return fmt.Errorf("copy: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return err
	}
	if written != srcInfo.Size() {
		os.Remove(dst)
		return fmt.Errorf("archive size mismatch: wrote %d of %d bytes", written, srcInfo.Size())
	}

	dstHasher := sha256.New()
	check, err := os.Open(dst)
	if err != nil {
		os.Remove(dst)
		return err
	}
	defer check.Close()
	if _, err := io.Copy(dstHasher, check); err != nil {
		os.Remove(dst)
		return fmt.Errorf("verify archive: %w", err)
	}
	if !bytes.Equal(srcHasher.Sum(nil), dstHasher.Sum(nil)) {
		os.Remove(dst)
		return fmt.Errorf("archive checksum mismatch for %s", dst)
	}
	return nil
}
