// Package atomicfile replaces files so that readers observe either the old
// or the new content, never a partial write.
package atomicfile

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// WriteFile writes data to a temporary file next to path, flushes it to
// stable storage and renames it over path.
func WriteFile(path string, data []byte, perm fs.FileMode) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	f, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return err
	}

	var ok bool
	defer closeAndDeleteUnlessOK(f, &ok)

	if _, err := f.Write(data); err != nil {
		return err
	}
	if err := Fdatasync(f); err != nil {
		return fmt.Errorf("%s: sync: %w", f.Name(), err)
	}
	if err := f.Chmod(perm); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Rename(f.Name(), path); err != nil {
		return err
	}
	ok = true

	syncDir(dir)
	return nil
}

// Fdatasync flushes the file's data (but not necessarily its metadata) to
// stable storage, using the fastest call the platform offers.
func Fdatasync(f *os.File) error {
	return fdatasync(f)
}

func closeAndDeleteUnlessOK(f *os.File, ok *bool) {
	if *ok {
		return
	}
	f.Close()
	os.Remove(f.Name())
}

// syncDir makes the rename durable where the platform supports it. Errors
// are ignored: the data itself is already on disk.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	d.Close()
}
