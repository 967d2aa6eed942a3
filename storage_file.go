package safeen

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/behemehal/SafeEn/internal/atomicfile"
)

// FileStorage stores each image in its own file. Names are paths, resolved
// against Dir when they are relative and Dir is set.
type FileStorage struct {
	Dir  string
	Perm fs.FileMode
}

var _ Storage = FileStorage{}

func (s FileStorage) path(name string) string {
	if s.Dir == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.Dir, name)
}

func (s FileStorage) ReadBlob(name string) ([]byte, error) {
	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Join(ErrBlobNotFound, err)
	}
	return data, err
}

func (s FileStorage) WriteBlob(name string, data []byte) error {
	perm := s.Perm
	if perm == 0 {
		perm = 0o644
	}
	return atomicfile.WriteFile(s.path(name), data, perm)
}
