package safeen

import (
	"fmt"
	"unsafe"

	"go.etcd.io/bbolt"
)

// BoltStorage keeps database images as values in one Bolt bucket, so many
// databases can share a single Bolt file.
type BoltStorage struct {
	bdb    *bbolt.DB
	bucket []byte
}

var _ Storage = (*BoltStorage)(nil)

// NewBoltStorage stores images in the given bucket of bdb. The bucket is
// created on first write.
func NewBoltStorage(bdb *bbolt.DB, bucket string) *BoltStorage {
	return &BoltStorage{bdb: bdb, bucket: []byte(bucket)}
}

// OpenBoltStorage opens (or creates) a Bolt file and stores images in its
// bucket. Close the returned storage when done.
func OpenBoltStorage(path, bucket string) (*BoltStorage, error) {
	bdb, err := bbolt.Open(path, 0o666, nil)
	if err != nil {
		return nil, fmt.Errorf("bolt: %w", err)
	}
	return NewBoltStorage(bdb, bucket), nil
}

func (s *BoltStorage) Bolt() *bbolt.DB {
	return s.bdb
}

func (s *BoltStorage) Close() error {
	return s.bdb.Close()
}

func (s *BoltStorage) ReadBlob(name string) ([]byte, error) {
	var data []byte
	err := s.bdb.View(func(btx *bbolt.Tx) error {
		b := btx.Bucket(s.bucket)
		if b == nil {
			return fmt.Errorf("%w: %q (no bucket %s)", ErrBlobNotFound, name, s.bucket)
		}
		v := b.Get(unsafeBytesFromString(name))
		if v == nil {
			return fmt.Errorf("%w: %q", ErrBlobNotFound, name)
		}
		// v is only valid for the lifetime of the transaction
		data = append([]byte(nil), v...)
		return nil
	})
	return data, err
}

func (s *BoltStorage) WriteBlob(name string, data []byte) error {
	return s.bdb.Update(func(btx *bbolt.Tx) error {
		b, err := btx.CreateBucketIfNotExists(s.bucket)
		if err != nil {
			return err
		}
		return b.Put([]byte(name), data)
	})
}

// DeleteBlob removes an image; deleting a missing image is not an error.
func (s *BoltStorage) DeleteBlob(name string) error {
	return s.bdb.Update(func(btx *bbolt.Tx) error {
		b := btx.Bucket(s.bucket)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(name))
	})
}

// Names lists stored images in key order.
func (s *BoltStorage) Names() ([]string, error) {
	var names []string
	err := s.bdb.View(func(btx *bbolt.Tx) error {
		b := btx.Bucket(s.bucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}

func unsafeBytesFromString(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
