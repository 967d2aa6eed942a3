package safeen

// Storage holds encoded database images under names. Save and Load use a
// file-backed Storage; SaveTo and LoadFrom accept any backend.
type Storage interface {
	// ReadBlob returns the stored image, or an error wrapping
	// ErrBlobNotFound if there is none.
	ReadBlob(name string) ([]byte, error)

	// WriteBlob replaces the image stored under name. Readers must observe
	// either the old or the new image.
	WriteBlob(name string, data []byte) error
}
