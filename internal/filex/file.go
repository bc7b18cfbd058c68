// Package filex contains small filesystem helpers used when staging files
// for upload.
package filex

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
)

// Info describes a local file about to be enqueued for upload.
type Info struct {
	Path      string
	Name      string
	SizeBytes int64
	MimeType  string
}

// Describe stats path and derives the declared MIME type from the file
// extension, falling back to application/octet-stream. Directories are
// refused.
func Describe(path string) (Info, error) {
	st, err := os.Stat(path)
	if err != nil {
		return Info{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if st.IsDir() {
		return Info{}, fmt.Errorf("%s is a directory", path)
	}

	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	// drop parameters like "; charset=utf-8"
	if base, _, err := mime.ParseMediaType(mimeType); err == nil {
		mimeType = base
	}

	return Info{
		Path:      path,
		Name:      filepath.Base(path),
		SizeBytes: st.Size(),
		MimeType:  mimeType,
	}, nil
}

// EnsureDir creates dir (and parents) if needed and returns its absolute
// path. Used for the local journal location.
func EnsureDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}
	return abs, nil
}
