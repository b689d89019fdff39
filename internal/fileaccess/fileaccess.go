// Package fileaccess isolates filesystem I/O behind a small capability set so
// the ingestion pipeline can run against the local disk in production and an
// in-memory map in tests.
package fileaccess

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/gabriel-vasile/mimetype"
)

// FS is the capability set the read pipeline needs from a file source:
// an access probe, a full-content read, and a content-type probe.
type FS interface {
	// Access reports whether path names a readable regular file.
	Access(ctx context.Context, path string) error

	// ReadFile returns the entire content of path.
	ReadFile(ctx context.Context, path string) ([]byte, error)

	// DetectMIME returns the sniffed MIME type when the content of path
	// matches a supported image signature, and "" for everything else.
	// It never fails: unreadable or empty files report "" and the
	// subsequent ReadFile surfaces the real I/O error.
	DetectMIME(ctx context.Context, path string) string
}

// supportedImageMIMEs is the closed set of image formats the pipeline emits
// as image parts. Content sniffing decides membership; file extensions do not.
var supportedImageMIMEs = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
}

// imageMIME maps a sniffed type onto the supported set, or "".
func imageMIME(m *mimetype.MIME) string {
	for _, want := range supportedImageMIMEs {
		if m.Is(want) {
			return want
		}
	}
	return ""
}

// Local reads from the local filesystem.
type Local struct{}

func (Local) Access(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}
	return nil
}

func (Local) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

func (Local) DetectMIME(ctx context.Context, path string) string {
	if ctx.Err() != nil {
		return ""
	}
	m, err := mimetype.DetectFile(path)
	if err != nil {
		return ""
	}
	return imageMIME(m)
}

// Mem is an in-memory FS for unit tests, mapping absolute paths to content.
type Mem struct {
	Files map[string][]byte
}

func (m Mem) Access(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, ok := m.Files[path]; !ok {
		return &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return nil
}

func (m Mem) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, ok := m.Files[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return data, nil
}

func (m Mem) DetectMIME(ctx context.Context, path string) string {
	if ctx.Err() != nil {
		return ""
	}
	data, ok := m.Files[path]
	if !ok || len(data) == 0 {
		return ""
	}
	return imageMIME(mimetype.Detect(data))
}
