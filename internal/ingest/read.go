package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/readfeed/readfeed-mcp/internal/fileaccess"
)

// Request describes a single file read.
type Request struct {
	Path   string
	Offset int // 1-indexed starting line; 0 reads from the start
	Limit  int // maximum lines to return; 0 leaves the caps in charge
}

// OffsetOutOfRangeError reports a requested offset beyond the end of the file.
type OffsetOutOfRangeError struct {
	Offset     int
	TotalLines int
}

func (e *OffsetOutOfRangeError) Error() string {
	return fmt.Sprintf("offset %d is beyond end of file (%d lines total)", e.Offset, e.TotalLines)
}

// Reader is the read orchestrator: it resolves the path, probes the content
// type, and routes to the text pagination or image ingestion pipeline.
//
// Reads hold no state across calls, so concurrent reads need no locking. The
// context is checked before every I/O step and before the result is produced:
// a canceled read returns ctx.Err() and leaks no partial content.
type Reader struct {
	FS         fileaccess.FS
	WorkingDir string
	AutoResize bool
	Images     Ingestor

	MaxLines int // 0 means DefaultMaxLines
	MaxBytes int // 0 means DefaultMaxBytes
}

func (r *Reader) maxLines() int {
	if r.MaxLines > 0 {
		return r.MaxLines
	}
	return DefaultMaxLines
}

func (r *Reader) maxBytes() int {
	if r.MaxBytes > 0 {
		return r.MaxBytes
	}
	return DefaultMaxBytes
}

// Read performs one file read and returns the ordered part sequence: exactly
// [TextPart] for text content, [TextPart, ImagePart] for images.
func (r *Reader) Read(ctx context.Context, req Request) ([]Part, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := fileaccess.ResolveExisting(ctx, r.FS, req.Path, r.WorkingDir)

	// Access failures propagate verbatim; the pipeline never retries.
	if err := r.FS.Access(ctx, path); err != nil {
		return nil, err
	}

	if mimeType := r.FS.DetectMIME(ctx, path); mimeType != "" {
		return r.readImage(ctx, path, mimeType)
	}
	return r.readText(ctx, path, req)
}

func (r *Reader) readImage(ctx context.Context, path, mimeType string) ([]Part, error) {
	data, err := r.FS.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}

	res, err := r.Images.Ingest(ctx, data, mimeType, path, r.AutoResize)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	note := fmt.Sprintf("Read image %s (%s)", filepath.Base(path), res.MimeType)
	if res.DimensionNote != "" {
		note += " [" + res.DimensionNote + "]"
	}
	return []Part{
		TextPart{Text: note},
		ImagePart{Image: res.Data, MimeType: res.MimeType},
	}, nil
}

func (r *Reader) readText(ctx context.Context, path string, req Request) ([]Part, error) {
	data, err := r.FS.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return []Part{TextPart{Text: "<system-reminder>Warning: the file exists but the contents are empty.</system-reminder>"}}, nil
	}

	lines := strings.Split(string(data), "\n")
	total := len(lines)

	start := 0
	if req.Offset > 0 {
		start = req.Offset - 1
	}
	if start >= total {
		return nil, &OffsetOutOfRangeError{Offset: req.Offset, TotalLines: total}
	}

	end := total
	if req.Limit > 0 && start+req.Limit < total {
		end = start + req.Limit
	}

	out := TruncateHead(strings.Join(lines[start:end], "\n"), r.maxLines(), r.maxBytes())
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if out.FirstLineExceedsLimit {
		return []Part{TextPart{Text: r.firstLineNote(path, start+1)}}, nil
	}

	text := out.Content + r.paginationNote(req, out, start, end, total)
	return []Part{TextPart{Text: text}}, nil
}

// firstLineNote is the annotation for a line too large to show under the byte
// cap. The read still succeeds; the message redirects to a tool capable of
// partial-line extraction.
func (r *Reader) firstLineNote(path string, lineNum int) string {
	return fmt.Sprintf(
		"[Line %d of %s exceeds the %dKB limit and cannot be shown. Use a command like `sed -n '%dp' %s | head -c 2000` via the bash tool to view part of it]",
		lineNum, path, r.maxBytes()/1024, lineNum, path,
	)
}

// paginationNote appends the trailing annotation describing how the slice was
// bounded. Precedence: cap-truncated note, then the lighter user-limit note,
// then nothing when the whole requested region fit.
func (r *Reader) paginationNote(req Request, out Outcome, start, end, total int) string {
	if out.Truncated {
		startDisplay := start + 1
		endDisplay := start + out.OutputLines
		nextOffset := endDisplay + 1
		if out.TruncatedBy == CutBytes {
			return fmt.Sprintf("\n\n[Showing lines %d-%d of %d (%dKB limit). Use offset=%d to continue]",
				startDisplay, endDisplay, total, r.maxBytes()/1024, nextOffset)
		}
		return fmt.Sprintf("\n\n[Showing lines %d-%d of %d. Use offset=%d to continue]",
			startDisplay, endDisplay, total, nextOffset)
	}

	if req.Limit > 0 && end < total {
		return fmt.Sprintf("\n\n[%d more lines in file. Use offset=%d to continue]", total-end, end+1)
	}
	return ""
}
