package ingest

import "strings"

const (
	// DefaultMaxLines caps how many lines a single read returns.
	DefaultMaxLines = 2000

	// DefaultMaxBytes caps the UTF-8 encoded size of a single read.
	DefaultMaxBytes = 50 * 1024
)

// CutReason records which cap stopped the truncation, if any.
type CutReason string

const (
	CutNone  CutReason = ""
	CutLines CutReason = "lines"
	CutBytes CutReason = "bytes"
)

// Outcome is the result of applying the line and byte caps to a text payload.
type Outcome struct {
	Content     string
	OutputLines int
	Truncated   bool
	TruncatedBy CutReason

	// FirstLineExceedsLimit is set when the first line alone is larger than
	// the byte cap. No content is emitted in that case; the caller redirects
	// the user to a tool capable of partial-line extraction.
	FirstLineExceedsLimit bool
}

// TruncateHead keeps lines from the start of text until adding the next line
// would exceed maxLines or maxBytes, whichever happens first. The cut always
// falls on a line boundary; a partially included line is never emitted.
//
// Offset/limit slicing is not this function's job: it operates on whatever
// slice of the file the caller hands it and only decides where the caps-driven
// cut falls within that slice.
func TruncateHead(text string, maxLines, maxBytes int) Outcome {
	lines := strings.Split(text, "\n")

	if len(lines[0]) > maxBytes {
		return Outcome{FirstLineExceedsLimit: true}
	}

	kept := 0
	size := 0
	reason := CutNone
	for i, line := range lines {
		if kept >= maxLines {
			reason = CutLines
			break
		}
		cost := len(line)
		if i > 0 {
			cost++ // the joining newline
		}
		if size+cost > maxBytes {
			reason = CutBytes
			break
		}
		size += cost
		kept++
	}

	return Outcome{
		Content:     strings.Join(lines[:kept], "\n"),
		OutputLines: kept,
		Truncated:   reason != CutNone,
		TruncatedBy: reason,
	}
}
