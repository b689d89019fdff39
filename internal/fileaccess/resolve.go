package fileaccess

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// normalizeSpaces replaces non-ASCII Unicode space characters with U+0020.
// Models occasionally reproduce paths with narrow no-break or ideographic
// spaces copied from terminal output.
func normalizeSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isUnicodeSpace(r) {
			b.WriteByte(' ')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isUnicodeSpace(r rune) bool {
	switch {
	case r == ' ':
		return true
	case r >= ' ' && r <= ' ':
		return true
	case r == ' ', r == ' ', r == '　':
		return true
	}
	return false
}

// expandPath strips a leading "@" (a prefix models sometimes prepend to file
// mentions), expands "~" to the user home directory, and normalizes Unicode
// spaces.
func expandPath(path string) string {
	path = strings.TrimPrefix(path, "@")
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			path = home + path[1:]
		}
	}
	return normalizeSpaces(path)
}

// Resolve normalizes path against workingDir: absolute paths are cleaned and
// returned as-is, relative paths are joined onto workingDir. It never touches
// the filesystem; existence checks belong to the caller.
func Resolve(path, workingDir string) string {
	path = expandPath(path)
	if !filepath.IsAbs(path) {
		path = filepath.Join(workingDir, path)
	}
	return filepath.Clean(path)
}

// ResolveExisting tries Unicode-variant resolutions of path against fsys and
// returns the first candidate that is accessible. If none is, it returns the
// direct resolution so the caller's access check reports the real error.
func ResolveExisting(ctx context.Context, fsys FS, path, workingDir string) string {
	candidates := []string{
		Resolve(path, workingDir),
		Resolve(strings.ReplaceAll(path, " ", " "), workingDir),
		Resolve(norm.NFD.String(path), workingDir),
		Resolve(strings.ReplaceAll(path, "’", "'"), workingDir),
		Resolve(norm.NFD.String(strings.ReplaceAll(path, "’", "'")), workingDir),
	}

	for _, c := range candidates {
		if fsys.Access(ctx, c) == nil {
			return c
		}
	}
	return candidates[0]
}
