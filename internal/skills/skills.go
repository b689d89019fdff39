// Package skills discovers agent skills on disk: directories carrying a
// SKILL.md manifest with YAML frontmatter describing when the skill applies.
package skills

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const manifestName = "SKILL.md"

// Skill is one discovered skill manifest.
type Skill struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	// Path is the manifest location on disk, filled in during discovery.
	Path string `yaml:"-"`
}

// Loader walks a skills directory for SKILL.md manifests, skipping paths that
// match any of the gitignore-style Ignore patterns.
type Loader struct {
	Dir string

	// Ignore patterns are matched with doublestar semantics against the
	// path relative to Dir, e.g. "node_modules/**" or "**/.git".
	Ignore []string
}

// Discover walks the loader directory and returns all parseable skills sorted
// by name. A missing directory is not an error; it yields no skills.
func (l *Loader) Discover(ctx context.Context) ([]Skill, error) {
	if l.Dir == "" {
		return nil, nil
	}

	var found []Skill
	err := filepath.WalkDir(l.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees and a missing root are skipped, not fatal.
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, relErr := filepath.Rel(l.Dir, path)
		if relErr != nil {
			return nil
		}
		if l.ignored(rel) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || d.Name() != manifestName {
			return nil
		}

		skill, parseErr := l.load(path)
		if parseErr != nil {
			return fmt.Errorf("skill %s: %w", rel, parseErr)
		}
		found = append(found, skill)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Name < found[j].Name })
	return found, nil
}

func (l *Loader) ignored(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range l.Ignore {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func (l *Loader) load(path string) (Skill, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Skill{}, err
	}

	skill, _, err := parseFrontmatter[Skill](string(data))
	if err != nil {
		return Skill{}, err
	}
	if skill.Name == "" {
		// Default the name to the directory holding the manifest.
		skill.Name = filepath.Base(filepath.Dir(path))
	}
	skill.Description = strings.TrimSpace(skill.Description)
	skill.Path = path
	return skill, nil
}
