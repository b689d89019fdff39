package skills

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const frontmatterDelimiter = "---"

// parseFrontmatter extracts YAML frontmatter from Markdown content, returning
// the decoded metadata and the remaining body. Content without an opening
// delimiter is returned unchanged with zero metadata; an unterminated
// frontmatter block is an error.
func parseFrontmatter[T any](content string) (T, string, error) {
	var zero T

	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(normalized, frontmatterDelimiter+"\n") {
		return zero, content, nil
	}

	rest := normalized[len(frontmatterDelimiter)+1:]
	yamlContent, afterClosing, ok := strings.Cut(rest, "\n"+frontmatterDelimiter)
	if !ok {
		if rest == frontmatterDelimiter || strings.HasPrefix(rest, frontmatterDelimiter+"\n") {
			// Empty frontmatter: the closing delimiter immediately follows.
			yamlContent, afterClosing = "", rest[len(frontmatterDelimiter):]
		} else {
			return zero, "", errors.New("unterminated frontmatter: missing closing ---")
		}
	}

	body := strings.TrimPrefix(afterClosing, "\n")

	var meta T
	if err := yaml.Unmarshal([]byte(yamlContent), &meta); err != nil {
		return zero, "", fmt.Errorf("parse frontmatter YAML: %w", err)
	}
	return meta, body, nil
}
