package tools

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readfeed/readfeed-mcp/internal/skills"
)

func TestListSkills_DiscoversManifests(t *testing.T) {
	root := t.TempDir()
	skillDir := filepath.Join(root, "commit-helper")
	require.NoError(t, os.MkdirAll(skillDir, 0o755))
	manifest := "---\nname: commit-helper\ndescription: Writes commit messages\n---\nInstructions.\n"
	require.NoError(t, os.WriteFile(filepath.Join(skillDir, "SKILL.md"), []byte(manifest), 0o644))

	state := NewState()
	state.Skills = skills.Loader{Dir: root}

	found, err := state.executeListSkills(context.Background())
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "commit-helper", found[0].Name)
	assert.Equal(t, "Writes commit messages", found[0].Description)
}

func TestListSkills_NoDirConfigured(t *testing.T) {
	state := NewState()
	found, err := state.executeListSkills(context.Background())
	require.NoError(t, err)
	assert.Empty(t, found)
}
