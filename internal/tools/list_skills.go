package tools

import (
	"context"
	"fmt"
	"strings"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/readfeed/readfeed-mcp/internal/skills"
)

func (s *State) executeListSkills(ctx context.Context) ([]skills.Skill, error) {
	s.Mu.RLock()
	loader := s.Skills
	s.Mu.RUnlock()
	return loader.Discover(ctx)
}

var ListSkillsTool = sdk.Tool{
	Name:        "list_skills",
	Description: "Lists the skills available to the agent. Each skill is a SKILL.md manifest discovered under the configured skills directory; the description tells you when the skill applies. Read the manifest path with the read tool to load a skill's full instructions.",
}

type ListSkillsInput struct{}

type ListSkillsOutput struct {
	Skills []skills.Skill `json:"skills"`
}

func ListSkills(ctx context.Context, req *sdk.CallToolRequest, args ListSkillsInput) (*sdk.CallToolResult, any, error) {
	server := GetState()
	found, err := server.executeListSkills(ctx)
	if err != nil {
		return nil, nil, err
	}

	var b strings.Builder
	if len(found) == 0 {
		b.WriteString("No skills found")
	}
	for _, sk := range found {
		fmt.Fprintf(&b, "%s: %s (%s)\n", sk.Name, sk.Description, sk.Path)
	}

	output := &ListSkillsOutput{Skills: found}
	return &sdk.CallToolResult{
		Content:           []sdk.Content{&sdk.TextContent{Text: strings.TrimRight(b.String(), "\n")}},
		StructuredContent: output,
	}, output, nil
}
