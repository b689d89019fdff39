package tools

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/readfeed/readfeed-mcp/internal/fileaccess"
	"github.com/readfeed/readfeed-mcp/internal/ingest"
)

func (s *State) executeRead(ctx context.Context, filePath string, offset, limit int64) ([]ingest.Part, error) {
	// Negative values clamp to "not provided"; only offset-beyond-EOF is an
	// error, reported by the pipeline itself.
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	parts, err := s.reader().Read(ctx, ingest.Request{
		Path:   filePath,
		Offset: int(offset),
		Limit:  int(limit),
	})
	if err != nil {
		return nil, err
	}

	// Track modification time for files that have been read, enabling change
	// detection for collaborators that care when a file was last seen.
	resolved := fileaccess.Resolve(filePath, s.WorkingDir)
	s.Mu.Lock()
	if info, statErr := os.Stat(resolved); statErr == nil {
		s.ReadFiles[resolved] = info.ModTime()
	}
	s.Mu.Unlock()

	return parts, nil
}

var ReadTool = sdk.Tool{
	Name: "read",
	Description: fmt.Sprintf(
		"Reads a file from the local filesystem and returns its content as one or more parts.\n\nUsage:\n- The path parameter may be absolute or relative to the server working directory\n- Text output is truncated to %d lines or %dKB, whichever is hit first; a trailing note names the shown range and the offset to resume from\n- You can optionally specify a 1-indexed line offset and a line limit for large files\n- Supported images (png, jpeg, gif, webp) are returned as an image part, downsized when oversized\n- If you read a file that exists but has empty contents you will receive a system reminder warning in place of file contents.",
		ingest.DefaultMaxLines,
		ingest.DefaultMaxBytes/1024,
	),
}

type ReadInput struct {
	Path   string `json:"path" jsonschema:"The path to the file to read (absolute, or relative to the working directory)"`
	Offset int64  `json:"offset,omitempty" jsonschema:"The 1-indexed line number to start reading from. Only provide if the file is too large to read at once"`
	Limit  int64  `json:"limit,omitempty" jsonschema:"The number of lines to read. Only provide if the file is too large to read at once"`
}
type ReadOutput struct {
	Content string `json:"content"`
}

func Read(ctx context.Context, req *sdk.CallToolRequest, args ReadInput) (*sdk.CallToolResult, any, error) {
	server := GetState()
	parts, err := server.executeRead(ctx, args.Path, args.Offset, args.Limit)
	if err != nil {
		return nil, nil, err
	}

	content := make([]sdk.Content, 0, len(parts))
	var texts []string
	for _, part := range parts {
		switch p := part.(type) {
		case ingest.TextPart:
			content = append(content, &sdk.TextContent{Text: p.Text})
			texts = append(texts, p.Text)
		case ingest.ImagePart:
			raw, decErr := base64.StdEncoding.DecodeString(p.Image)
			if decErr != nil {
				return nil, nil, fmt.Errorf("decoding image part: %w", decErr)
			}
			content = append(content, &sdk.ImageContent{Data: raw, MIMEType: p.MimeType})
		}
	}

	output := &ReadOutput{Content: strings.Join(texts, "\n")}
	return &sdk.CallToolResult{
		Content:           content,
		StructuredContent: output,
	}, output, nil
}
