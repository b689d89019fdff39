// Package conversation holds the message model shared between the agent loop
// and the transport compatibility shims that post-process a turn's messages.
package conversation

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single conversational turn: an ordered list of content blocks.
type Message struct {
	Role   Role
	Blocks []Block
}

// BlockKind discriminates the content block variants.
type BlockKind string

const (
	BlockText       BlockKind = "text"
	BlockImage      BlockKind = "image"
	BlockToolResult BlockKind = "tool_result"
)

// Block is one content block inside a message. Exactly one of the payload
// fields is populated, selected by Kind.
type Block struct {
	Kind BlockKind

	Text       string
	Image      *ImageData
	ToolResult *ToolResult
}

// ImageData carries base64-encoded image bytes and their MIME type.
type ImageData struct {
	Data     string
	MimeType string
}

// ToolResult is the content returned by a tool invocation, itself a sequence
// of text and image blocks.
type ToolResult struct {
	ToolUseID string
	Blocks    []Block
}

// TextBlock builds a text content block.
func TextBlock(text string) Block {
	return Block{Kind: BlockText, Text: text}
}

// ImageBlock builds an image content block.
func ImageBlock(data, mimeType string) Block {
	return Block{Kind: BlockImage, Image: &ImageData{Data: data, MimeType: mimeType}}
}

// ToolResultBlock builds a tool-result content block.
func ToolResultBlock(toolUseID string, blocks ...Block) Block {
	return Block{Kind: BlockToolResult, ToolResult: &ToolResult{ToolUseID: toolUseID, Blocks: blocks}}
}
