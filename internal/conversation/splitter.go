package conversation

// imageMovedPlaceholder stands in for a tool result whose content was nothing
// but images; some transports reject tool results with empty content.
const imageMovedPlaceholder = "Tool produced image output; see the attached message."

// SplitToolResultImages relocates image content out of tool-result blocks into
// synthetic user messages, for transports that reject or silently drop inline
// binary media inside tool-result slots.
//
// For every tool result whose content mixes text and images, the rewritten
// tool result keeps only the text blocks (or a placeholder when there are
// none) and a user-role message carrying the images is inserted immediately
// after the triggering message, before any later message. The input slice is
// never mutated, and the transform is idempotent: rewritten tool results have
// no image blocks left, so a second pass is a no-op.
func SplitToolResultImages(messages []Message) []Message {
	out := make([]Message, 0, len(messages))
	for _, msg := range messages {
		rewritten, extracted := splitMessage(msg)
		out = append(out, rewritten)
		if len(extracted) > 0 {
			out = append(out, Message{Role: RoleUser, Blocks: extracted})
		}
	}
	return out
}

// splitMessage returns a copy of msg with image blocks removed from its tool
// results, plus the removed images in their original order.
func splitMessage(msg Message) (Message, []Block) {
	var extracted []Block
	blocks := make([]Block, len(msg.Blocks))
	for i, block := range msg.Blocks {
		if block.Kind != BlockToolResult || block.ToolResult == nil || !hasImage(block.ToolResult.Blocks) {
			blocks[i] = block
			continue
		}

		var text, images []Block
		for _, inner := range block.ToolResult.Blocks {
			if inner.Kind == BlockImage {
				images = append(images, inner)
			} else {
				text = append(text, inner)
			}
		}
		if len(text) == 0 {
			text = []Block{TextBlock(imageMovedPlaceholder)}
		}

		blocks[i] = Block{
			Kind:       BlockToolResult,
			ToolResult: &ToolResult{ToolUseID: block.ToolResult.ToolUseID, Blocks: text},
		}
		extracted = append(extracted, images...)
	}
	return Message{Role: msg.Role, Blocks: blocks}, extracted
}

func hasImage(blocks []Block) bool {
	for _, b := range blocks {
		if b.Kind == BlockImage {
			return true
		}
	}
	return false
}
