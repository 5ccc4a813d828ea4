package agent

import (
	"encoding/json"
	"strings"
)

// Conversation roles. The Anthropic Messages API only ever sees user and
// assistant turns; tool results ride inside user messages.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Content block types.
const (
	BlockTypeText       = "text"
	BlockTypeToolUse    = "tool_use"
	BlockTypeToolResult = "tool_result"
)

// Stop reasons reported by MessageResponse.StopReason.
const (
	StopEndTurn   = "end_turn"
	StopToolUse   = "tool_use"
	StopMaxTokens = "max_tokens"
)

// ContentBlock is one semantic unit within a message: plain text, a tool
// invocation requested by the model (tool_use), or the answer to one
// (tool_result). Type selects which of the remaining fields are meaningful.
type ContentBlock struct {
	Type string `json:"type"`

	// text
	Text string `json:"text,omitempty"`

	// tool_use
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`

	// tool_result
	ToolUseID string `json:"tool_use_id,omitempty"`
	Content   string `json:"content,omitempty"`
}

// TextBlock builds a text content block.
func TextBlock(text string) ContentBlock {
	return ContentBlock{Type: BlockTypeText, Text: text}
}

// ToolUseBlock builds a tool_use content block with the given correlation id,
// tool name, and raw JSON arguments.
func ToolUseBlock(id, name string, input json.RawMessage) ContentBlock {
	return ContentBlock{Type: BlockTypeToolUse, ID: id, Name: name, Input: input}
}

// ToolResultBlock builds a tool_result content block answering the tool_use
// block with the given id.
func ToolResultBlock(toolUseID, content string) ContentBlock {
	return ContentBlock{Type: BlockTypeToolResult, ToolUseID: toolUseID, Content: content}
}

// Message is a single conversational turn: a role and an ordered sequence of
// content blocks. Block order is meaningful and must be preserved.
type Message struct {
	Role    string         `json:"role"`
	Content []ContentBlock `json:"content"`
}

// UserMessage builds a user turn containing a single text block.
func UserMessage(text string) Message {
	return Message{Role: RoleUser, Content: []ContentBlock{TextBlock(text)}}
}

// ToolUses returns the tool_use blocks of the message, in block order.
func (m Message) ToolUses() []ContentBlock {
	var uses []ContentBlock
	for _, b := range m.Content {
		if b.Type == BlockTypeToolUse {
			uses = append(uses, b)
		}
	}
	return uses
}

// ExtractText concatenates all text blocks of a reply, newline-joined, in
// block order. Non-text blocks are skipped.
func ExtractText(resp *MessageResponse) string {
	if resp == nil {
		return ""
	}
	var parts []string
	for _, b := range resp.Content {
		if b.Type == BlockTypeText {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n")
}
