// Package testutil provides test helpers for the agent package
// (e.g. MockSender).
package testutil

import (
	"context"
	"errors"

	"github.com/google/uuid"

	agent "github.com/AbhimanyuAryan/AnthropicAgent"
)

// MockSender is a scripted MessageSender for tests: it captures every request
// and returns the queued replies in order.
type MockSender struct {
	Replies  []*agent.MessageResponse
	Err      error // returned once the reply queue is empty
	Requests []*agent.MessageRequest
}

// CreateMessage records the request and pops the next scripted reply.
func (m *MockSender) CreateMessage(_ context.Context, req *agent.MessageRequest) (*agent.MessageResponse, error) {
	m.Requests = append(m.Requests, req)
	if len(m.Replies) == 0 {
		if m.Err != nil {
			return nil, m.Err
		}
		return nil, errors.New("mocksender: no replies queued")
	}
	reply := m.Replies[0]
	m.Replies = m.Replies[1:]
	return reply, nil
}

// Queue appends replies to the script.
func (m *MockSender) Queue(replies ...*agent.MessageResponse) {
	m.Replies = append(m.Replies, replies...)
}

// Reply builds a MessageResponse with the given stop reason and blocks.
func Reply(stopReason string, blocks ...agent.ContentBlock) *agent.MessageResponse {
	return &agent.MessageResponse{
		ID:         "msg_" + uuid.NewString(),
		Type:       "message",
		Role:       agent.RoleAssistant,
		Content:    blocks,
		StopReason: stopReason,
	}
}

// TextReply builds an end_turn reply containing a single text block.
func TextReply(text string) *agent.MessageResponse {
	return Reply(agent.StopEndTurn, agent.TextBlock(text))
}

// ToolUseID returns a fresh correlation id in the wire format.
func ToolUseID() string {
	return "toolu_" + uuid.NewString()
}

// Ensure MockSender implements MessageSender.
var _ agent.MessageSender = (*MockSender)(nil)
