package conversation

import (
	"context"
	"errors"
)

// ToolCall is a structured request emitted by the remote model asking the
// host to perform a named side-effecting action and return its result.
type ToolCall struct {
	Name string
	Args map[string]string
}

// ModelReply is the raw outcome of one exchange with the remote model:
// free-form text plus zero or more tool call requests.
type ModelReply struct {
	Text      string
	ToolCalls []ToolCall
}

// ErrModelUnavailable wraps any transport or remote failure during a chat
// turn. The session stays usable for retry.
var ErrModelUnavailable = errors.New("conversation: model unavailable")

// LLMSession is one ordered, stateful chat exchange with the remote model
// under a fixed system instruction and tool set.
type LLMSession interface {
	// Send submits the next user text and returns the model's reply.
	Send(ctx context.Context, text string) (ModelReply, error)
	// SendToolResult feeds a tool's result back as the next turn so the
	// model can phrase a reply to the user.
	SendToolResult(ctx context.Context, name string, result map[string]any) (ModelReply, error)
	Close() error
}

// SessionFactory creates model sessions bound to a spoken-language tag. The
// language configuration is fixed for the session's lifetime; changing it
// means creating a new session.
type SessionFactory interface {
	NewSession(ctx context.Context, language string) (LLMSession, error)
}
