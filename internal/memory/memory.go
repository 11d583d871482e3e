package memory

import (
	"context"

	"github.com/fabiokp/comexchat/internal/llm"
)

// Memory is the conversation history cache the presentation layer replays
// into new turns.
type Memory interface {
	SaveMessage(ctx context.Context, chatID string, msg llm.Message) error
	GetHistory(ctx context.Context, chatID string, limit int) ([]llm.Message, error)
	SaveSummary(ctx context.Context, chatID string, summary string) error
	GetSummary(ctx context.Context, chatID string) (string, error)
	Close() error
}
