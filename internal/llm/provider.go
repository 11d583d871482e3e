package llm

import "context"

// Provider is the interface all reasoning backends must implement.
// One opaque call: the running conversation plus the available tool schemas
// go in, the next assistant message comes out — either final text or a batch
// of requested tool calls.
type Provider interface {
	Chat(ctx context.Context, req *ChatRequest) (*Response, error)

	// Name returns the provider name (e.g. "openai", "anthropic").
	Name() string

	// DefaultModel returns the default model for this provider.
	DefaultModel() string
}

// LLMError wraps an error with a classification for fallback logic.
type LLMError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *LLMError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *LLMError) Unwrap() error {
	return e.Err
}
