package eventbus

import "time"

// Topic represents an event topic.
type Topic string

const (
	TopicInboundMessage  Topic = "inbound_message"
	TopicOutboundMessage Topic = "outbound_message"
	TopicLLMRequest      Topic = "llm_request"
	TopicLLMResponse     Topic = "llm_response"
	TopicToolCall        Topic = "tool_call"
	TopicToolResult      Topic = "tool_result"
	TopicTurnComplete    Topic = "turn_complete"
	TopicError           Topic = "error"
	TopicStatusChange    Topic = "status_change"
)

// Event is a message passed through the event bus.
type Event struct {
	Topic     Topic
	Payload   any
	Timestamp time.Time
}

// Handler processes an event.
type Handler func(Event)
