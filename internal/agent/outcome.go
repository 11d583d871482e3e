package agent

import (
	"encoding/json"
	"strings"

	"github.com/fabiokp/comexchat/internal/llm"
)

// Invocation records one tool call issued during a turn, for the audit
// trail shown to the user.
type Invocation struct {
	Tool      string          `json:"tool"`
	Arguments json.RawMessage `json:"arguments"`
}

// Outcome is the terminal product of one turn.
type Outcome struct {
	Answer    string       `json:"answer"`
	ToolsUsed []Invocation `json:"tools_used,omitempty"`
	// Complete is true when the model produced a real final answer;
	// false outcomes carry a diagnostic message instead.
	Complete bool `json:"complete"`
}

// Render formats the outcome for the user: the answer, then the audit block
// listing every tool invocation of the turn. Diagnostic outcomes are shown
// bare.
func (o *Outcome) Render() string {
	if !o.Complete || len(o.ToolsUsed) == 0 {
		return o.Answer
	}

	var b strings.Builder
	b.WriteString(o.Answer)
	b.WriteString("\n\n---\n**Tools Used:**\n")
	for i, inv := range o.ToolsUsed {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("* **Tool:** `")
		b.WriteString(inv.Tool)
		b.WriteString("`\n* **Arguments:** `")
		b.Write(inv.Arguments)
		b.WriteString("`")
	}
	return b.String()
}

// extractOutcome derives the turn's outcome from a finished conversation.
// The audit list covers every tool call ever issued in the turn, in
// emission order, not just the last batch.
func extractOutcome(messages []llm.Message) *Outcome {
	outcome := &Outcome{ToolsUsed: collectInvocations(messages)}

	if len(messages) == 0 {
		outcome.Answer = "Agent finished, but the final state is unexpected."
		return outcome
	}

	last := messages[len(messages)-1]
	switch last.Role {
	case "assistant":
		if len(last.ToolCalls) > 0 {
			// The transition rule should make this unreachable; report it
			// instead of fabricating an answer.
			outcome.Answer = "Agent finished unexpectedly while planning to use tools."
			return outcome
		}
		content := strings.TrimSpace(last.Content)
		if content == "" {
			outcome.Answer = "Agent finished, but the final message was empty."
			return outcome
		}
		outcome.Answer = content
		outcome.Complete = true
		return outcome

	case "tool":
		name := toolNameFor(messages, last.ToolCallID)
		if last.Status == llm.StatusError {
			outcome.Answer = "An error occurred during tool execution: Tool '" + name + "' failed: " + last.Content
		} else {
			outcome.Answer = "Agent finished after using tool '" + name + "', but didn't provide a final summary."
		}
		return outcome

	default:
		outcome.Answer = "Agent finished, but the final state is unexpected."
		return outcome
	}
}

// collectInvocations scans the whole conversation for assistant tool calls.
func collectInvocations(messages []llm.Message) []Invocation {
	var invocations []Invocation
	for _, m := range messages {
		if m.Role != "assistant" {
			continue
		}
		for _, tc := range m.ToolCalls {
			invocations = append(invocations, Invocation{Tool: tc.Name, Arguments: tc.Arguments})
		}
	}
	return invocations
}

// toolNameFor resolves a tool call ID back to the requested tool's name.
func toolNameFor(messages []llm.Message, callID string) string {
	for i := len(messages) - 1; i >= 0; i-- {
		for _, tc := range messages[i].ToolCalls {
			if tc.ID == callID {
				return tc.Name
			}
		}
	}
	return "unknown"
}
