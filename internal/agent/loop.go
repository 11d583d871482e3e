package agent

import (
	"context"
	"log"
	"sync"

	"github.com/fabiokp/comexchat/internal/eventbus"
	"github.com/fabiokp/comexchat/internal/llm"
)

// processMessage runs one full turn for a user question: replay stored
// history, seed the conversation, drive the loop to completion and persist
// the exchange. It never fails; every error path becomes the outcome's
// answer text.
func (a *Agent) processMessage(ctx context.Context, chatID, userText string) *Outcome {
	history, err := a.memory.GetHistory(ctx, chatID, a.cfg.HistoryLimit)
	if err != nil {
		log.Printf("[agent] failed to load history: %v", err)
		history = nil
	}

	summary, _ := a.memory.GetSummary(ctx, chatID)

	messages := make([]llm.Message, 0, len(history)+3)
	if summary != "" {
		messages = append(messages, llm.Message{
			Role:    "user",
			Content: "[Previous conversation summary]: " + summary,
		})
		messages = append(messages, llm.Message{
			Role:    "assistant",
			Content: "I understand the previous context. How can I help?",
		})
	}
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: "user", Content: userText})

	_ = a.memory.SaveMessage(ctx, chatID, llm.Message{Role: "user", Content: userText})

	outcome := a.runLoop(ctx, chatID, messages)

	_ = a.memory.SaveMessage(ctx, chatID, llm.Message{Role: "assistant", Content: outcome.Answer})
	return outcome
}

// runLoop is the agent state machine. Deciding: ask the provider for the
// next assistant message. Executing: run the requested tool batch and append
// one result per request. The loop ends when an assistant message carries no
// tool calls, or the per-turn tool budget runs out.
func (a *Agent) runLoop(ctx context.Context, chatID string, messages []llm.Message) *Outcome {
	toolCallCount := 0
	for {
		if a.ctxManager.shouldSummarize(messages) {
			newSummary, recent, err := a.ctxManager.summarize(ctx, messages)
			if err == nil && newSummary != "" {
				_ = a.memory.SaveSummary(ctx, chatID, newSummary)
				messages = append([]llm.Message{
					{Role: "user", Content: "[Conversation summary]: " + newSummary},
					{Role: "assistant", Content: "I understand the context. Continuing..."},
				}, recent...)
			}
		}

		req := &llm.ChatRequest{
			Messages:     messages,
			Tools:        a.tools.Definitions(),
			MaxTokens:    a.cfg.MaxTokens,
			Temperature:  a.cfg.Temperature,
			SystemPrompt: a.systemPrompt(),
		}
		a.bus.Publish(eventbus.TopicLLMRequest, req)

		resp, err := a.provider.Chat(ctx, req)
		if err != nil {
			a.bus.Publish(eventbus.TopicError, err)
			return &Outcome{
				Answer:    "Error during agent execution: " + err.Error(),
				ToolsUsed: collectInvocations(messages),
			}
		}
		a.bus.Publish(eventbus.TopicLLMResponse, resp)

		messages = append(messages, llm.Message{
			Role:      "assistant",
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		if len(resp.ToolCalls) == 0 {
			return extractOutcome(messages)
		}

		toolCallCount += len(resp.ToolCalls)
		if toolCallCount > a.cfg.MaxToolCalls {
			return &Outcome{
				Answer:    "I've reached the maximum number of tool calls for this request. Here's what I have so far: " + resp.Content,
				ToolsUsed: collectInvocations(messages),
			}
		}

		messages = append(messages, a.executeBatch(ctx, resp.ToolCalls)...)
	}
}

// executeBatch runs one Executing phase. Calls within a batch are
// independent and run concurrently; each result is tied back to its
// originating request by call ID, and the returned slice keeps request
// order regardless of completion order.
func (a *Agent) executeBatch(ctx context.Context, calls []llm.ToolCall) []llm.Message {
	results := make([]llm.Message, len(calls))

	var wg sync.WaitGroup
	for i, tc := range calls {
		wg.Add(1)
		go func(i int, tc llm.ToolCall) {
			defer wg.Done()
			a.bus.Publish(eventbus.TopicToolCall, tc)
			msg := a.executeCall(ctx, tc)
			a.bus.Publish(eventbus.TopicToolResult, map[string]string{"id": tc.ID, "result": msg.Content})
			results[i] = msg
		}(i, tc)
	}
	wg.Wait()

	return results
}

// executeCall dispatches a single tool call. Failures become an errored tool
// message fed back into the conversation; the model may react or give up.
func (a *Agent) executeCall(ctx context.Context, tc llm.ToolCall) llm.Message {
	msg := llm.Message{Role: "tool", ToolCallID: tc.ID}

	t, err := a.tools.Get(tc.Name)
	if err != nil {
		msg.Content = "Error: tool '" + tc.Name + "' not found"
		msg.Status = llm.StatusError
		return msg
	}

	res, err := t.Execute(ctx, tc.Arguments)
	switch {
	case err != nil:
		msg.Content = "Error executing tool: " + err.Error()
		msg.Status = llm.StatusError
	case res.IsError:
		msg.Content = "Error: " + res.Error
		msg.Status = llm.StatusError
	default:
		msg.Content = res.Output
	}
	return msg
}
