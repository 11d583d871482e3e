package agent

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/fabiokp/comexchat/internal/channel"
	"github.com/fabiokp/comexchat/internal/config"
	"github.com/fabiokp/comexchat/internal/eventbus"
	"github.com/fabiokp/comexchat/internal/llm"
	"github.com/fabiokp/comexchat/internal/memory"
	"github.com/fabiokp/comexchat/internal/prompt"
	"github.com/fabiokp/comexchat/internal/tool"
)

// Agent processes user questions through the decide→execute loop: ask the
// model for a decision, run the tool calls it requests, repeat until it
// produces a final answer.
type Agent struct {
	mu         sync.RWMutex
	cfg        config.AgentConfig
	provider   llm.Provider
	tools      *tool.Registry
	memory     memory.Memory
	bus        *eventbus.Bus
	chanMgr    *channel.Manager
	ctxManager *contextManager
}

// New creates a new Agent.
func New(
	cfg config.AgentConfig,
	provider llm.Provider,
	tools *tool.Registry,
	mem memory.Memory,
	bus *eventbus.Bus,
	chanMgr *channel.Manager,
) *Agent {
	return &Agent{
		cfg:        cfg,
		provider:   provider,
		tools:      tools,
		memory:     mem,
		bus:        bus,
		chanMgr:    chanMgr,
		ctxManager: newContextManager(provider, cfg.ContextWindow, cfg.SummarizeAt),
	}
}

// Start begins listening for inbound messages from all channels.
func (a *Agent) Start(ctx context.Context) {
	for name, running := range a.chanMgr.List() {
		if !running {
			continue
		}
		ch, ok := a.chanMgr.Get(name)
		if !ok {
			continue
		}
		ch.OnMessage(func(msg channel.InboundMessage) {
			a.bus.Publish(eventbus.TopicInboundMessage, msg)
			a.handleMessage(ctx, msg)
		})
	}

	log.Println("[agent] started and listening for messages")
}

// handleMessage processes an inbound message and sends the rendered outcome
// back through the originating channel.
func (a *Agent) handleMessage(ctx context.Context, msg channel.InboundMessage) {
	log.Printf("[agent] processing message from %s (%s): %s", msg.SenderName, msg.ChannelName, truncate(msg.Text, 100))

	outcome := a.processMessage(ctx, msg.ChatID, msg.Text)
	a.bus.Publish(eventbus.TopicTurnComplete, outcome)

	ch, ok := a.chanMgr.Get(msg.ChannelName)
	if !ok {
		log.Printf("[agent] channel %s not found", msg.ChannelName)
		return
	}

	outMsg := channel.OutboundMessage{
		ChatID: msg.ChatID,
		Text:   outcome.Render(),
	}
	a.bus.Publish(eventbus.TopicOutboundMessage, outMsg)

	if err := ch.Send(ctx, outMsg); err != nil {
		log.Printf("[agent] error sending response: %v", err)
	}
}

// HandleDirectMessage processes a question outside any channel and returns
// the rendered outcome.
func (a *Agent) HandleDirectMessage(ctx context.Context, chatID, text string) string {
	return a.processMessage(ctx, chatID, text).Render()
}

// systemPrompt returns the configured override or the built-in ComexStat
// instructions with the current date.
func (a *Agent) systemPrompt() string {
	if a.cfg.SystemPrompt != "" {
		return a.cfg.SystemPrompt
	}
	return prompt.System(time.Now())
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
