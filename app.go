package main

import (
	"context"
	"fmt"
	"log"

	"github.com/fabiokp/comexchat/internal/agent"
	"github.com/fabiokp/comexchat/internal/channel"
	"github.com/fabiokp/comexchat/internal/comexstat"
	"github.com/fabiokp/comexchat/internal/config"
	"github.com/fabiokp/comexchat/internal/eventbus"
	"github.com/fabiokp/comexchat/internal/llm"
	"github.com/fabiokp/comexchat/internal/memory"
	"github.com/fabiokp/comexchat/internal/security"
	"github.com/fabiokp/comexchat/internal/tool"
)

const (
	keyringPlaceholder      = "[keyring]"
	secretNameLLMKey        = "llm_api_key"
	secretNameFallbackKey   = "fallback_llm_api_key"
	secretNameTelegramToken = "telegram_token"
)

// App wires configuration, secrets, memory, channels, the ComexStat client
// and the agent together.
type App struct {
	cfg       *config.Config
	cfgLoader *config.Loader
	bus       *eventbus.Bus
	agent     *agent.Agent
	chanMgr   *channel.Manager
	mem       memory.Memory
	keyStore  *security.KeyStore
}

// NewApp creates the application shell.
func NewApp() *App {
	return &App{
		bus: eventbus.New(),
	}
}

// Startup loads configuration, resolves secrets and builds the agent stack.
func (a *App) Startup(ctx context.Context) error {
	loader, err := config.NewLoader()
	if err != nil {
		return fmt.Errorf("create config loader: %w", err)
	}
	a.cfgLoader = loader

	cfg, err := loader.Load()
	if err != nil {
		log.Printf("[app] failed to load config: %v, using defaults", err)
		cfg = config.Defaults()
	}
	a.cfg = cfg

	ks, err := security.NewKeyStore(nil)
	if err != nil {
		log.Printf("[app] warning: failed to create key store: %v (secrets stay in config file)", err)
	}
	a.keyStore = ks
	a.resolveSecrets()

	if a.cfg.LLM.APIKey == "" {
		return fmt.Errorf("no LLM API key configured; set llm.api_key in %s", loader.FilePath())
	}

	mem, err := memory.NewSQLiteMemory(a.cfg.Memory.Path)
	if err != nil {
		return fmt.Errorf("initialize memory: %w", err)
	}
	a.mem = mem

	provider, err := llm.NewProvider(a.cfg.LLM)
	if err != nil {
		return fmt.Errorf("create LLM provider: %w", err)
	}
	if a.cfg.FallbackLLM != nil && a.cfg.FallbackLLM.APIKey != "" {
		fallback, err := llm.NewProvider(*a.cfg.FallbackLLM)
		if err == nil {
			provider = llm.NewFallbackProvider(provider, fallback)
		}
	}

	client := comexstat.New(comexstat.Config{
		BaseURL:            a.cfg.ComexStat.BaseURL,
		UserAgent:          a.cfg.ComexStat.UserAgent,
		QueryTimeoutSecs:   a.cfg.ComexStat.QueryTimeoutSecs,
		DetailTimeoutSecs:  a.cfg.ComexStat.DetailTimeoutSecs,
		InsecureSkipVerify: a.cfg.ComexStat.InsecureSkipVerify,
	})

	registry := tool.NewRegistry()
	registry.Register(tool.NewGeneralStatsTool(client))
	registry.Register(tool.NewMunicipalityStatsTool(client))
	registry.Register(tool.NewAuxiliaryTableTool(client))
	registry.Register(tool.NewItemDetailTool(client))

	a.chanMgr = channel.NewManager()
	a.chanMgr.Register(channel.NewConsoleChannel())
	if a.cfg.Channels.Telegram != nil && a.cfg.Channels.Telegram.Token != "" {
		a.chanMgr.Register(channel.NewTelegramChannel(channel.TelegramConfig{
			Token:      a.cfg.Channels.Telegram.Token,
			AllowedIDs: a.cfg.Channels.Telegram.AllowedIDs,
		}))
	}
	if err := a.chanMgr.StartAll(ctx); err != nil {
		return fmt.Errorf("start channels: %w", err)
	}

	a.agent = agent.New(
		a.cfg.Agent,
		provider,
		registry,
		a.mem,
		a.bus,
		a.chanMgr,
	)

	a.bus.Subscribe(eventbus.TopicError, func(e eventbus.Event) {
		log.Printf("[app] agent error: %v", e.Payload)
	})
	a.bus.Subscribe(eventbus.TopicTurnComplete, func(e eventbus.Event) {
		if o, ok := e.Payload.(*agent.Outcome); ok {
			log.Printf("[app] turn complete: %d tool call(s), answer %d chars", len(o.ToolsUsed), len(o.Answer))
		}
	})

	a.agent.Start(ctx)
	log.Printf("[app] agent running (provider=%s, key=%s)", provider.Name(), security.MaskKey(a.cfg.LLM.APIKey))
	return nil
}

// Shutdown stops channels and releases resources.
func (a *App) Shutdown(ctx context.Context) {
	if a.chanMgr != nil {
		a.chanMgr.StopAll(ctx)
	}
	if a.mem != nil {
		a.mem.Close()
	}
}

// resolveSecrets loads secrets from the key store into the in-memory config.
// On first run, plaintext secrets migrate out of config.json; the file keeps
// a placeholder.
func (a *App) resolveSecrets() {
	if a.keyStore == nil {
		return
	}

	migrated := false
	resolve := func(value *string, secretName string) {
		switch {
		case *value == keyringPlaceholder:
			if val, err := a.keyStore.Get(secretName); err == nil {
				*value = val
			} else {
				log.Printf("[app] warning: failed to read %s from key store: %v", secretName, err)
			}
		case *value != "":
			if err := a.keyStore.Set(secretName, *value); err == nil {
				migrated = true
				log.Printf("[app] migrated %s to secure storage", secretName)
			}
		}
	}

	resolve(&a.cfg.LLM.APIKey, secretNameLLMKey)
	if a.cfg.FallbackLLM != nil {
		resolve(&a.cfg.FallbackLLM.APIKey, secretNameFallbackKey)
	}
	if a.cfg.Channels.Telegram != nil {
		resolve(&a.cfg.Channels.Telegram.Token, secretNameTelegramToken)
	}

	if migrated {
		if err := a.saveConfigWithPlaceholders(); err != nil {
			log.Printf("[app] warning: failed to save config after secret migration: %v", err)
		}
	}
}

// saveConfigWithPlaceholders writes config to disk with secrets replaced by
// [keyring] placeholders. The in-memory config keeps the real values.
func (a *App) saveConfigWithPlaceholders() error {
	cfgForDisk := *a.cfg
	if cfgForDisk.LLM.APIKey != "" {
		cfgForDisk.LLM.APIKey = keyringPlaceholder
	}
	if cfgForDisk.FallbackLLM != nil && cfgForDisk.FallbackLLM.APIKey != "" {
		fbCopy := *cfgForDisk.FallbackLLM
		fbCopy.APIKey = keyringPlaceholder
		cfgForDisk.FallbackLLM = &fbCopy
	}
	if cfgForDisk.Channels.Telegram != nil && cfgForDisk.Channels.Telegram.Token != "" {
		tgCopy := *cfgForDisk.Channels.Telegram
		tgCopy.Token = keyringPlaceholder
		cfgForDisk.Channels.Telegram = &tgCopy
	}
	return a.cfgLoader.Save(&cfgForDisk)
}
