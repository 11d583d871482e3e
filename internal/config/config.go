package config

// Config is the top-level application configuration.
type Config struct {
	Agent       AgentConfig     `json:"agent"`
	LLM         LLMConfig       `json:"llm"`
	FallbackLLM *LLMConfig      `json:"fallback_llm,omitempty"`
	ComexStat   ComexStatConfig `json:"comexstat"`
	Channels    ChannelsConfig  `json:"channels"`
	Memory      MemoryConfig    `json:"memory"`
}

type AgentConfig struct {
	// SystemPrompt overrides the built-in ComexStat instructions when set.
	SystemPrompt string  `json:"system_prompt,omitempty"`
	MaxTokens    int     `json:"max_tokens"`
	Temperature  float64 `json:"temperature"`
	// MaxToolCalls bounds tool invocations per turn, stopping a model that
	// never produces a final answer.
	MaxToolCalls  int `json:"max_tool_calls"`
	ContextWindow int `json:"context_window"`
	SummarizeAt   int `json:"summarize_at"`
	// HistoryLimit caps how many stored messages are replayed into a new turn.
	HistoryLimit int `json:"history_limit"`
}

type LLMConfig struct {
	Provider    string `json:"provider"`
	Model       string `json:"model"`
	APIKey      string `json:"api_key,omitempty"`
	BaseURL     string `json:"base_url,omitempty"`
	TimeoutSecs int    `json:"timeout_secs"`
}

type ComexStatConfig struct {
	BaseURL           string `json:"base_url,omitempty"`
	UserAgent         string `json:"user_agent,omitempty"`
	QueryTimeoutSecs  int    `json:"query_timeout_secs"`
	DetailTimeoutSecs int    `json:"detail_timeout_secs"`
	// InsecureSkipVerify disables TLS certificate validation on ComexStat
	// calls. Off by default; enable only if the API's certificate chain
	// fails validation in your environment.
	InsecureSkipVerify bool `json:"insecure_skip_verify"`
}

type ChannelsConfig struct {
	Telegram *TelegramConfig `json:"telegram,omitempty"`
}

type TelegramConfig struct {
	Token      string  `json:"token"`
	AllowedIDs []int64 `json:"allowed_ids,omitempty"`
}

type MemoryConfig struct {
	// Path is the SQLite database location. Empty means an in-memory
	// database: history survives across turns, not across restarts.
	Path string `json:"path,omitempty"`
}
