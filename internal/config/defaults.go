package config

// Defaults returns a Config with sensible default values.
func Defaults() *Config {
	return &Config{
		Agent: AgentConfig{
			MaxTokens:     4096,
			Temperature:   0,
			MaxToolCalls:  20,
			ContextWindow: 100000,
			SummarizeAt:   80000,
			HistoryLimit:  50,
		},
		LLM: LLMConfig{
			Provider:    "openai",
			Model:       "gpt-4.1-mini",
			TimeoutSecs: 60,
		},
		ComexStat: ComexStatConfig{
			QueryTimeoutSecs:  60,
			DetailTimeoutSecs: 30,
		},
		Channels: ChannelsConfig{},
	}
}
