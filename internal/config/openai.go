package config

// GetOpenAIKey returns the OpenAI API key, empty when not configured.
func GetOpenAIKey() string {
	return GetEnvOrDefault("OPENAI_KEY", "")
}

// GetOpenAIModel returns the model used when the OpenAI provider answers.
func GetOpenAIModel() string {
	return GetEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini")
}
