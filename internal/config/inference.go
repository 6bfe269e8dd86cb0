package config

import (
	"time"

	"github.com/rs/zerolog/log"
)

// GetInferenceURL returns the base URL of the synchronous inference upstream.
// Empty means the upstream is not configured and the relay falls back to the
// OpenAI provider.
func GetInferenceURL() string {
	value := GetEnvOrDefault("INFERENCE_URL", "")
	if value == "" {
		log.Warn().Msg("INFERENCE_URL not set - inference upstream unavailable")
	}
	return value
}

// GetInferenceTimeout bounds the single upstream call per request.
func GetInferenceTimeout() time.Duration {
	return parseEnvDuration("INFERENCE_TIMEOUT", 60*time.Second)
}
