package services

import (
	"fmt"
	"sync"

	"github.com/careline/relay/internal/config"
	"github.com/careline/relay/internal/infrastructure/inference"
	"github.com/careline/relay/internal/infrastructure/openai"
	"github.com/careline/relay/internal/infrastructure/redis"
	"github.com/careline/relay/internal/services/answer"
	"github.com/careline/relay/internal/services/relay"
	"github.com/careline/relay/internal/services/session"
	"github.com/careline/relay/pkg/stream"
	"github.com/rs/zerolog/log"
)

var (
	// Mutex for thread-safe initialization
	servicesMu sync.RWMutex
)

type Services struct {
	inferenceService *inference.Service
	openAIService    *openai.Service
	redisService     *redis.Service
	sessionService   *session.Service
	relayService     *relay.Service
}

// InitializeServices initializes all required services
func InitializeServices() (*Services, error) {
	servicesMu.Lock()
	defer servicesMu.Unlock()

	log.Info().Msg("Initializing core services")

	// Redis is optional; without it the rate limiter counts per process.
	redisService := redis.NewService()

	sessionService := session.NewService()

	// Answer providers: the dedicated inference upstream wins, OpenAI is the
	// fallback, and at least one of the two must be configured.
	inferenceService := inference.NewService()
	openAIService := openai.NewService()

	var provider answer.Provider
	switch {
	case inferenceService != nil:
		provider = inferenceService
		log.Info().Msg("Using inference upstream as answer provider")
	case openAIService != nil:
		provider = openAIService
		log.Info().Msg("Using OpenAI as answer provider")
	default:
		return nil, fmt.Errorf("no answer provider configured: set INFERENCE_URL or OPENAI_KEY")
	}

	streamCfg := config.GetStreamConfig()
	emitter := stream.NewEmitter(streamCfg.CharDelay, streamCfg.KeepAliveInterval, streamCfg.KeepAliveWindow)

	relayService := relay.NewService(sessionService, provider, emitter)

	log.Info().
		Dur("char_delay", streamCfg.CharDelay).
		Dur("keepalive_window", streamCfg.KeepAliveWindow).
		Msg("All services initialized successfully")

	return &Services{
		inferenceService: inferenceService,
		openAIService:    openAIService,
		redisService:     redisService,
		sessionService:   sessionService,
		relayService:     relayService,
	}, nil
}

// GetRelayService returns the relay service
func (s *Services) GetRelayService() *relay.Service {
	return s.relayService
}

// GetSessionService returns the session service
func (s *Services) GetSessionService() *session.Service {
	return s.sessionService
}

// GetRedisService returns the redis service, nil when unconfigured
func (s *Services) GetRedisService() *redis.Service {
	return s.redisService
}
