package openai

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/careline/relay/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
)

const systemPrompt = "You are a careful medical assistant. Answer questions " +
	"about medications, prescriptions and general health concisely. When an " +
	"image of a prescription is provided, read it and explain the drugs it lists. " +
	"Always advise consulting a qualified professional for diagnosis or dosage changes."

// Service answers questions directly through the OpenAI API. It backs the
// relay when no dedicated inference upstream is configured.
type Service struct {
	mu     sync.RWMutex
	client *openai.Client
	model  string
}

func NewService() *Service {
	key := config.GetOpenAIKey()
	if key == "" {
		log.Warn().Msg("OpenAI service not configured - OPENAI_KEY missing")
		return nil
	}

	log.Info().Msg("Initialising OpenAI service")
	return &Service{
		client: openai.NewClient(key),
		model:  config.GetOpenAIModel(),
	}
}

func (s *Service) GetClient() *openai.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client
}

// Answer runs one chat completion for the query, attaching the image as a
// data URI when present. The session id is only used for log correlation;
// OpenAI calls carry no conversation state.
func (s *Service) Answer(ctx context.Context, query, sessionID, imgBase64 string) (string, error) {
	userMessage := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
	if imgBase64 == "" {
		userMessage.Content = query
	} else {
		userMessage.MultiContent = []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: query},
			{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL: imageDataURI(imgBase64),
				},
			},
		}
	}

	resp, err := s.GetClient().CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			userMessage,
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	log.Debug().
		Str("session_id", sessionID).
		Str("model", s.model).
		Int("completion_tokens", resp.Usage.CompletionTokens).
		Msg("OpenAI answer generated")

	return resp.Choices[0].Message.Content, nil
}

func imageDataURI(imgBase64 string) string {
	// Browsers sometimes hand over the full data URI already.
	if strings.HasPrefix(imgBase64, "data:") {
		return imgBase64
	}
	return "data:image/jpeg;base64," + imgBase64
}
