// Package inference is the client for the synchronous medical-assistant
// upstream: one question in, one complete answer out.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/careline/relay/internal/config"
	"github.com/rs/zerolog/log"
)

type Service struct {
	client  *http.Client
	baseURL string
}

type askRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id"`
	ImgBase64 string `json:"img_base64,omitempty"`
}

type askResponse struct {
	Response string `json:"response"`
}

// NewService returns nil when no upstream URL is configured.
func NewService() *Service {
	baseURL := config.GetInferenceURL()
	if baseURL == "" {
		return nil
	}

	log.Info().Str("url", baseURL).Msg("Initialising inference upstream client")
	return &Service{
		client:  &http.Client{Timeout: config.GetInferenceTimeout()},
		baseURL: baseURL,
	}
}

// Answer performs the single upstream call for one relayed request. Any
// non-200 status is total failure; there are no retries.
func (s *Service) Answer(ctx context.Context, query, sessionID, imgBase64 string) (string, error) {
	body := askRequest{
		Query:     query,
		SessionID: sessionID,
		ImgBase64: imgBase64,
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := s.baseURL + "/ask"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to reach inference upstream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		log.Error().
			Int("status", resp.StatusCode).
			Str("body", string(respBody)).
			Msg("Inference upstream returned non-200 status")
		return "", fmt.Errorf("inference upstream returned status %d", resp.StatusCode)
	}

	var parsed askResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode upstream response: %w", err)
	}

	log.Debug().
		Int("answer_length", len(parsed.Response)).
		Str("session_id", sessionID).
		Msg("Received upstream answer")

	return parsed.Response, nil
}
