// Package relay turns one inbound chat request into one upstream call and
// re-exposes the answer as a paced stream with a trailing keep-alive phase.
package relay

import (
	"context"
	"fmt"
	"io"

	"github.com/careline/relay/internal/services/answer"
	"github.com/careline/relay/internal/services/session"
	"github.com/careline/relay/pkg/stream"
	"github.com/rs/zerolog/log"
)

type Service struct {
	sessions *session.Service
	provider answer.Provider
	emitter  *stream.Emitter
}

// Result carries the resolved interaction id alongside the full answer. The
// id goes out as a header before the answer starts streaming.
type Result struct {
	SessionID string
	Answer    string
}

func NewService(sessions *session.Service, provider answer.Provider, emitter *stream.Emitter) *Service {
	return &Service{
		sessions: sessions,
		provider: provider,
		emitter:  emitter,
	}
}

// Ask resolves the interaction id and fetches the answer with exactly one
// upstream call. Any provider failure fails the whole request; no stream is
// opened for it.
func (s *Service) Ask(ctx context.Context, query, sessionID, imgBase64 string) (*Result, error) {
	resolved := s.sessions.Resolve(sessionID)

	text, err := s.provider.Answer(ctx, query, resolved, imgBase64)
	if err != nil {
		log.Error().
			Err(err).
			Str("session_id", resolved).
			Msg("Upstream answer failed")
		return nil, fmt.Errorf("failed to obtain answer: %w", err)
	}

	return &Result{SessionID: resolved, Answer: text}, nil
}

// Stream replays the answer at the configured pace, then holds the
// connection with filler bytes. Cancelling ctx (the request context in the
// HTTP handler) aborts both phases immediately.
func (s *Service) Stream(ctx context.Context, w io.Writer, answer string) error {
	return s.emitter.Stream(ctx, w, answer)
}
