package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/careline/relay/internal/services/relay"
	"github.com/careline/relay/pkg/chat"
	"github.com/careline/relay/pkg/httpext"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// HandleAsk relays one chat request: resolve the interaction id, make the
// single upstream call, then stream the answer back paced, with the
// keep-alive tail holding the connection open.
func HandleAsk(relayService *relay.Service, w http.ResponseWriter, r *http.Request) {
	var req chat.AskRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn().Err(err).Msg("Client sent malformed JSON request")
		httpext.JsonError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	// use a single instance of Validate, it caches struct info
	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := validate.Struct(req); err != nil {
		log.Warn().Err(err).Msg("Request validation failed")
		httpext.JsonError(w, "Query must not be empty", http.StatusBadRequest)
		return
	}

	var sessionID, imgBase64 string
	if req.SessionID != nil {
		sessionID = *req.SessionID
	}
	if req.ImgBase64 != nil {
		imgBase64 = *req.ImgBase64
	}

	// An image with no text still needs a question for the upstream.
	query := req.Query
	if query == "" && imgBase64 != "" {
		query = chat.DefaultImageQuery
	}

	log.Info().
		Int("query_length", len(query)).
		Bool("has_image", imgBase64 != "").
		Bool("has_session", sessionID != "").
		Str("client_ip", r.RemoteAddr).
		Msg("Received chat request")

	result, err := relayService.Ask(r.Context(), query, sessionID, imgBase64)
	if err != nil {
		log.Error().Err(err).Msg("Failed to process chat")
		httpext.JsonError(w, "Failed to process chat", http.StatusInternalServerError)
		return
	}

	w.Header().Set(chat.InteractionIDHeader, result.SessionID)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	// Proxy buffering would defeat the paced replay.
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if err := relayService.Stream(r.Context(), w, result.Answer); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Debug().Str("session_id", result.SessionID).Msg("Client disconnected, stream aborted")
			return
		}
		log.Warn().Err(err).Str("session_id", result.SessionID).Msg("Stream ended early")
		return
	}

	log.Info().
		Str("session_id", result.SessionID).
		Int("answer_length", len(result.Answer)).
		Msg("Chat request streamed successfully")
}
