// Package client consumes the relay's paced stream and reduces it into a
// single growing assistant message on a conversation.State.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/careline/relay/pkg/chat"
	"github.com/careline/relay/pkg/conversation"
	"github.com/careline/relay/pkg/textstream"
)

// Apology is the fixed assistant message shown when a request fails before
// any reply text has arrived.
const Apology = "Sorry, I ran into a problem answering that. Please try again."

const readBufferSize = 512

// DeltaFunc is invoked once per decoded chunk with the newly arrived text.
type DeltaFunc func(delta string)

type Client struct {
	baseURL    string
	httpClient *http.Client
	state      *conversation.State
}

// New returns a client that folds replies into state. state survives across
// Send calls; the session id the relay mints on the first reply is adopted
// and resent until Reset.
func New(baseURL string, state *conversation.State) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		state:      state,
	}
}

// State exposes the conversation this client reduces into.
func (c *Client) State() *conversation.State {
	return c.state
}

// Reset starts a new chat: transcript emptied, session id discarded.
func (c *Client) Reset() {
	c.state.Reset()
}

// Send submits one query (plus optional images) and blocks until the reply
// stream completes or fails. The user message and an assistant placeholder
// are appended immediately; each arriving chunk grows the placeholder and
// triggers onDelta. Failures before the first chunk replace the placeholder
// with Apology; failures mid-stream leave the partial text as-is.
func (c *Client) Send(ctx context.Context, query string, images []string, onDelta DeltaFunc) error {
	display := query
	if display == "" && len(images) > 0 {
		display = chat.DefaultImageQuery
	}

	c.state.Append(conversation.NewMessage(conversation.RoleUser, display, images))
	assistant := conversation.NewMessage(conversation.RoleAssistant, "", nil)
	c.state.Append(assistant)
	c.state.SetStatus(conversation.StatusAwaiting)

	resp, err := c.post(ctx, display, images)
	if err != nil {
		c.fail(assistant.ID)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.fail(assistant.ID)
		return fmt.Errorf("relay returned status %d", resp.StatusCode)
	}
	if resp.Body == nil {
		c.fail(assistant.ID)
		return fmt.Errorf("relay returned no stream")
	}

	if id := resp.Header.Get(chat.InteractionIDHeader); id != "" {
		c.state.SetSessionID(id)
	}

	return c.consume(resp.Body, assistant.ID, onDelta)
}

func (c *Client) post(ctx context.Context, query string, images []string) (*http.Response, error) {
	req := chat.AskRequest{Query: query}
	if id := c.state.SessionID(); id != "" {
		req.SessionID = &id
	}
	// Only the first attachment travels; the rest stay local to the transcript.
	if len(images) > 0 {
		req.ImgBase64 = &images[0]
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/ask", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to reach relay: %w", err)
	}
	return resp, nil
}

func (c *Client) consume(body io.Reader, assistantID string, onDelta DeltaFunc) error {
	decoder := textstream.NewDecoder()
	var content string
	buf := make([]byte, readBufferSize)

	for {
		n, err := body.Read(buf)
		if n > 0 {
			delta := decoder.Feed(buf[:n])
			if delta != "" {
				content += delta
				c.state.SetStatus(conversation.StatusStreaming)
				c.state.UpdateLast(assistantID, content)
				if onDelta != nil {
					onDelta(delta)
				}
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			// Whatever already streamed stays on screen untouched.
			c.state.SetStatus(conversation.StatusErrored)
			return fmt.Errorf("stream interrupted: %w", err)
		}
	}

	if tail := decoder.Flush(); tail != "" {
		content += tail
		c.state.UpdateLast(assistantID, content)
		if onDelta != nil {
			onDelta(tail)
		}
	}

	c.state.SetStatus(conversation.StatusComplete)
	return nil
}

func (c *Client) fail(assistantID string) {
	c.state.UpdateLast(assistantID, Apology)
	c.state.SetStatus(conversation.StatusErrored)
}
