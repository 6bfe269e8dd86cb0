package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/careline/relay/internal/services/relay"
	"github.com/careline/relay/internal/services/session"
	"github.com/careline/relay/pkg/chat"
	"github.com/careline/relay/pkg/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	calls  int
	query  string
	img    string
	answer string
	err    error
}

func (p *stubProvider) Answer(_ context.Context, query, _, imgBase64 string) (string, error) {
	p.calls++
	p.query = query
	p.img = imgBase64
	return p.answer, p.err
}

func newRelayService(p *stubProvider) *relay.Service {
	emitter := stream.NewEmitter(0, time.Millisecond, 10*time.Millisecond)
	return relay.NewService(session.NewService(), p, emitter)
}

func stripFiller(body []byte) string {
	return string(bytes.ReplaceAll(body, []byte{stream.Filler}, nil))
}

func doAsk(t *testing.T, svc *relay.Service, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/chat/ask", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	HandleAsk(svc, w, req)
	return w
}

func TestHandleAskStreamsAnswerWithMintedID(t *testing.T) {
	provider := &stubProvider{answer: "Ibuprofen is an NSAID."}
	svc := newRelayService(provider)

	w := doAsk(t, svc, `{"query":"What is ibuprofen?","sessionId":null,"img_base64":null}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))

	id := w.Header().Get(chat.InteractionIDHeader)
	assert.Regexp(t, `^chat_\d+_[0-9a-f]{8}$`, id)

	assert.Equal(t, "Ibuprofen is an NSAID.", stripFiller(w.Body.Bytes()))
	assert.Greater(t, w.Body.Len(), len(provider.answer), "keep-alive filler should follow the answer")
	assert.Equal(t, 1, provider.calls, "exactly one upstream call per request")
}

func TestHandleAskEchoesSessionID(t *testing.T) {
	svc := newRelayService(&stubProvider{answer: "ok"})

	w := doAsk(t, svc, `{"query":"again","sessionId":"chat_9_cafef00d"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "chat_9_cafef00d", w.Header().Get(chat.InteractionIDHeader))
}

func TestHandleAskSubstitutesDefaultQueryForImage(t *testing.T) {
	provider := &stubProvider{answer: "Two drugs are listed."}
	svc := newRelayService(provider)

	body, _ := json.Marshal(map[string]any{"query": "", "img_base64": "img-data"})
	w := doAsk(t, svc, string(body))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, chat.DefaultImageQuery, provider.query)
	assert.Equal(t, "img-data", provider.img)
}

func TestHandleAskRejectsEmptyQueryWithoutImage(t *testing.T) {
	provider := &stubProvider{answer: "unused"}
	svc := newRelayService(provider)

	w := doAsk(t, svc, `{"query":""}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, provider.calls)
}

func TestHandleAskRejectsMalformedJSON(t *testing.T) {
	svc := newRelayService(&stubProvider{})

	w := doAsk(t, svc, "not json")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

func TestHandleAskUpstreamFailureOpensNoStream(t *testing.T) {
	provider := &stubProvider{err: fmt.Errorf("upstream returned status 500")}
	svc := newRelayService(provider)

	w := doAsk(t, svc, `{"query":"What is ibuprofen?"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, w.Header().Get(chat.InteractionIDHeader), "failure responses carry no custom headers")

	var errResp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, "Failed to process chat", errResp["error"])
}
