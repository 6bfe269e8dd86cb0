package relay

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/careline/relay/internal/services/session"
	"github.com/careline/relay/pkg/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	calls     int
	sessionID string
	img       string
	answer    string
	err       error
}

func (p *stubProvider) Answer(_ context.Context, _, sessionID, imgBase64 string) (string, error) {
	p.calls++
	p.sessionID = sessionID
	p.img = imgBase64
	return p.answer, p.err
}

func newTestService(p *stubProvider) *Service {
	emitter := stream.NewEmitter(0, time.Millisecond, 5*time.Millisecond)
	return NewService(session.NewService(), p, emitter)
}

func TestAskMakesExactlyOneUpstreamCall(t *testing.T) {
	provider := &stubProvider{answer: "Ibuprofen is an NSAID."}
	s := newTestService(provider)

	result, err := s.Ask(context.Background(), "What is ibuprofen?", "", "")
	require.NoError(t, err)

	assert.Equal(t, 1, provider.calls)
	assert.Equal(t, "Ibuprofen is an NSAID.", result.Answer)
	assert.True(t, strings.HasPrefix(result.SessionID, "chat_"), "missing id must be minted")
	assert.Equal(t, result.SessionID, provider.sessionID, "upstream must see the resolved id")
}

func TestAskEchoesInboundSessionID(t *testing.T) {
	provider := &stubProvider{answer: "ok"}
	s := newTestService(provider)

	result, err := s.Ask(context.Background(), "hi", "chat_1_feedface", "img-data")
	require.NoError(t, err)

	assert.Equal(t, "chat_1_feedface", result.SessionID)
	assert.Equal(t, "chat_1_feedface", provider.sessionID)
	assert.Equal(t, "img-data", provider.img)
}

func TestAskProviderFailureOpensNoStream(t *testing.T) {
	provider := &stubProvider{err: fmt.Errorf("upstream unreachable")}
	s := newTestService(provider)

	result, err := s.Ask(context.Background(), "hi", "", "")
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, 1, provider.calls, "no silent retries")
}

func TestStreamReplaysAnswerBeforeFiller(t *testing.T) {
	s := newTestService(&stubProvider{})
	var buf bytes.Buffer

	require.NoError(t, s.Stream(context.Background(), &buf, "short"))

	out := buf.Bytes()
	require.GreaterOrEqual(t, len(out), 5)
	assert.Equal(t, "short", string(out[:5]))
	for _, b := range out[5:] {
		assert.Equal(t, stream.Filler, b)
	}
}
