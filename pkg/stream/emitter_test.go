package stream

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingWriter struct {
	bytes.Buffer
	writes int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.writes++
	return w.Buffer.Write(p)
}

func (w *countingWriter) WriteString(s string) (int, error) {
	w.writes++
	return w.Buffer.WriteString(s)
}

func TestStreamEmitsAnswerThenFiller(t *testing.T) {
	e := NewEmitter(time.Millisecond, 2*time.Millisecond, 20*time.Millisecond)
	var w countingWriter

	err := e.Stream(context.Background(), &w, "héllo")
	require.NoError(t, err)

	out := w.Bytes()
	answer := []byte("héllo")
	require.GreaterOrEqual(t, len(out), len(answer))
	assert.Equal(t, answer, out[:len(answer)], "answer must be replayed before any filler")

	filler := out[len(answer):]
	assert.NotEmpty(t, filler, "keep-alive phase should emit at least one filler byte")
	for i, b := range filler {
		assert.Equalf(t, Filler, b, "byte %d after the answer must be filler", i)
	}

	// One write per rune, one per filler byte.
	assert.Equal(t, 5+len(filler), w.writes)
}

func TestStreamTerminatesWithinBound(t *testing.T) {
	e := NewEmitter(time.Millisecond, 5*time.Millisecond, 30*time.Millisecond)

	start := time.Now()
	err := e.Stream(context.Background(), &bytes.Buffer{}, "abcdef")
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.GreaterOrEqual(t, elapsed, 30*time.Millisecond, "keep-alive window must elapse before close")
	assert.Less(t, elapsed, 2*time.Second, "stream must close shortly after the window")
}

func TestStreamCancelAbortsBothPhases(t *testing.T) {
	e := NewEmitter(10*time.Millisecond, time.Second, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- e.Stream(ctx, &bytes.Buffer{}, "a long answer that will be cut off")
	}()

	time.Sleep(15 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("stream did not abort after cancellation")
	}
}

func TestStreamZeroWindowSkipsKeepAlive(t *testing.T) {
	e := NewEmitter(0, time.Millisecond, 0)
	var buf bytes.Buffer

	err := e.Stream(context.Background(), &buf, "plain")
	require.NoError(t, err)
	assert.Equal(t, "plain", buf.String())
}

func TestStreamEmptyAnswerStillKeepsAlive(t *testing.T) {
	e := NewEmitter(time.Millisecond, 2*time.Millisecond, 10*time.Millisecond)
	var buf bytes.Buffer

	err := e.Stream(context.Background(), &buf, "")
	require.NoError(t, err)

	assert.NotEmpty(t, buf.Bytes())
	for _, b := range buf.Bytes() {
		assert.Equal(t, Filler, b)
	}
}
