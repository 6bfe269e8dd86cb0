package stream

import (
	"context"
	"io"
	"net/http"
	"time"
)

// Filler is the byte emitted during the keep-alive phase. NUL never occurs
// in answer text, so consumers can strip it without risk of eating content.
const Filler byte = 0x00

// Emitter converts an already-known answer into a paced byte stream: the
// answer's characters one at a time separated by CharDelay, followed by one
// Filler byte every KeepAliveInterval until KeepAliveWindow has elapsed.
type Emitter struct {
	CharDelay         time.Duration
	KeepAliveInterval time.Duration
	KeepAliveWindow   time.Duration
}

func NewEmitter(charDelay, keepAliveInterval, keepAliveWindow time.Duration) *Emitter {
	return &Emitter{
		CharDelay:         charDelay,
		KeepAliveInterval: keepAliveInterval,
		KeepAliveWindow:   keepAliveWindow,
	}
}

// Stream writes the paced replay of answer followed by the keep-alive phase
// to w, flushing after every write when w supports it. It returns early with
// ctx.Err() as soon as ctx is cancelled, in either phase. Total duration is
// bounded by len(answer in runes)×CharDelay + KeepAliveWindow.
func (e *Emitter) Stream(ctx context.Context, w io.Writer, answer string) error {
	flusher, _ := w.(http.Flusher)

	for _, r := range answer {
		if _, err := io.WriteString(w, string(r)); err != nil {
			return err
		}
		if flusher != nil {
			flusher.Flush()
		}
		if err := sleep(ctx, e.CharDelay); err != nil {
			return err
		}
	}

	return e.keepAlive(ctx, w, flusher)
}

func (e *Emitter) keepAlive(ctx context.Context, w io.Writer, flusher http.Flusher) error {
	if e.KeepAliveWindow <= 0 {
		return nil
	}

	deadline := time.NewTimer(e.KeepAliveWindow)
	defer deadline.Stop()
	ticker := time.NewTicker(e.KeepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return nil
		case <-ticker.C:
			if _, err := w.Write([]byte{Filler}); err != nil {
				return err
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
