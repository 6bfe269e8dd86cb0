// Package answer abstracts where the relay gets its single synchronous
// answer from.
package answer

import "context"

// Provider produces one complete answer per call. Implementations must make
// exactly one outbound call and never retry; the relay's
// one-upstream-call-per-request guarantee rests on that.
type Provider interface {
	Answer(ctx context.Context, query, sessionID, imgBase64 string) (string, error)
}
