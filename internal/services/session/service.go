// Package session mints and echoes the opaque interaction id that ties a
// sequence of requests into one conversation. The relay holds no state for
// it; continuity is entirely client-driven.
package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const idPrefix = "chat"

// suffixLen keeps ids short while leaving enough randomness to separate
// conversations started in the same millisecond.
const suffixLen = 8

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Resolve returns the authoritative interaction id for a request: an inbound
// id is echoed back unchanged, an absent one is replaced by a fresh mint.
func (s *Service) Resolve(id string) string {
	if id != "" {
		return id
	}
	return s.mint()
}

func (s *Service) mint() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:suffixLen]
	return fmt.Sprintf("%s_%d_%s", idPrefix, time.Now().UnixMilli(), suffix)
}
