package conversation

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Status tracks the lifecycle of the in-flight exchange.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusAwaiting  Status = "awaiting-response"
	StatusStreaming Status = "streaming"
	StatusComplete  Status = "complete"
	StatusErrored   Status = "errored"
)

type Message struct {
	ID        string
	Role      string
	Content   string
	Images    []string
	Timestamp time.Time
}

// NewMessage stamps a message with a fresh id and the current time.
func NewMessage(role, content string, images []string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Images:    images,
		Timestamp: time.Now(),
	}
}

// State is the ordered transcript of one conversation plus the session id the
// relay handed out for it. Messages are append-only; the only in-place
// mutation is growth of the latest assistant message while a reply streams.
type State struct {
	mu        sync.Mutex
	messages  []Message
	sessionID string
	status    Status
}

func New() *State {
	return &State{status: StatusIdle}
}

func (s *State) Append(m Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, m)
}

// UpdateLast replaces the content of the latest message, provided it is the
// assistant message with the given id. Content growth is monotonic: a
// replacement shorter than what is already displayed is ignored.
func (s *State) UpdateLast(assistantID, content string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.messages) == 0 {
		return false
	}
	last := &s.messages[len(s.messages)-1]
	if last.Role != RoleAssistant || last.ID != assistantID {
		return false
	}
	if len(content) < len(last.Content) {
		return false
	}
	last.Content = content
	return true
}

// Reset clears the transcript and forgets the session id. Safe to call in any
// state, any number of times.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
	s.sessionID = ""
	s.status = StatusIdle
}

// Messages returns a snapshot of the transcript.
func (s *State) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *State) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

func (s *State) SetSessionID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionID = id
}

func (s *State) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *State) SetStatus(status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

// Loading reports whether a request is outstanding with no reply text yet.
func (s *State) Loading() bool {
	return s.Status() == StatusAwaiting
}
