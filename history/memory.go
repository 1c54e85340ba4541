package history

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	apsara "github.com/shubharthaksangharsha/apsara2.5"
)

// Interface compliance check.
var _ Store = (*memoryStore)(nil)

// memoryStore holds sessions in a map. It mirrors the file store's
// semantics without durability. Useful for tests and ephemeral runs.
type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*apsara.Session
}

func newMemoryStore() *memoryStore {
	return &memoryStore{sessions: make(map[string]*apsara.Session)}
}

func (s *memoryStore) Create(_ context.Context, id string) (string, error) {
	if id == "" {
		id = uuid.NewString()
	} else if err := validateID(id); err != nil {
		return "", fmt.Errorf("session id %q: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sessions == nil {
		return "", errStoreClosed
	}
	if _, ok := s.sessions[id]; !ok {
		s.sessions[id] = &apsara.Session{ID: id, CreatedAt: time.Now()}
	}
	return id, nil
}

func (s *memoryStore) Get(_ context.Context, id string) (*apsara.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %q: %w", id, apsara.ErrSessionNotFound)
	}
	return copySession(sess), nil
}

func (s *memoryStore) List(_ context.Context) ([]apsara.SessionSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]apsara.SessionSummary, 0, len(s.sessions))
	for _, sess := range s.sessions {
		summaries = append(summaries, sess.Summary())
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries, nil
}

func (s *memoryStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok, nil
}

func (s *memoryStore) Append(_ context.Context, id string, role apsara.Role, content string, opts AppendOptions) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return "", fmt.Errorf("session %q: %w", id, apsara.ErrSessionNotFound)
	}
	messageID := uuid.NewString()
	applyAppend(sess, messageID, role, content, opts)
	return messageID, nil
}

func (s *memoryStore) Edit(_ context.Context, id, messageID, content string) (*apsara.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %q: %w", id, apsara.ErrSessionNotFound)
	}
	if err := applyEdit(sess, messageID, content); err != nil {
		return nil, err
	}
	return copySession(sess), nil
}

func (s *memoryStore) Messages(_ context.Context, id string) ([]apsara.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %q: %w", id, apsara.ErrSessionNotFound)
	}
	msgs := make([]apsara.Message, len(sess.Messages))
	copy(msgs, sess.Messages)
	return msgs, nil
}

func (s *memoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = nil
	return nil
}

// copySession returns a defensive copy so callers cannot mutate stored
// state through the returned pointer.
func copySession(sess *apsara.Session) *apsara.Session {
	out := *sess
	out.Messages = make([]apsara.Message, len(sess.Messages))
	copy(out.Messages, sess.Messages)
	return &out
}
