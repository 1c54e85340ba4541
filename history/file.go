package history

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apsara "github.com/shubharthaksangharsha/apsara2.5"
)

// recordFile is the name of the session record inside its directory.
const recordFile = "history.json"

// Interface compliance check.
var _ Store = (*fileStore)(nil)

// fileStore keeps one JSON record per session under dir/<id>/history.json.
// Every mutation rewrites the whole record through a temp-file-then-rename
// sequence, so a reader never observes a partially written record.
type fileStore struct {
	dir    string
	locks  *sessionLocks
	logger *zap.Logger
}

func newFileStore(dir string, logger *zap.Logger) (*fileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("history: create dir: %w", err)
	}
	return &fileStore{dir: dir, locks: newSessionLocks(), logger: logger}, nil
}

func (s *fileStore) recordPath(id string) string {
	return filepath.Join(s.dir, id, recordFile)
}

func (s *fileStore) Create(_ context.Context, id string) (string, error) {
	if id == "" {
		id = uuid.NewString()
	} else if err := validateID(id); err != nil {
		return "", fmt.Errorf("session id %q: %w", id, err)
	}

	unlock := s.locks.acquire(id)
	defer unlock()

	path := s.recordPath(id)
	if _, err := os.Stat(path); err == nil {
		// Re-creating an existing session preserves its history.
		return id, nil
	}

	sess := &apsara.Session{ID: id, CreatedAt: time.Now()}
	if err := s.write(id, sess); err != nil {
		return "", err
	}
	s.logger.Debug("session created", zap.String("session_id", id))
	return id, nil
}

func (s *fileStore) Get(_ context.Context, id string) (*apsara.Session, error) {
	if err := validateID(id); err != nil {
		return nil, fmt.Errorf("session %q: %w", id, apsara.ErrSessionNotFound)
	}
	return s.read(id)
}

func (s *fileStore) List(_ context.Context) ([]apsara.SessionSummary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []apsara.SessionSummary{}, nil
		}
		return nil, fmt.Errorf("history: read dir: %w", err)
	}

	summaries := make([]apsara.SessionSummary, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		sess, err := s.read(entry.Name())
		if err != nil {
			// An unreadable entry must not abort the whole listing.
			s.logger.Warn("skipping unreadable session",
				zap.String("session_id", entry.Name()), zap.Error(err))
			continue
		}
		summaries = append(summaries, sess.Summary())
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries, nil
}

func (s *fileStore) Delete(_ context.Context, id string) (bool, error) {
	if err := validateID(id); err != nil {
		return false, nil
	}

	unlock := s.locks.acquire(id)
	defer unlock()

	dir := filepath.Join(s.dir, id)
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("history: stat session %s: %w", id, err)
	}
	if err := os.RemoveAll(dir); err != nil {
		return false, fmt.Errorf("history: delete session %s: %w", id, err)
	}
	s.logger.Debug("session deleted", zap.String("session_id", id))
	return true, nil
}

func (s *fileStore) Append(_ context.Context, id string, role apsara.Role, content string, opts AppendOptions) (string, error) {
	if err := validateID(id); err != nil {
		return "", fmt.Errorf("session %q: %w", id, apsara.ErrSessionNotFound)
	}

	unlock := s.locks.acquire(id)
	defer unlock()

	sess, err := s.read(id)
	if err != nil {
		return "", err
	}

	messageID := uuid.NewString()
	applyAppend(sess, messageID, role, content, opts)

	if err := s.write(id, sess); err != nil {
		return "", err
	}
	return messageID, nil
}

func (s *fileStore) Edit(_ context.Context, id, messageID, content string) (*apsara.Session, error) {
	if err := validateID(id); err != nil {
		return nil, fmt.Errorf("session %q: %w", id, apsara.ErrSessionNotFound)
	}

	unlock := s.locks.acquire(id)
	defer unlock()

	sess, err := s.read(id)
	if err != nil {
		return nil, err
	}
	if err := applyEdit(sess, messageID, content); err != nil {
		return nil, err
	}
	if err := s.write(id, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *fileStore) Messages(ctx context.Context, id string) ([]apsara.Message, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return sess.Messages, nil
}

func (s *fileStore) Close() error { return nil }

func (s *fileStore) read(id string) (*apsara.Session, error) {
	data, err := os.ReadFile(s.recordPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("session %q: %w", id, apsara.ErrSessionNotFound)
		}
		return nil, fmt.Errorf("history: read session %s: %w", id, err)
	}
	sess, err := UnmarshalRecord(data)
	if err != nil {
		return nil, fmt.Errorf("history: session %s: %w", id, err)
	}
	return sess, nil
}

// write commits the whole record atomically: marshal, write to a temp file
// in the session directory, rename over the record.
func (s *fileStore) write(id string, sess *apsara.Session) error {
	data, err := MarshalRecord(sess)
	if err != nil {
		return fmt.Errorf("history: marshal session %s: %w", id, err)
	}
	path := s.recordPath(id)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("history: create session dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("history: write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) // best-effort cleanup
		return fmt.Errorf("history: rename temp file: %w", err)
	}
	return nil
}

// applyAppend mutates sess in place with a new message and any session
// bindings the turn supplies.
func applyAppend(sess *apsara.Session, messageID string, role apsara.Role, content string, opts AppendOptions) {
	if opts.Model != "" {
		sess.Model = opts.Model
	}
	if opts.SystemInstruction != "" {
		sess.SystemInstruction = opts.SystemInstruction
	}
	if opts.ToolsEnabled {
		sess.ToolsEnabled = true
	}
	sess.Messages = append(sess.Messages, apsara.Message{
		ID:        messageID,
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
}

// applyEdit overwrites the identified message and truncates everything
// after it. The edited message itself is kept.
func applyEdit(sess *apsara.Session, messageID, content string) error {
	idx := -1
	for i, m := range sess.Messages {
		if m.ID == messageID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("message %q in session %q: %w", messageID, sess.ID, apsara.ErrMessageNotFound)
	}
	sess.Messages[idx].Content = content
	sess.Messages[idx].Timestamp = time.Now()
	sess.Messages = sess.Messages[:idx+1]
	return nil
}
