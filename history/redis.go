package history

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	apsara "github.com/shubharthaksangharsha/apsara2.5"
)

const redisKeyPrefix = "session:"

// Interface compliance check.
var _ Store = (*redisStore)(nil)

// redisStore keeps one JSON record per session under session:<id>.
// Mutations are read-modify-write over the whole record, serialized per
// session within this process; across processes the contract degrades to
// last full write wins, same as the file store.
type redisStore struct {
	client *redis.Client
	ttl    time.Duration
	locks  *sessionLocks
	logger *zap.Logger
}

func newRedisStore(client *redis.Client, ttl time.Duration, logger *zap.Logger) *redisStore {
	return &redisStore{client: client, ttl: ttl, locks: newSessionLocks(), logger: logger}
}

func redisKey(id string) string { return redisKeyPrefix + id }

func (s *redisStore) Create(ctx context.Context, id string) (string, error) {
	if id == "" {
		id = uuid.NewString()
	} else if err := validateID(id); err != nil {
		return "", fmt.Errorf("session id %q: %w", id, err)
	}

	unlock := s.locks.acquire(id)
	defer unlock()

	data, err := MarshalRecord(&apsara.Session{ID: id, CreatedAt: time.Now()})
	if err != nil {
		return "", fmt.Errorf("history: marshal session %s: %w", id, err)
	}
	// SetNX preserves existing history when the id is re-created.
	if err := s.client.SetNX(ctx, redisKey(id), data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("history: create session %s: %w", id, err)
	}
	return id, nil
}

func (s *redisStore) Get(ctx context.Context, id string) (*apsara.Session, error) {
	return s.read(ctx, id)
}

func (s *redisStore) List(ctx context.Context) ([]apsara.SessionSummary, error) {
	var summaries []apsara.SessionSummary
	iter := s.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		id := iter.Val()[len(redisKeyPrefix):]
		sess, err := s.read(ctx, id)
		if err != nil {
			s.logger.Warn("skipping unreadable session",
				zap.String("session_id", id), zap.Error(err))
			continue
		}
		summaries = append(summaries, sess.Summary())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("history: scan sessions: %w", err)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	if summaries == nil {
		summaries = []apsara.SessionSummary{}
	}
	return summaries, nil
}

func (s *redisStore) Delete(ctx context.Context, id string) (bool, error) {
	unlock := s.locks.acquire(id)
	defer unlock()

	n, err := s.client.Del(ctx, redisKey(id)).Result()
	if err != nil {
		return false, fmt.Errorf("history: delete session %s: %w", id, err)
	}
	return n > 0, nil
}

func (s *redisStore) Append(ctx context.Context, id string, role apsara.Role, content string, opts AppendOptions) (string, error) {
	unlock := s.locks.acquire(id)
	defer unlock()

	sess, err := s.read(ctx, id)
	if err != nil {
		return "", err
	}
	messageID := uuid.NewString()
	applyAppend(sess, messageID, role, content, opts)
	if err := s.write(ctx, sess); err != nil {
		return "", err
	}
	return messageID, nil
}

func (s *redisStore) Edit(ctx context.Context, id, messageID, content string) (*apsara.Session, error) {
	unlock := s.locks.acquire(id)
	defer unlock()

	sess, err := s.read(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyEdit(sess, messageID, content); err != nil {
		return nil, err
	}
	if err := s.write(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *redisStore) Messages(ctx context.Context, id string) ([]apsara.Message, error) {
	sess, err := s.read(ctx, id)
	if err != nil {
		return nil, err
	}
	return sess.Messages, nil
}

func (s *redisStore) Close() error {
	return s.client.Close()
}

func (s *redisStore) read(ctx context.Context, id string) (*apsara.Session, error) {
	data, err := s.client.Get(ctx, redisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("session %q: %w", id, apsara.ErrSessionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("history: read session %s: %w", id, err)
	}
	sess, err := UnmarshalRecord(data)
	if err != nil {
		return nil, fmt.Errorf("history: session %s: %w", id, err)
	}
	return sess, nil
}

func (s *redisStore) write(ctx context.Context, sess *apsara.Session) error {
	data, err := MarshalRecord(sess)
	if err != nil {
		return fmt.Errorf("history: marshal session %s: %w", sess.ID, err)
	}
	if err := s.client.Set(ctx, redisKey(sess.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("history: write session %s: %w", sess.ID, err)
	}
	return nil
}
