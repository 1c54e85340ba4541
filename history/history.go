// Package history persists per-session conversation logs.
//
// A Store owns the set of sessions: it is the only component that creates
// or deletes the persisted record for a session, and the sole mutator of a
// session's message sequence. Three drivers are provided: a file store
// (one JSON record per session, written atomically), an in-memory store
// for tests and ephemeral runs, and a Redis store.
package history

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	apsara "github.com/shubharthaksangharsha/apsara2.5"
)

// AppendOptions carries the session-level fields a turn may bind when a
// message is appended. Empty Model and SystemInstruction leave the
// session's bindings untouched. ToolsEnabled is monotonic: a true value
// upgrades the session flag, a false value never downgrades it.
type AppendOptions struct {
	Model             string
	SystemInstruction string
	ToolsEnabled      bool
}

// Store is the session directory and per-session message store.
// Implementations must be safe for concurrent use. Concurrent mutation of
// the same session is not linearizable: the contract is no corruption,
// last full write wins.
type Store interface {
	// Create materializes an empty session record. An empty id generates a
	// fresh one. Re-creating an existing id is a no-op that preserves
	// history. A syntactically invalid caller-supplied id fails with
	// apsara.ErrValidation.
	Create(ctx context.Context, id string) (string, error)

	// Get returns the full session record.
	Get(ctx context.Context, id string) (*apsara.Session, error)

	// List returns summaries of all sessions, newest first. Unreadable
	// entries are skipped rather than aborting the listing.
	List(ctx context.Context) ([]apsara.SessionSummary, error)

	// Delete removes the session and all its messages, reporting whether
	// it existed. Deleting a non-existent id is not an error.
	Delete(ctx context.Context, id string) (bool, error)

	// Append adds a message to the end of the session's sequence and
	// returns its id, updating session bindings per opts.
	Append(ctx context.Context, id string, role apsara.Role, content string, opts AppendOptions) (string, error)

	// Edit overwrites the identified message's content and timestamp, then
	// discards every message after it. The edited message is kept.
	Edit(ctx context.Context, id, messageID, content string) (*apsara.Session, error)

	// Messages returns the session's ordered message sequence.
	Messages(ctx context.Context, id string) ([]apsara.Message, error)

	// Close releases any resources held by the store.
	Close() error
}

// Driver selects a Store implementation.
type Driver string

const (
	DriverFile   Driver = "file"
	DriverMemory Driver = "memory"
	DriverRedis  Driver = "redis"
)

// Option configures a Store built by New.
type Option func(*config)

type config struct {
	dir         string
	logger      *zap.Logger
	redisClient *redis.Client
	redisTTL    time.Duration
}

// WithDir sets the root directory for the file driver.
// Default is "data/history".
func WithDir(dir string) Option {
	return func(c *config) { c.dir = dir }
}

// WithLogger sets the store's logger. Default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithRedisClient sets the client for the Redis driver.
func WithRedisClient(client *redis.Client) Option {
	return func(c *config) { c.redisClient = client }
}

// WithRedisTTL sets the expiry for Redis session keys. Zero means no expiry.
func WithRedisTTL(ttl time.Duration) Option {
	return func(c *config) { c.redisTTL = ttl }
}

// New builds a Store for the given driver.
func New(driver Driver, opts ...Option) (Store, error) {
	cfg := &config{
		dir:    "data/history",
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	switch driver {
	case DriverFile:
		return newFileStore(cfg.dir, cfg.logger)
	case DriverMemory:
		return newMemoryStore(), nil
	case DriverRedis:
		if cfg.redisClient == nil {
			return nil, errNoRedisClient
		}
		return newRedisStore(cfg.redisClient, cfg.redisTTL, cfg.logger), nil
	default:
		return nil, errUnknownDriver(driver)
	}
}

// validateID rejects ids that cannot serve as storage keys: empty or
// whitespace-only strings, path traversal elements, and path separators.
func validateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return apsara.ErrValidation
	}
	if id == "." || id == ".." {
		return apsara.ErrValidation
	}
	if strings.ContainsAny(id, "/\\") {
		return apsara.ErrValidation
	}
	return nil
}

// sessionLocks provides per-session mutual exclusion for read-modify-write
// mutations within this process.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sync.Mutex)}
}

// acquire locks the named session and returns its unlock function.
func (l *sessionLocks) acquire(id string) func() {
	l.mu.Lock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
