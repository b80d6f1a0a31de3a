package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/developia-II/interview-practice-backend/internal/models"
)

// SessionStore keeps live interviews until they are finished or expire.
// Lock gives one caller exclusive use of a session until the returned
// unlock is called; a held lock yields ErrSessionBusy.
type SessionStore interface {
	Get(ctx context.Context, id string) (*models.Session, error)
	Save(ctx context.Context, s *models.Session) error
	Delete(ctx context.Context, id string) error
	Lock(ctx context.Context, id string) (unlock func(), err error)
}

const (
	sessionKeyPrefix  = "interview:session:"
	sessionLockPrefix = "interview:session:lock:"

	// Upper bound on one locked operation, covering a full LLM evaluation.
	sessionLockTTL = 2 * time.Minute
)

// Deletes the lock only while it still holds our token.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisSessionStore stores sessions as JSON with a sliding TTL.
type RedisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSessionStore(rdb *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, ttl: ttl}
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	data, err := s.rdb.Get(ctx, sessionKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}
	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &sess, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, sess *models.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sess.ID, err)
	}
	if err := s.rdb.Set(ctx, sessionKeyPrefix+sess.ID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", sess.ID, err)
	}
	return nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, sessionKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}

func (s *RedisSessionStore) Lock(ctx context.Context, id string) (func(), error) {
	key := sessionLockPrefix + id
	token := uuid.NewString()
	ok, err := s.rdb.SetNX(ctx, key, token, sessionLockTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("lock session %s: %w", id, err)
	}
	if !ok {
		return nil, ErrSessionBusy
	}
	return func() {
		// The lock expires on its own if this fails.
		_ = unlockScript.Run(context.WithoutCancel(ctx), s.rdb, []string{key}, token).Err()
	}, nil
}

// MemorySessionStore is the single-process store used without Redis.
type MemorySessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]memoryEntry
	locked   map[string]struct{}
}

type memoryEntry struct {
	data    []byte
	expires time.Time
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]memoryEntry),
		locked:   make(map[string]struct{}),
	}
}

func (s *MemorySessionStore) Get(_ context.Context, id string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.ttl > 0 && s.now().After(e.expires) {
		delete(s.sessions, id)
		return nil, ErrSessionNotFound
	}
	var sess models.Session
	if err := json.Unmarshal(e.data, &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &sess, nil
}

func (s *MemorySessionStore) Save(_ context.Context, sess *models.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sess.ID, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = memoryEntry{data: data, expires: s.now().Add(s.ttl)}
	return nil
}

func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *MemorySessionStore) Lock(_ context.Context, id string) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, held := s.locked[id]; held {
		return nil, ErrSessionBusy
	}
	s.locked[id] = struct{}{}
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.locked, id)
	}, nil
}

// RedisQuestionCache implements QuestionCache. Errors are logged and treated
// as cache misses.
type RedisQuestionCache struct {
	rdb    *redis.Client
	logger *slog.Logger
}

func NewRedisQuestionCache(rdb *redis.Client, logger *slog.Logger) *RedisQuestionCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisQuestionCache{rdb: rdb, logger: logger}
}

func (c *RedisQuestionCache) Get(ctx context.Context, key string) ([]models.Question, bool) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("question cache read failed", slog.String("key", key), slog.Any("error", err))
		}
		return nil, false
	}
	var qs []models.Question
	if err := json.Unmarshal(data, &qs); err != nil {
		c.logger.Warn("question cache entry is corrupt", slog.String("key", key), slog.Any("error", err))
		return nil, false
	}
	return qs, true
}

func (c *RedisQuestionCache) Set(ctx context.Context, key string, qs []models.Question, ttl time.Duration) {
	data, err := json.Marshal(qs)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		c.logger.Warn("question cache write failed", slog.String("key", key), slog.Any("error", err))
	}
}
