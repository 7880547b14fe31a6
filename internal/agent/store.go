package agent

import (
	"context"
	"sync"
	"time"

	"github.com/chronohq/chrono-interviews/internal/cache"
	"github.com/chronohq/chrono-interviews/internal/models"
)

// Store holds the live conversation history per session id. Unknown session
// ids resolve to an empty history; there is no explicit create step.
type Store interface {
	GetOrCreate(ctx context.Context, sessionID string) ([]models.Turn, error)
	Append(ctx context.Context, sessionID string, turns ...models.Turn) error
}

// MemoryStore keeps histories in the process. Lost on restart; swap in
// RedisStore where that matters.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]models.Turn
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]models.Turn)}
}

func (s *MemoryStore) GetOrCreate(_ context.Context, sessionID string) ([]models.Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		s.sessions[sessionID] = nil
	}

	history := s.sessions[sessionID]
	out := make([]models.Turn, len(history))
	copy(out, history)
	return out, nil
}

func (s *MemoryStore) Append(_ context.Context, sessionID string, turns ...models.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = append(s.sessions[sessionID], turns...)
	return nil
}

// RedisStore backs histories by the shared JSON cache so active
// conversations survive process restarts. Append is read-modify-write,
// serialized per session id by the engine's process-local locks only:
// a session's turns must all be handled by one process. Running replicas
// behind session-affine routing is fine; unrouted replicas can interleave
// appends and lose turns.
type RedisStore struct {
	cache cache.Cache
	ttl   time.Duration
}

func NewRedisStore(c cache.Cache, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{cache: c, ttl: ttl}
}

func (s *RedisStore) key(sessionID string) string { return "bot_session:" + sessionID + ":history" }

func (s *RedisStore) GetOrCreate(ctx context.Context, sessionID string) ([]models.Turn, error) {
	var history []models.Turn
	hit, err := s.cache.GetJSON(ctx, s.key(sessionID), &history)
	if err != nil {
		return nil, err
	}
	if !hit {
		return nil, nil
	}
	return history, nil
}

func (s *RedisStore) Append(ctx context.Context, sessionID string, turns ...models.Turn) error {
	history, err := s.GetOrCreate(ctx, sessionID)
	if err != nil {
		return err
	}
	history = append(history, turns...)
	return s.cache.SetJSON(ctx, s.key(sessionID), history, s.ttl)
}
