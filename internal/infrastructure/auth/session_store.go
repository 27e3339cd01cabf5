package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/infrastructure/config"
)

const sessionKeyPrefix = "session:"

// RedisSessionStore implements identity.SessionStore using Redis.
// Each session lives under session:<jti> with a TTL equal to the token
// expiry, and session:principal:<kind>:<id> is a set of the principal's
// session ids used by RevokeAll.
type RedisSessionStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 3,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis for sessions: %w", err)
	}
	return client, nil
}

// NewRedisSessionStore creates a session store on an existing Redis client
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client, now: time.Now}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func principalKey(kind identity.PrincipalKind, principalID string) string {
	return sessionKeyPrefix + "principal:" + string(kind) + ":" + principalID
}

// Save stores the session until it expires
func (s *RedisSessionStore) Save(ctx context.Context, session *identity.Session) error {
	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", session.ID)
	}
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	pk := principalKey(session.Kind, session.PrincipalID)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKey(session.ID), payload, ttl)
		pipe.SAdd(ctx, pk, session.ID)
		// NX sets the first TTL; GT extends it for a longer-lived session
		pipe.ExpireNX(ctx, pk, ttl)
		pipe.ExpireGT(ctx, pk, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Get returns the session or identity.ErrSessionNotFound
func (s *RedisSessionStore) Get(ctx context.Context, id string) (*identity.Session, error) {
	raw, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, identity.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var session identity.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	if session.IsExpired(s.now()) {
		return nil, identity.ErrSessionNotFound
	}
	return &session, nil
}

// Revoke deletes a single session. Unknown ids are ignored.
func (s *RedisSessionStore) Revoke(ctx context.Context, id string) error {
	session, err := s.Get(ctx, id)
	if errors.Is(err, identity.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, sessionKey(id))
		pipe.SRem(ctx, principalKey(session.Kind, session.PrincipalID), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// RevokeAll deletes every session of the principal except those in keep
func (s *RedisSessionStore) RevokeAll(ctx context.Context, kind identity.PrincipalKind, principalID string, keep ...string) error {
	pk := principalKey(kind, principalID)
	ids, err := s.client.SMembers(ctx, pk).Result()
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	revoke := revocable(ids, keep)
	if len(revoke) == 0 {
		return nil
	}

	keys := make([]string, len(revoke))
	members := make([]interface{}, len(revoke))
	for i, id := range revoke {
		keys[i] = sessionKey(id)
		members[i] = id
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, keys...)
		pipe.SRem(ctx, pk, members...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}
	return nil
}

func revocable(ids, keep []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(keep, id) {
			out = append(out, id)
		}
	}
	return out
}

var _ identity.SessionStore = (*RedisSessionStore)(nil)

// MemorySessionStore keeps sessions in process memory.
// It only suits tests and single-instance deployments.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]identity.Session
	now      func() time.Time
}

// NewMemorySessionStore creates an empty in-memory session store
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]identity.Session),
		now:      time.Now,
	}
}

// Save stores a copy of the session
func (s *MemorySessionStore) Save(_ context.Context, session *identity.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = *session
	return nil
}

// Get returns the session or identity.ErrSessionNotFound. Expired sessions are purged.
func (s *MemorySessionStore) Get(_ context.Context, id string) (*identity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, identity.ErrSessionNotFound
	}
	if session.IsExpired(s.now()) {
		delete(s.sessions, id)
		return nil, identity.ErrSessionNotFound
	}
	return &session, nil
}

// Revoke deletes a single session
func (s *MemorySessionStore) Revoke(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// RevokeAll deletes every session of the principal except those in keep
func (s *MemorySessionStore) RevokeAll(_ context.Context, kind identity.PrincipalKind, principalID string, keep ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, session := range s.sessions {
		if session.Kind == kind && session.PrincipalID == principalID && !slices.Contains(keep, id) {
			delete(s.sessions, id)
		}
	}
	return nil
}

// Len returns the number of stored sessions, expired ones included
func (s *MemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

var _ identity.SessionStore = (*MemorySessionStore)(nil)
