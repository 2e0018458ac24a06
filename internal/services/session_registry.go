package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/cache"
)

// SessionRegistry keeps attempt sessions between requests, keyed by attempt token.
type SessionRegistry interface {
	Save(ctx context.Context, session *AttemptSession) error
	Load(ctx context.Context, token string) (*AttemptSession, error)
	Delete(ctx context.Context, token string) error
}

// ===== IN-PROCESS REGISTRY =====

type registryEntry struct {
	session   *AttemptSession
	expiresAt time.Time
}

// MemorySessionRegistry holds live sessions in process memory. Entries expire
// ttl after their last Save or Load.
type MemorySessionRegistry struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]registryEntry
	now      func() time.Time
}

func NewMemorySessionRegistry(ttl time.Duration) *MemorySessionRegistry {
	return &MemorySessionRegistry{
		ttl:      ttl,
		sessions: make(map[string]registryEntry),
		now:      time.Now,
	}
}

func (r *MemorySessionRegistry) Save(_ context.Context, session *AttemptSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[session.Token()] = registryEntry{session: session, expiresAt: r.expiry()}
	r.evictExpiredLocked()
	return nil
}

func (r *MemorySessionRegistry) Load(_ context.Context, token string) (*AttemptSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.sessions[token]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if r.ttl > 0 && r.now().After(entry.expiresAt) {
		delete(r.sessions, token)
		return nil, ErrSessionNotFound
	}

	entry.expiresAt = r.expiry()
	r.sessions[token] = entry
	return entry.session, nil
}

func (r *MemorySessionRegistry) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
	return nil
}

func (r *MemorySessionRegistry) expiry() time.Time {
	return r.now().Add(r.ttl)
}

func (r *MemorySessionRegistry) evictExpiredLocked() {
	if r.ttl <= 0 {
		return
	}
	now := r.now()
	for token, entry := range r.sessions {
		if now.After(entry.expiresAt) {
			delete(r.sessions, token)
		}
	}
}

// ===== CACHE-BACKED REGISTRY =====

// CacheSessionRegistry stores session snapshots in the shared cache so any
// replica can continue an attempt.
type CacheSessionRegistry struct {
	cache    cache.CacheService
	attempts AttemptService
	ttl      time.Duration
}

func NewCacheSessionRegistry(cacheService cache.CacheService, attempts AttemptService, ttl time.Duration) *CacheSessionRegistry {
	return &CacheSessionRegistry{
		cache:    cacheService,
		attempts: attempts,
		ttl:      ttl,
	}
}

func sessionCacheKey(token string) string {
	return fmt.Sprintf("attempt_session:%s", token)
}

func (r *CacheSessionRegistry) Save(ctx context.Context, session *AttemptSession) error {
	if err := r.cache.Set(ctx, sessionCacheKey(session.Token()), session.Snapshot(), r.ttl); err != nil {
		return fmt.Errorf("failed to save attempt session: %w", err)
	}
	return nil
}

func (r *CacheSessionRegistry) Load(ctx context.Context, token string) (*AttemptSession, error) {
	var snapshot AttemptSnapshot
	if err := r.cache.Get(ctx, sessionCacheKey(token), &snapshot); err != nil {
		if cache.IsMiss(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load attempt session: %w", err)
	}
	return r.attempts.Restore(ctx, &snapshot)
}

func (r *CacheSessionRegistry) Delete(ctx context.Context, token string) error {
	return r.cache.Delete(ctx, sessionCacheKey(token))
}
