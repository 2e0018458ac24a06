package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/cache"
	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionRegistry(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, ServiceManagerConfig{})
	registry := NewMemorySessionRegistry(time.Minute)

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	registry.now = func() time.Time { return now }

	session := f.start(t, "student-1")
	require.NoError(t, registry.Save(ctx, session))

	loaded, err := registry.Load(ctx, session.Token())
	require.NoError(t, err)
	assert.Same(t, session, loaded)

	// Loading refreshes the expiry
	now = now.Add(50 * time.Second)
	_, err = registry.Load(ctx, session.Token())
	require.NoError(t, err)
	now = now.Add(50 * time.Second)
	_, err = registry.Load(ctx, session.Token())
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = registry.Load(ctx, session.Token())
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = registry.Load(ctx, "unknown")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemorySessionRegistry_Delete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, ServiceManagerConfig{})
	registry := NewMemorySessionRegistry(0)

	session := f.start(t, "student-1")
	require.NoError(t, registry.Save(ctx, session))
	require.NoError(t, registry.Delete(ctx, session.Token()))

	_, err := registry.Load(ctx, session.Token())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

// jsonCache is an in-memory CacheService that round-trips values through JSON
// like the Redis implementation does.
type jsonCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newJSONCache() *jsonCache {
	return &jsonCache{data: make(map[string][]byte)}
}

func (c *jsonCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	return nil
}

func (c *jsonCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.data[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (c *jsonCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func TestCacheSessionRegistry_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newJSONCache()
	f := newFixture(t, ServiceManagerConfig{
		Sessions: func(attempts AttemptService) SessionRegistry {
			return NewCacheSessionRegistry(store, attempts, time.Hour)
		},
	})
	registry := f.manager.Sessions()

	session := f.start(t, "student-1")
	require.NoError(t, session.SelectAnswer("Q2", "42"))
	_, err := session.Next()
	require.NoError(t, err)
	require.NoError(t, registry.Save(ctx, session))

	loaded, err := registry.Load(ctx, session.Token())
	require.NoError(t, err)
	assert.NotSame(t, session, loaded)
	assert.Equal(t, session.Token(), loaded.Token())
	assert.Equal(t, 1, loaded.CurrentIndex())
	assert.Equal(t, models.AnswerMap{"Q2": "42"}, loaded.Answers())
	require.Equal(t, session.QuestionCount(), loaded.QuestionCount())
	for i, q := range loaded.Questions() {
		assert.Equal(t, session.Questions()[i].ID, q.ID)
		assert.Equal(t, session.Questions()[i].Options, q.Options)
	}

	// Mutations on a loaded session persist once saved
	require.NoError(t, loaded.SelectAnswer("Q1", "Paris"))
	require.NoError(t, registry.Save(ctx, loaded))

	reloaded, err := registry.Load(ctx, session.Token())
	require.NoError(t, err)
	submission, err := reloaded.Finalize(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, submission.Score)

	require.NoError(t, registry.Delete(ctx, session.Token()))
	_, err = registry.Load(ctx, session.Token())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestCacheSessionRegistry_SecondFinalizeOnSameToken(t *testing.T) {
	ctx := context.Background()
	store := newJSONCache()
	f := newFixture(t, ServiceManagerConfig{
		Sessions: func(attempts AttemptService) SessionRegistry {
			return NewCacheSessionRegistry(store, attempts, time.Hour)
		},
	})
	registry := f.manager.Sessions()

	session := f.start(t, "student-1")
	require.NoError(t, session.SelectAnswer("Q1", "Paris"))
	require.NoError(t, registry.Save(ctx, session))

	// Two requests load the same in-progress snapshot
	a, err := registry.Load(ctx, session.Token())
	require.NoError(t, err)
	b, err := registry.Load(ctx, session.Token())
	require.NoError(t, err)

	first, err := a.Finalize(ctx)
	require.NoError(t, err)

	_, err = b.Finalize(ctx)
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	require.NotNil(t, b.Submission())
	assert.Equal(t, first.ID, b.Submission().ID)

	count, err := f.repo.Submission().CountByStudentAndExam(ctx, "student-1", "E1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
