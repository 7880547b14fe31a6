package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronohq/chrono-interviews/internal/models"
)

func TestMemoryStore_GetOrCreateUnknownSession(t *testing.T) {
	s := NewMemoryStore()

	history, err := s.GetOrCreate(context.Background(), "s1")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestMemoryStore_AppendPreservesOrder(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		err := s.Append(ctx, "s1", models.Turn{Speaker: models.SpeakerUser, Text: fmt.Sprintf("turn-%d", i)})
		require.NoError(t, err)
	}

	history, err := s.GetOrCreate(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, history, 5)
	for i, turn := range history {
		assert.Equal(t, fmt.Sprintf("turn-%d", i), turn.Text)
	}
}

func TestMemoryStore_SessionsAreIsolated(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "a", models.Turn{Text: "for a"}))
	require.NoError(t, s.Append(ctx, "b", models.Turn{Text: "for b"}))

	a, err := s.GetOrCreate(ctx, "a")
	require.NoError(t, err)
	require.Len(t, a, 1)
	assert.Equal(t, "for a", a[0].Text)
}

func TestMemoryStore_HistoryCopyIsStable(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "s1", models.Turn{Text: "original"}))

	history, err := s.GetOrCreate(ctx, "s1")
	require.NoError(t, err)
	history[0].Text = "mutated"

	again, err := s.GetOrCreate(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "original", again[0].Text)
}

func TestMemoryStore_ConcurrentAppendsAllLand(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.Append(ctx, "s1", models.Turn{Text: fmt.Sprintf("t%d", i)})
		}(i)
	}
	wg.Wait()

	history, err := s.GetOrCreate(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, history, n)
}

// fakeCache is an in-process cache.Cache for RedisStore tests.
type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string][]byte{}} }

func (c *fakeCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) SetJSON(_ context.Context, key string, val any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	c.data[key] = b
	return nil
}

func (c *fakeCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func TestRedisStore_AppendRoundTrip(t *testing.T) {
	s := NewRedisStore(newFakeCache(), 0)
	ctx := context.Background()

	history, err := s.GetOrCreate(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, history)

	require.NoError(t, s.Append(ctx, "s1",
		models.Turn{Speaker: models.SpeakerUser, Text: "hi"},
		models.Turn{Speaker: models.SpeakerAI, Text: "hello"},
	))

	history, err = s.GetOrCreate(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "hi", history[0].Text)
	assert.Equal(t, "hello", history[1].Text)
}
