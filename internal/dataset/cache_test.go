package dataset

import (
	"context"
	"testing"
	"time"

	"analyst-agent/internal/common/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLoader struct {
	calls int
	table *Table
	err   error
}

func (c *countingLoader) Load(ctx context.Context, sourceURL string) (*Table, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.table, nil
}

func cacheFixture(t *testing.T) (*countingLoader, *CachedLoader, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	inner := &countingLoader{
		table: &Table{Films: []Film{{Title: "Avatar", Gross: 2.9e9, Year: 2009, Rank: 1, Peak: 1}}},
	}
	cached := NewCachedLoader(inner, client, time.Minute, logger.NewTestLogger(t))
	return inner, cached, mr
}

func TestCachedLoader_SecondLoadHitsCache(t *testing.T) {
	inner, cached, _ := cacheFixture(t)
	ctx := context.Background()

	first, err := cached.Load(ctx, "http://example.org/films")
	require.NoError(t, err)
	second, err := cached.Load(ctx, "http://example.org/films")
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, first.Films, second.Films)
}

func TestCachedLoader_KeyedBySourceURL(t *testing.T) {
	inner, cached, _ := cacheFixture(t)
	ctx := context.Background()

	_, err := cached.Load(ctx, "http://example.org/a")
	require.NoError(t, err)
	_, err = cached.Load(ctx, "http://example.org/b")
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedLoader_ExpiredEntryReloads(t *testing.T) {
	inner, cached, mr := cacheFixture(t)
	ctx := context.Background()

	_, err := cached.Load(ctx, "http://example.org/films")
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = cached.Load(ctx, "http://example.org/films")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedLoader_RedisDownDegradesToDirectLoad(t *testing.T) {
	inner, cached, mr := cacheFixture(t)
	mr.Close()

	table, err := cached.Load(context.Background(), "http://example.org/films")
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls)
	assert.Len(t, table.Films, 1)
}
