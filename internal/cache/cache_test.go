package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	InitRedis(mr.Addr())
	t.Cleanup(func() { client = nil })
	require.NotNil(t, client, "expected redis client to connect to miniredis")
	return mr
}

func TestAside_MissThenHit(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	fetchCalls := 0
	fetch := func(dest *string) func() error {
		return func() error {
			fetchCalls++
			*dest = "from-db"
			return nil
		}
	}

	var got string
	err := Aside(ctx, PostKey("p1"), &got, PostTTL, fetch(&got))
	require.NoError(t, err)
	assert.Equal(t, "from-db", got)
	assert.Equal(t, 1, fetchCalls)

	// Second read must come from the cache, not the fetcher.
	var again string
	err = Aside(ctx, PostKey("p1"), &again, PostTTL, fetch(&again))
	require.NoError(t, err)
	assert.Equal(t, "from-db", again)
	assert.Equal(t, 1, fetchCalls)
}

func TestAside_InvalidateForcesRefetch(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	fetchCalls := 0
	var got string
	fetch := func() error {
		fetchCalls++
		got = "v"
		return nil
	}

	require.NoError(t, Aside(ctx, TimelineKey("u1"), &got, TimelineTTL, fetch))
	Invalidate(ctx, TimelineKey("u1"))
	require.NoError(t, Aside(ctx, TimelineKey("u1"), &got, TimelineTTL, fetch))
	assert.Equal(t, 2, fetchCalls)
}

func TestAside_NilClientAlwaysFetches(t *testing.T) {
	client = nil
	ctx := context.Background()

	fetchCalls := 0
	var got int
	fetch := func() error {
		fetchCalls++
		got = 42
		return nil
	}

	require.NoError(t, Aside(ctx, PostKey("p2"), &got, PostTTL, fetch))
	require.NoError(t, Aside(ctx, PostKey("p2"), &got, PostTTL, fetch))
	assert.Equal(t, 2, fetchCalls)
	assert.Equal(t, 42, got)
}

func TestKeyInventory(t *testing.T) {
	assert.Equal(t, "post:abc", PostKey("abc"))
	assert.Equal(t, "user:u1", UserKey("u1"))
	assert.Equal(t, "timeline:u1", TimelineKey("u1"))
}
