package pacman

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingResolver struct {
	deps  map[string][]string
	err   error
	calls int
}

func (c *countingResolver) ReverseDependencies(_ context.Context, pkg string) ([]string, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.deps[pkg], nil
}

func TestCachedResolverMemoizes(t *testing.T) {
	upstream := &countingResolver{deps: map[string][]string{
		"qt6-base": {"aur-app", "aur-widget"},
	}}
	cached := NewCachedResolver(upstream, time.Minute)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		deps, err := cached.ReverseDependencies(ctx, "qt6-base")
		require.NoError(t, err)
		require.Equal(t, []string{"aur-app", "aur-widget"}, deps)
	}
	require.Equal(t, 1, upstream.calls)

	_, err := cached.ReverseDependencies(ctx, "boost")
	require.NoError(t, err)
	require.Equal(t, 2, upstream.calls)
}

func TestCachedResolverDoesNotCacheErrors(t *testing.T) {
	boom := errors.New("pactree missing")
	upstream := &countingResolver{err: boom}
	cached := NewCachedResolver(upstream, time.Minute)

	ctx := context.Background()
	_, err := cached.ReverseDependencies(ctx, "qt6-base")
	require.ErrorIs(t, err, boom)

	upstream.err = nil
	upstream.deps = map[string][]string{"qt6-base": {"aur-app"}}
	deps, err := cached.ReverseDependencies(ctx, "qt6-base")
	require.NoError(t, err)
	require.Equal(t, []string{"aur-app"}, deps)
	require.Equal(t, 2, upstream.calls)
}

func TestCachedResolverEmptyAnswerIsCached(t *testing.T) {
	upstream := &countingResolver{deps: map[string][]string{}}
	cached := NewCachedResolver(upstream, time.Minute)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		deps, err := cached.ReverseDependencies(ctx, "leafpkg")
		require.NoError(t, err)
		require.Empty(t, deps)
	}
	require.Equal(t, 1, upstream.calls)
}
