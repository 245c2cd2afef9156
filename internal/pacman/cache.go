package pacman

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/kilnworks/kiln/internal/log"
)

// inner is what CachedResolver wraps; matches trigger.DependencyResolver.
type inner interface {
	ReverseDependencies(ctx context.Context, pkg string) ([]string, error)
}

// CachedResolver memoizes reverse-dependency answers for the lifetime
// of a batch. pactree walks the whole local database per query, and a
// batch with repeated triggers (hook retries, overlapping globs) would
// otherwise pay that cost each time. Errors are never cached.
type CachedResolver struct {
	next  inner
	cache *gocache.Cache
}

// NewCachedResolver wraps a resolver with a short-lived answer cache.
func NewCachedResolver(next inner, ttl time.Duration) *CachedResolver {
	return &CachedResolver{
		next:  next,
		cache: gocache.New(ttl, 2*ttl),
	}
}

// ReverseDependencies returns the cached answer when present, otherwise
// delegates and stores the result.
func (r *CachedResolver) ReverseDependencies(ctx context.Context, pkg string) ([]string, error) {
	if cached, ok := r.cache.Get(pkg); ok {
		log.Debug(log.CatPacman, "reverse dependency cache hit", "package", pkg)
		return cached.([]string), nil
	}
	deps, err := r.next.ReverseDependencies(ctx, pkg)
	if err != nil {
		return nil, err
	}
	r.cache.SetDefault(pkg, deps)
	return deps, nil
}
