package geo

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubProvider struct {
	mu      sync.Mutex
	lookups map[string]int
	results map[string]Result
	err     error
}

func newStubProvider(results map[string]Result) *stubProvider {
	return &stubProvider{lookups: make(map[string]int), results: results}
}

func (s *stubProvider) Lookup(_ context.Context, code string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups[code]++
	if s.err != nil {
		return Result{}, s.err
	}
	res, ok := s.results[code]
	if !ok {
		return Result{Found: false}, nil
	}
	return res, nil
}

func (s *stubProvider) lookupCount(code string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookups[code]
}

func TestResolveAllDeduplicatesCodes(t *testing.T) {
	provider := newStubProvider(map[string]Result{
		"75011": {Coordinates: &Coordinates{Lat: 48.86, Lon: 2.38}, Found: true},
	})
	resolver := NewResolver(provider, NewCache(), zap.NewNop())

	resolved := resolver.ResolveAll(context.Background(), []string{"75011", "75011", " 75011 ", "", "99999"})

	assert.Equal(t, 1, provider.lookupCount("75011"), "one lookup per unique code per run")
	assert.Equal(t, 1, provider.lookupCount("99999"))

	require.Contains(t, resolved, "75011")
	assert.NotContains(t, resolved, "99999", "unknown codes resolve to nothing")
}

func TestResolveAllCachesAcrossCalls(t *testing.T) {
	provider := newStubProvider(map[string]Result{
		"69003": {Coordinates: &Coordinates{Lat: 45.75, Lon: 4.85}, Found: true},
	})
	resolver := NewResolver(provider, NewCache(), zap.NewNop())

	resolver.ResolveAll(context.Background(), []string{"69003"})
	resolver.ResolveAll(context.Background(), []string{"69003"})

	assert.Equal(t, 1, provider.lookupCount("69003"))
}

func TestResolveDegradesOnProviderFailure(t *testing.T) {
	provider := newStubProvider(nil)
	provider.err = errors.New("provider unreachable")
	resolver := NewResolver(provider, NewCache(), zap.NewNop())

	coords := resolver.Resolve(context.Background(), "13001")
	assert.Nil(t, coords, "a failed lookup degrades to missing coordinates")

	// The failure is memoized; the code is not retried within the run.
	resolver.Resolve(context.Background(), "13001")
	assert.Equal(t, 1, provider.lookupCount("13001"))
}

func TestResolveEmptyCode(t *testing.T) {
	provider := newStubProvider(nil)
	resolver := NewResolver(provider, NewCache(), zap.NewNop())

	assert.Nil(t, resolver.Resolve(context.Background(), "   "))
	assert.Zero(t, provider.lookupCount(""))
}

func TestCacheFirstWriterWins(t *testing.T) {
	cache := NewCache()
	first := Result{Coordinates: &Coordinates{Lat: 1, Lon: 1}, Found: true}
	cache.Set("75011", first)
	cache.Set("75011", Result{Found: false})

	got, ok := cache.Get("75011")
	require.True(t, ok)
	assert.Equal(t, first, got)
	assert.Equal(t, 1, cache.Len())
}
