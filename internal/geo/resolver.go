package geo

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// lookupConcurrency bounds parallel provider requests per batch.
const lookupConcurrency = 4

// Provider resolves a single postal code against an external geocoding
// service. Lookups are read-only and idempotent.
type Provider interface {
	Lookup(ctx context.Context, code string) (Result, error)
}

// Resolver deduplicates postal codes, queries the provider once per unique
// code per run and caches the results. A failed or empty lookup degrades to
// missing coordinates and never aborts the batch.
type Resolver struct {
	provider Provider
	cache    *Cache
	logger   *zap.Logger
}

func NewResolver(provider Provider, cache *Cache, logger *zap.Logger) *Resolver {
	if cache == nil {
		cache = NewCache()
	}
	return &Resolver{provider: provider, cache: cache, logger: logger}
}

// Resolve returns the coordinates for a single postal code, consulting the
// per-run cache first. Unknown and unresolvable codes both return nil.
func (r *Resolver) Resolve(ctx context.Context, code string) *Coordinates {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil
	}
	if res, ok := r.cache.Get(code); ok {
		return res.Coordinates
	}
	r.ResolveAll(ctx, []string{code})
	res, _ := r.cache.Get(code)
	return res.Coordinates
}

// ResolveAll resolves a batch of postal codes concurrently, one provider
// request per unique uncached code. The returned map holds coordinates only
// for codes the provider knows.
func (r *Resolver) ResolveAll(ctx context.Context, codes []string) map[string]*Coordinates {
	pending := r.dedupe(codes)

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(lookupConcurrency)

	for _, code := range pending {
		group.Go(func() error {
			res, err := r.provider.Lookup(gctx, code)
			if err != nil {
				if r.logger != nil {
					r.logger.Warn("geocode lookup failed, treating as missing coordinates",
						zap.String("postal_code", code),
						zap.Error(err),
					)
				}
				r.cache.Set(code, Result{Found: false})
				return nil
			}
			if !res.Found && r.logger != nil {
				r.logger.Warn("postal code not known to geocoding provider",
					zap.String("postal_code", code),
				)
			}
			r.cache.Set(code, res)
			return nil
		})
	}

	// Workers never return errors; failures degrade per code.
	_ = group.Wait()

	resolved := make(map[string]*Coordinates)
	for _, code := range codes {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		if res, ok := r.cache.Get(code); ok && res.Found {
			resolved[code] = res.Coordinates
		}
	}
	return resolved
}

// dedupe returns the sorted unique codes from the batch that are not cached
// yet. Callers feed whole columns in, so duplicates are the common case.
func (r *Resolver) dedupe(codes []string) []string {
	seen := make(map[string]struct{})
	pending := make([]string, 0, len(codes))
	for _, code := range codes {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		if _, ok := r.cache.Get(code); ok {
			continue
		}
		pending = append(pending, code)
	}
	sort.Strings(pending)
	return pending
}
