// Package resolver turns the unreliable set of discovery providers into one
// consolidated answer: sequential priority fallback for a single person,
// concurrent fan-out with deduplication for a whole domain.
package resolver

import (
	"context"
	"log"
	"sync"

	appErrors "github.com/unclebandit/recruitflow-backend/internal/errors"
	"github.com/unclebandit/recruitflow-backend/internal/provider"
)

// Statuses added on top of the adapter-level ones.
const (
	StatusNoProviders    = "no_providers"
	ProviderAllExhausted = "all_exhausted"
)

// Registry is the slice of provider.Registry the resolver needs.
type Registry interface {
	EmailFinders() []provider.EmailFinder
	DomainSearchers() []provider.DomainSearcher
}

type Resolver struct {
	registry Registry
	cache    *DomainCache
}

// New creates a resolver. cache may be nil to disable domain-result caching.
func New(registry Registry, cache *DomainCache) *Resolver {
	return &Resolver{registry: registry, cache: cache}
}

// FindEmail tries the configured email finders in priority order and stops at
// the first non-empty email. limit_reached, not_found and generic errors all
// fall through to the next adapter; an early success must not consume later
// adapters' quota, so the walk is strictly sequential.
func (r *Resolver) FindEmail(ctx context.Context, firstName, lastName, domain string) provider.EmailResult {
	finders := r.registry.EmailFinders()
	if len(finders) == 0 {
		return provider.EmailResult{Status: StatusNoProviders}
	}

	for _, finder := range finders {
		result := finder.FindEmail(ctx, firstName, lastName, domain)
		if result.Email != "" {
			return result
		}
		if result.Status == provider.StatusLimitReached {
			log.Printf("⚠️ provider %s limit reached, falling back", finder.Name())
		} else if result.Status == provider.StatusError {
			log.Printf("⚠️ provider %s error: %s", finder.Name(), result.Err)
		}
	}

	return provider.EmailResult{Status: provider.StatusNotFound, Provider: ProviderAllExhausted}
}

// SearchDomain fans out to every configured domain searcher concurrently,
// waits for all of them, and merges the results. Contacts are deduplicated
// by exact email match, first occurrence wins; merge order follows provider
// priority so the winner is deterministic. A failing adapter contributes
// nothing but never fails the overall resolution; only an empty provider set
// is an error, because that is a configuration problem rather than a miss.
func (r *Resolver) SearchDomain(ctx context.Context, domain, companyName string) ([]provider.RawContact, error) {
	if r.cache != nil {
		if contacts, ok := r.cache.Get(ctx, domain); ok {
			return contacts, nil
		}
	}

	searchers := r.registry.DomainSearchers()
	if len(searchers) == 0 {
		return nil, appErrors.ErrNoProvidersConfigured
	}

	results := make([][]provider.RawContact, len(searchers))
	var wg sync.WaitGroup
	for i, searcher := range searchers {
		wg.Add(1)
		go func(i int, s provider.DomainSearcher) {
			defer wg.Done()
			contacts, err := s.FindAllEmails(ctx, domain, companyName)
			if err != nil {
				log.Printf("⚠️ provider %s domain search failed: %v", s.Name(), err)
				return
			}
			results[i] = contacts
		}(i, searcher)
	}
	wg.Wait()

	merged := dedupeByEmail(results)

	if r.cache != nil && len(merged) > 0 {
		r.cache.Set(ctx, domain, merged)
	}
	return merged, nil
}

// dedupeByEmail flattens per-provider result sets, keeping the first contact
// seen for each email. The match is exact and case-sensitive.
func dedupeByEmail(results [][]provider.RawContact) []provider.RawContact {
	seen := map[string]bool{}
	merged := []provider.RawContact{}
	for _, contacts := range results {
		for _, contact := range contacts {
			if contact.Email == "" || seen[contact.Email] {
				continue
			}
			seen[contact.Email] = true
			merged = append(merged, contact)
		}
	}
	return merged
}
