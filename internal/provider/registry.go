// internal/provider/registry.go
package provider

import (
	"log"
	"sync"

	"github.com/unclebandit/recruitflow-backend/internal/config"
)

// Registry holds the active provider set, built once from configuration.
// An adapter whose credential is absent is simply excluded, never an error.
// Reload swaps the whole set atomically when configuration changes.
type Registry struct {
	mu        sync.RWMutex
	finders   []EmailFinder
	searchers []DomainSearcher
	locator   CompanyLocator
}

func NewRegistry(cfg config.Config) *Registry {
	r := &Registry{}
	r.Reload(cfg)
	return r
}

// Reload rebuilds the provider set from configuration. Email finders keep
// the configured priority order; that ordering is what the sequential
// fallback walks.
func (r *Registry) Reload(cfg config.Config) {
	finderByName := map[string]EmailFinder{}
	searcherByName := map[string]DomainSearcher{}

	if cfg.Hunter.Enabled() {
		client := NewHunterClient(cfg.Hunter)
		finderByName[client.Name()] = client
		searcherByName[client.Name()] = client
	}
	if cfg.Snov.Enabled() {
		client := NewSnovClient(cfg.Snov)
		finderByName[client.Name()] = client
		searcherByName[client.Name()] = client
	}
	if cfg.Apollo.Enabled() {
		client := NewApolloClient(cfg.Apollo)
		searcherByName[client.Name()] = client
	}

	finders := make([]EmailFinder, 0, len(finderByName))
	searchers := make([]DomainSearcher, 0, len(searcherByName))
	for _, name := range cfg.Providers.Priority {
		if f, ok := finderByName[name]; ok {
			finders = append(finders, f)
		}
		if s, ok := searcherByName[name]; ok {
			searchers = append(searchers, s)
		}
	}

	var locator CompanyLocator
	if cfg.Company.Enabled() {
		locator = NewCompanyEnrichClient(cfg.Company)
	}

	r.mu.Lock()
	r.finders = finders
	r.searchers = searchers
	r.locator = locator
	r.mu.Unlock()

	log.Printf("provider registry loaded: %d email finders, %d domain searchers, company locator: %v",
		len(finders), len(searchers), locator != nil)
}

// EmailFinders returns the active single-lookup adapters in priority order.
func (r *Registry) EmailFinders() []EmailFinder {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]EmailFinder(nil), r.finders...)
}

// DomainSearchers returns the active bulk-lookup adapters in priority order.
func (r *Registry) DomainSearchers() []DomainSearcher {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]DomainSearcher(nil), r.searchers...)
}

// Locator returns the company-search adapter, or nil when unconfigured.
func (r *Registry) Locator() CompanyLocator {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.locator
}
