// internal/resolver/cache.go
package resolver

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/unclebandit/recruitflow-backend/internal/provider"
)

// DomainCache is a read-through redis cache for bulk domain lookups. Provider
// quota is the scarce resource here: re-resolving a domain inside the TTL
// serves the cached contact set instead of spending credits again.
type DomainCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewDomainCache(client *redis.Client, ttl time.Duration) *DomainCache {
	return &DomainCache{client: client, ttl: ttl}
}

func cacheKey(domain string) string {
	return "resolver:domain:" + domain
}

// Get returns the cached contact set for a domain. Cache failures behave
// like misses so a redis outage never blocks resolution.
func (c *DomainCache) Get(ctx context.Context, domain string) ([]provider.RawContact, bool) {
	data, err := c.client.Get(ctx, cacheKey(domain)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("⚠️ resolver cache read failed for %s: %v", domain, err)
		return nil, false
	}

	var contacts []provider.RawContact
	if err := json.Unmarshal(data, &contacts); err != nil {
		log.Printf("⚠️ resolver cache payload corrupt for %s: %v", domain, err)
		return nil, false
	}
	return contacts, true
}

// Set stores the contact set for a domain with the configured TTL.
func (c *DomainCache) Set(ctx context.Context, domain string, contacts []provider.RawContact) {
	data, err := json.Marshal(contacts)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(domain), data, c.ttl).Err(); err != nil {
		log.Printf("⚠️ resolver cache write failed for %s: %v", domain, err)
	}
}
