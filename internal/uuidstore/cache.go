package uuidstore

import (
	gocache "github.com/patrickmn/go-cache"
)

// PatrickCache adapts github.com/patrickmn/go-cache to services.UUIDCache.
// No expiration and no janitor sweep: the invariant (a bucket UUID, once
// observed, never changes) makes this safe to treat as a plain growing map.
type PatrickCache struct {
	c *gocache.Cache
}

// NewCache constructs a PatrickCache with no expiration or cleanup interval.
func NewCache() *PatrickCache {
	return &PatrickCache{c: gocache.New(gocache.NoExpiration, gocache.NoExpiration)}
}

func (p *PatrickCache) Get(key string) (string, bool) {
	v, ok := p.c.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (p *PatrickCache) Set(key, value string) {
	p.c.Set(key, value, gocache.NoExpiration)
}
