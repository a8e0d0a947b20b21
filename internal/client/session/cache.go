// Package session keeps the signed in user's profile for a bounded time so
// the CLI does not refetch it on every command. The cache is never the source
// of truth: it is refilled from the server after expiry or logout.
package session

import (
	"time"

	"github.com/artistkatta/jobservice/internal/server/models"
	"github.com/patrickmn/go-cache"
)

// DefaultTTL is how long a cached profile stays valid.
const DefaultTTL = 30 * time.Minute

const profileKey = "profile"

// ProfileCache holds at most one user profile.
type ProfileCache struct {
	c *cache.Cache
}

// New returns an empty cache whose entries expire after ttl. A non-positive
// ttl selects DefaultTTL.
func New(ttl time.Duration) *ProfileCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ProfileCache{c: cache.New(ttl, 2*ttl)}
}

// Get returns a copy of the cached profile.
func (p *ProfileCache) Get() (*models.User, bool) {
	v, ok := p.c.Get(profileKey)
	if !ok {
		return nil, false
	}
	u := v.(models.User)
	return &u, true
}

// Replace stores a copy of u, resetting its expiry.
func (p *ProfileCache) Replace(u *models.User) {
	if u == nil {
		p.Clear()
		return
	}
	p.c.Set(profileKey, *u, cache.DefaultExpiration)
}

func (p *ProfileCache) Clear() {
	p.c.Delete(profileKey)
}
