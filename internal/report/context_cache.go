package report

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/balkashynov/times/internal/models"
)

// DefaultContextTTL is how long a report link stays usable.
const DefaultContextTTL = 6 * time.Hour

// ErrContextNotFound is returned for tokens that are unknown or have
// expired. The web layer turns it into a user-facing error page, never a
// crash.
var ErrContextNotFound = errors.New("report context not found or expired")

// Context ties a report token to the owner whose history it may show.
type Context struct {
	Token     string
	Owner     models.Owner
	CreatedAt time.Time
	ExpiresAt time.Time
}

// ContextCache maps tokens to report contexts with a fixed TTL. Expiry is
// checked lazily on Get; Sweep exists for callers that want periodic
// cleanup. No per-entry timers, so nothing leaks if the process outlives an
// entry.
type ContextCache struct {
	ttl time.Duration

	mu       sync.Mutex
	contexts map[string]Context
}

// NewContextCache creates a cache with the given TTL. A non-positive ttl
// falls back to DefaultContextTTL.
func NewContextCache(ttl time.Duration) *ContextCache {
	if ttl <= 0 {
		ttl = DefaultContextTTL
	}
	return &ContextCache{
		ttl:      ttl,
		contexts: make(map[string]Context),
	}
}

// Create registers a new context for the owner and returns it. The token is
// a v4 UUID, safe to embed in a URL.
func (c *ContextCache) Create(owner models.Owner, now time.Time) Context {
	ctx := Context{
		Token:     uuid.NewString(),
		Owner:     owner,
		CreatedAt: now,
		ExpiresAt: now.Add(c.ttl),
	}
	c.mu.Lock()
	c.contexts[ctx.Token] = ctx
	c.mu.Unlock()
	return ctx
}

// Get resolves a token. Expired entries are deleted on the way out and
// reported as ErrContextNotFound, same as unknown tokens.
func (c *ContextCache) Get(token string, now time.Time) (Context, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ctx, ok := c.contexts[token]
	if !ok {
		return Context{}, ErrContextNotFound
	}
	if now.After(ctx.ExpiresAt) {
		delete(c.contexts, token)
		return Context{}, ErrContextNotFound
	}
	return ctx, nil
}

// Sweep drops every expired entry and returns how many were removed.
func (c *ContextCache) Sweep(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for token, ctx := range c.contexts {
		if now.After(ctx.ExpiresAt) {
			delete(c.contexts, token)
			removed++
		}
	}
	return removed
}

// Len reports the number of live entries, expired or not.
func (c *ContextCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.contexts)
}
