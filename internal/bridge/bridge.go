// Package bridge lazily promotes local demo sessions into durable backend
// sessions. Demo sessions are created client-side for zero-latency preview,
// but a real chat turn needs server-side state, so materialization is
// deferred to the first message and memoized so repeated messages never
// create duplicate backend sessions.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/mindhacker/edge/internal/curriculum"
	"github.com/mindhacker/edge/internal/session"
)

// ErrSessionDataNotFound reports that the local data needed to materialize
// a session is missing. It must reach the caller: silently substituting the
// local id would send chat messages against a nonexistent backend session.
var ErrSessionDataNotFound = errors.New("session data not found")

// Creator creates a backend session from a local curriculum. Satisfied by
// *api.Client.
type Creator interface {
	CreateSession(ctx context.Context, c curriculum.Curriculum) (session.Data, error)
}

// Cache maps local session ids to backend ids. Injected so its lifetime is
// owned by the host application and tests can observe it.
type Cache interface {
	Get(localID string) (string, bool)
	Set(localID, backendID string)
}

// MemoryCache is a process-lifetime Cache.
type MemoryCache struct {
	m  map[string]string
	mu sync.RWMutex
}

// NewMemoryCache creates an empty id-mapping cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{m: make(map[string]string)}
}

func (c *MemoryCache) Get(localID string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.m[localID]
	return id, ok
}

func (c *MemoryCache) Set(localID, backendID string) {
	c.mu.Lock()
	c.m[localID] = backendID
	c.mu.Unlock()
}

// Bridge exchanges local demo sessions for backend-tracked ones.
type Bridge struct {
	store   session.Store
	creator Creator
	cache   Cache
	group   singleflight.Group
}

// New creates a Bridge. A nil cache gets a fresh MemoryCache.
func New(store session.Store, creator Creator, cache Cache) *Bridge {
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &Bridge{store: store, creator: creator, cache: cache}
}

// Ensure returns the backend session id for sessionID, materializing the
// session on first use. Non-demo ids pass through untouched with no I/O.
// Concurrent callers for the same uncached id are coalesced onto one
// backend creation.
func (b *Bridge) Ensure(ctx context.Context, sessionID string) (string, error) {
	if !session.IsDemo(sessionID) {
		return sessionID, nil
	}

	if backendID, ok := b.cache.Get(sessionID); ok {
		return backendID, nil
	}

	v, err, _ := b.group.Do(sessionID, func() (any, error) {
		// A coalesced caller may have populated the cache already.
		if backendID, ok := b.cache.Get(sessionID); ok {
			return backendID, nil
		}

		data, ok := b.store.Load(ctx, sessionID)
		if !ok || data.Curriculum.IsEmpty() {
			return nil, fmt.Errorf("materializing %s: %w", sessionID, ErrSessionDataNotFound)
		}

		created, err := b.creator.CreateSession(ctx, data.Curriculum)
		if err != nil {
			return nil, fmt.Errorf("creating backend session for %s: %w", sessionID, err)
		}
		if created.SessionID == "" {
			return nil, fmt.Errorf("backend returned no session id for %s", sessionID)
		}

		b.cache.Set(sessionID, created.SessionID)
		slog.Info("session materialized", "local_id", sessionID, "backend_id", created.SessionID)
		return created.SessionID, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
