package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
)

// Store persists demo-session snapshots keyed by session id.
//
// Load degrades to not-found on missing keys, undecodable records, and
// storage failures: callers treat a miss as "fetch from the backend
// instead", so the store never surfaces errors on the read path.
type Store interface {
	Save(ctx context.Context, data *Data) error
	Load(ctx context.Context, id string) (*Data, bool)
}

// MemoryStore keeps sessions in memory as encoded JSON, so loads hand back
// value copies rather than shared pointers.
type MemoryStore struct {
	records map[string][]byte
	mu      sync.RWMutex
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]byte)}
}

func (s *MemoryStore) Save(_ context.Context, data *Data) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.records[storageKey(data.SessionID)] = raw
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Load(_ context.Context, id string) (*Data, bool) {
	s.mu.RLock()
	raw, ok := s.records[storageKey(id)]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		slog.Warn("discarding undecodable session record", "session_id", id, "error", err)
		return nil, false
	}
	return &data, true
}
