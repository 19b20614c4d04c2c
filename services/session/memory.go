package session

import (
    "context"
    "encoding/json"
    "sync"
    "time"
)

// MemoryStore is the fallback when no Redis URL is configured, and the store
// used in tests. Records are copied on the way in and out so callers never
// share memory with the store.
type MemoryStore struct {
    mu      sync.RWMutex
    records map[string]*Record
}

func NewMemoryStore() *MemoryStore {
    return &MemoryStore{
        records: make(map[string]*Record),
    }
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Record, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()

    rec, exists := s.records[id]
    if !exists {
        return nil, nil
    }
    return copyRecord(rec), nil
}

func (s *MemoryStore) Put(ctx context.Context, rec *Record) error {
    rec.UpdatedAt = time.Now().UTC()

    s.mu.Lock()
    defer s.mu.Unlock()
    s.records[rec.ID] = copyRecord(rec)
    return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    delete(s.records, id)
    return nil
}

func (s *MemoryStore) Healthy(ctx context.Context) error {
    return nil
}

// Sweep removes sessions idle for longer than maxIdle and returns how many
// were dropped. Redis handles this through key TTLs; only the in-memory store
// needs an active sweeper.
func (s *MemoryStore) Sweep(maxIdle time.Duration) int {
    cutoff := time.Now().UTC().Add(-maxIdle)

    s.mu.Lock()
    defer s.mu.Unlock()

    removed := 0
    for id, rec := range s.records {
        if rec.UpdatedAt.Before(cutoff) {
            delete(s.records, id)
            removed++
        }
    }
    return removed
}

func copyRecord(rec *Record) *Record {
    raw, err := json.Marshal(rec)
    if err != nil {
        clone := *rec
        return &clone
    }
    var out Record
    if err := json.Unmarshal(raw, &out); err != nil {
        clone := *rec
        return &clone
    }
    return &out
}
