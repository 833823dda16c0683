package registration

import (
	"context"
	"sync"
	"time"
)

type memoryRecord struct {
	blob      []byte
	expiresAt time.Time
}

// MemoryStore keeps encoded sessions in process memory. Every Load returns a
// fresh copy.
type MemoryStore struct {
	mu    sync.RWMutex
	codec *Codec
	items map[string]memoryRecord
}

func NewMemoryStore(codec *Codec) *MemoryStore {
	return &MemoryStore{codec: codec, items: make(map[string]memoryRecord)}
}

func (m *MemoryStore) Create(ctx context.Context, s *Session) error {
	blob, err := m.codec.Encode(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[s.ID]; ok {
		return ErrSessionExists
	}
	m.items[s.ID] = memoryRecord{blob: blob, expiresAt: s.ExpiresAt}
	return nil
}

func (m *MemoryStore) Save(ctx context.Context, s *Session) error {
	blob, err := m.codec.Encode(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.items[s.ID] = memoryRecord{blob: blob, expiresAt: s.ExpiresAt}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Load(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	rec, ok := m.items[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return m.codec.Decode(rec.blob)
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.items, id)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, rec := range m.items {
		if !now.Before(rec.expiresAt) {
			delete(m.items, id)
			n++
		}
	}
	return n, nil
}
