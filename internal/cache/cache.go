package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store caches JSON-encodable values under string keys.
type Store interface {
	// GetJSON decodes the value under key into dest and reports whether it was present.
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
}

// Connect parses a redis:// URL and verifies the server answers a ping.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

type redisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore returns a Store backed by client. Every key is namespaced by prefix.
func NewRedisStore(client *redis.Client, prefix string) Store {
	return &redisStore{client: client, prefix: prefix}
}

func (s *redisStore) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

func (s *redisStore) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.prefix+key, data, ttl).Err()
}

// DefaultMaxEntries bounds a MemoryStore built by NewMemoryStore.
const DefaultMaxEntries = 1024

// MemoryStore is an in-process Store used when Redis is not configured. It holds at
// most MaxEntries keys: a write that would exceed the cap first sweeps expired
// entries, then evicts the oldest writes.
type MemoryStore struct {
	MaxEntries int

	mu      sync.Mutex
	entries map[string]memoryEntry
	seq     uint64
	now     func() time.Time
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
	seq       uint64
}

// NewMemoryStore constructs a MemoryStore. now may be nil.
func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{MaxEntries: DefaultMaxEntries, entries: make(map[string]memoryEntry), now: now}
}

// Len reports how many entries are held, expired ones included until they are swept.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// GetJSON returns a live entry; expired entries are dropped on read.
func (s *MemoryStore) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	entry, ok := s.entries[key]
	if ok && !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt) {
		delete(s.entries, key)
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(entry.data, dest); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

// SetJSON stores v until ttl elapses. A non-positive ttl never expires.
func (s *MemoryStore) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	now := s.now()
	entry := memoryEntry{data: data}
	if ttl > 0 {
		entry.expiresAt = now.Add(ttl)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[key]; !exists && s.MaxEntries > 0 && len(s.entries) >= s.MaxEntries {
		s.makeRoom(now)
	}
	s.seq++
	entry.seq = s.seq
	s.entries[key] = entry
	return nil
}

// makeRoom drops expired entries, then the oldest writes until one slot is free.
// Callers hold s.mu.
func (s *MemoryStore) makeRoom(now time.Time) {
	for k, e := range s.entries {
		if !e.expiresAt.IsZero() && !now.Before(e.expiresAt) {
			delete(s.entries, k)
		}
	}
	for len(s.entries) >= s.MaxEntries {
		oldest, oldestSeq := "", uint64(0)
		for k, e := range s.entries {
			if oldest == "" || e.seq < oldestSeq {
				oldest, oldestSeq = k, e.seq
			}
		}
		delete(s.entries, oldest)
	}
}
