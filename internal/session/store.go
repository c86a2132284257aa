package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store persists session records keyed by session ID.
type Store interface {
	Save(ctx context.Context, sid string, rec *Record, ttl time.Duration) error
	// Get returns (nil, nil) for a missing or corrupt record.
	Get(ctx context.Context, sid string) (*Record, error)
	Delete(ctx context.Context, sid string) error
}

// RedisStore keeps session records in Redis so sessions survive restarts.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(addr, password string, db int) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

// Ping checks connectivity to Redis.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func key(sid string) string {
	return fmt.Sprintf("session:%s", sid)
}

func (s *RedisStore) Save(ctx context.Context, sid string, rec *Record, ttl time.Duration) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key(sid), data, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, sid string) (*Record, error) {
	val, err := s.client.Get(ctx, key(sid)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rec Record
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		// Corrupt record: clear it and treat as logged out.
		_ = s.client.Del(ctx, key(sid)).Err()
		return nil, nil
	}
	return &rec, nil
}

func (s *RedisStore) Delete(ctx context.Context, sid string) error {
	return s.client.Del(ctx, key(sid)).Err()
}

// MemoryStore is an in-process store used in development (no REDIS_ADDR
// configured) and in tests.
type MemoryStore struct {
	mu        sync.Mutex
	records   map[string]memoryEntry
	lastSweep time.Time
}

// memorySweepEvery bounds how often Save scans for expired records, so
// sessions that are never read again still get collected like Redis TTLs.
const memorySweepEvery = time.Minute

type memoryEntry struct {
	rec     Record
	expires time.Time
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Save(ctx context.Context, sid string, rec *Record, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if now.Sub(s.lastSweep) >= memorySweepEvery {
		s.lastSweep = now
		for id, entry := range s.records {
			if now.After(entry.expires) {
				delete(s.records, id)
			}
		}
	}

	s.records[sid] = memoryEntry{rec: *rec, expires: now.Add(ttl)}
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, sid string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.records[sid]
	if !ok {
		return nil, nil
	}
	if time.Now().After(entry.expires) {
		delete(s.records, sid)
		return nil, nil
	}
	rec := entry.rec
	return &rec, nil
}

func (s *MemoryStore) Delete(ctx context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, sid)
	return nil
}
