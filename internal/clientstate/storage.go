package clientstate

import (
	"context"
	"errors"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Storage persists one client's favorites blob. Implementations stand in
// for the browser-local storage the state originally lived in.
type Storage interface {
	// Load returns the persisted blob. ok is false when nothing has been
	// persisted yet.
	Load(ctx context.Context) (data []byte, ok bool, err error)
	Save(ctx context.Context, data []byte) error
}

// MemoryStorage keeps the blob in memory. Used in tests and as the
// fallback when no Redis client is configured.
type MemoryStorage struct {
	mu   sync.Mutex
	data []byte
	set  bool
}

// NewMemoryStorage returns an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Seed pre-populates the storage, bypassing Save. Test helper for
// simulating state persisted by an older client version.
func (m *MemoryStorage) Seed(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	m.set = true
}

func (m *MemoryStorage) Load(_ context.Context) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		return nil, false, nil
	}
	return append([]byte(nil), m.data...), true, nil
}

func (m *MemoryStorage) Save(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	m.set = true
	return nil
}

const redisKeyPrefix = "pollution:favorites:"

// RedisStorage persists the blob under a per-client Redis key.
type RedisStorage struct {
	client *redis.Client
	key    string
}

// NewRedisStorage binds storage to the blob for the given client id.
func NewRedisStorage(client *redis.Client, clientID string) *RedisStorage {
	return &RedisStorage{client: client, key: redisKeyPrefix + clientID}
}

func (r *RedisStorage) Load(ctx context.Context) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

func (r *RedisStorage) Save(ctx context.Context, data []byte) error {
	return r.client.Set(ctx, r.key, data, 0).Err()
}
