package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sweet-layers/internal/domain"

	"github.com/redis/go-redis/v9"
)

// DefaultStorageKey is the namespace of cart snapshot slots
const DefaultStorageKey = "sweetlayers-cart"

var (
	ErrCorruptSnapshot = errors.New("cart snapshot is corrupt")
)

// Storage is the durable slot holding one cart's serialized lines
type Storage interface {
	// Load returns the saved lines. A missing snapshot yields an empty slice
	// and no error; an unreadable one yields an empty slice and an error.
	Load(ctx context.Context) ([]domain.CartLine, error)

	// Save overwrites the snapshot with the full line sequence.
	Save(ctx context.Context, lines []domain.CartLine) error
}

// RedisStorage keeps the snapshot as a JSON string under a single Redis key
type RedisStorage struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisStorage creates a snapshot slot at key. A zero ttl keeps the key forever.
func NewRedisStorage(client *redis.Client, key string, ttl time.Duration) *RedisStorage {
	return &RedisStorage{
		client: client,
		key:    key,
		ttl:    ttl,
	}
}

// SessionKey builds the slot key for a cart session
func SessionKey(namespace, sessionID string) string {
	return fmt.Sprintf("%s:%s", namespace, sessionID)
}

// Key returns the Redis key of the slot
func (s *RedisStorage) Key() string {
	return s.key
}

func (s *RedisStorage) Load(ctx context.Context) ([]domain.CartLine, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []domain.CartLine{}, nil
	}
	if err != nil {
		return []domain.CartLine{}, fmt.Errorf("failed to read cart snapshot: %w", err)
	}

	var lines []domain.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return []domain.CartLine{}, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if lines == nil {
		lines = []domain.CartLine{}
	}

	return lines, nil
}

func (s *RedisStorage) Save(ctx context.Context, lines []domain.CartLine) error {
	if lines == nil {
		lines = []domain.CartLine{}
	}

	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("failed to encode cart snapshot: %w", err)
	}

	if err := s.client.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cart snapshot: %w", err)
	}

	return nil
}
