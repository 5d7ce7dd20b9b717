package cart

import (
	"context"
	"testing"
	"time"

	"sweet-layers/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func sampleProduct(id int64, price string) *domain.Product {
	return &domain.Product{
		ID:          id,
		Name:        "Lemon Drizzle",
		Description: "Zesty sponge with lemon glaze",
		Price:       decimal.RequireFromString(price),
		Category:    "Birthday",
		Sizes:       []string{"6 inch", "8 inch", "10 inch"},
		InStock:     true,
		Rating:      4.5,
	}
}

func TestRedisStorage_LoadMissingSnapshot(t *testing.T) {
	client, _ := setupTestRedis(t)
	storage := NewRedisStorage(client, SessionKey(DefaultStorageKey, "s1"), 0)

	lines, err := storage.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, lines)
	assert.NotNil(t, lines)
}

func TestRedisStorage_LoadCorruptSnapshot(t *testing.T) {
	client, mr := setupTestRedis(t)
	key := SessionKey(DefaultStorageKey, "s1")
	require.NoError(t, mr.Set(key, "{{not-json"))

	lines, err := NewRedisStorage(client, key, 0).Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorruptSnapshot)
	assert.Empty(t, lines)
}

func TestRedisStorage_SaveOverwritesAndSetsTTL(t *testing.T) {
	client, mr := setupTestRedis(t)
	key := SessionKey(DefaultStorageKey, "s1")
	storage := NewRedisStorage(client, key, time.Hour)
	ctx := context.Background()

	first := []domain.CartLine{{ProductID: 1, Product: *sampleProduct(1, "20"), Size: "6 inch", Quantity: 1}}
	require.NoError(t, storage.Save(ctx, first))

	second := []domain.CartLine{{ProductID: 2, Product: *sampleProduct(2, "35"), Size: "8 inch", Quantity: 3}}
	require.NoError(t, storage.Save(ctx, second))

	assert.True(t, mr.Exists(key))
	assert.Equal(t, time.Hour, mr.TTL(key))

	lines, err := storage.Load(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, int64(2), lines[0].ProductID)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.True(t, decimal.RequireFromString("35").Equal(lines[0].Product.Price))
}

func TestRedisStorage_SaveNilWritesEmptyArray(t *testing.T) {
	client, mr := setupTestRedis(t)
	key := SessionKey(DefaultStorageKey, "s1")

	require.NoError(t, NewRedisStorage(client, key, 0).Save(context.Background(), nil))

	raw, err := mr.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestRedisStorage_SaveFailsWhenRedisIsDown(t *testing.T) {
	client, mr := setupTestRedis(t)
	mr.Close()

	err := NewRedisStorage(client, "k", 0).Save(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write cart snapshot")
}
