package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCacheService_SetAndGet(t *testing.T) {
	cs := NewCacheService(context.Background())

	cs.Set("key", []string{"a", "b"})

	value, found := CacheGet[[]string](cs, "key")
	assert.True(t, found)
	assert.Equal(t, []string{"a", "b"}, value)
}

func TestCacheService_Get_Missing(t *testing.T) {
	cs := NewCacheService(context.Background())

	_, found := cs.Get("missing")
	assert.False(t, found)
}

func TestCacheService_Get_Expired(t *testing.T) {
	cs := NewCacheService(context.Background())

	cs.SetTTL("key", "value", -time.Second)

	_, found := cs.Get("key")
	assert.False(t, found)
}

func TestCacheService_Delete(t *testing.T) {
	cs := NewCacheService(context.Background())

	cs.Set("key", "value")
	cs.Delete("key")

	_, found := cs.Get("key")
	assert.False(t, found)
}

func TestCacheService_InvalidateAccountCache(t *testing.T) {
	cs := NewCacheService(context.Background())
	accountID := uuid.New()

	cs.Set(AccountDetailCacheKey(accountID), "detail")
	cs.Set(StatusCountsCacheKey(), "counts")
	cs.Set("unrelated", "stays")

	cs.InvalidateAccountCache(accountID)

	_, found := cs.Get(AccountDetailCacheKey(accountID))
	assert.False(t, found)
	_, found = cs.Get(StatusCountsCacheKey())
	assert.False(t, found)
	_, found = cs.Get("unrelated")
	assert.True(t, found)
}

func TestCacheGet_TypeMismatch(t *testing.T) {
	cs := NewCacheService(context.Background())

	cs.Set("key", "string-value")

	_, found := CacheGet[int](cs, "key")
	assert.False(t, found)
}
