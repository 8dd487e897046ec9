package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultCacheTTL — время жизни кэшированной статистики.
const DefaultCacheTTL = 30 * time.Second

// CacheService — in-memory кэш с TTL и инвалидацией.
// Используется для агрегатной статистики, которую дорого считать на каждый запрос.
type CacheService struct {
	mu    sync.RWMutex
	cache map[string]*cacheEntry
}

type cacheEntry struct {
	data      interface{}
	expiresAt time.Time
}

// NewCacheService создаёт кэш и запускает фоновую очистку,
// работающую до отмены контекста.
func NewCacheService(ctx context.Context) *CacheService {
	cs := &CacheService{
		cache: make(map[string]*cacheEntry),
	}

	go cs.cleanup(ctx)

	return cs
}

// Get возвращает значение из кэша.
func (cs *CacheService) Get(key string) (interface{}, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	entry, exists := cs.cache[key]
	if !exists {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		// Удалением занимается cleanup
		return nil, false
	}
	return entry.data, true
}

// Set сохраняет значение с TTL по умолчанию.
func (cs *CacheService) Set(key string, value interface{}) {
	cs.SetTTL(key, value, DefaultCacheTTL)
}

// SetTTL сохраняет значение с явным TTL.
func (cs *CacheService) SetTTL(key string, value interface{}, ttl time.Duration) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.cache[key] = &cacheEntry{
		data:      value,
		expiresAt: time.Now().Add(ttl),
	}
}

// Delete удаляет ключ из кэша.
func (cs *CacheService) Delete(key string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	delete(cs.cache, key)
}

// InvalidateByPrefix удаляет все ключи с данным префиксом.
func (cs *CacheService) InvalidateByPrefix(prefix string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	for key := range cs.cache {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(cs.cache, key)
		}
	}
}

// InvalidateAccountCache удаляет записи, относящиеся к конкретному счёту.
func (cs *CacheService) InvalidateAccountCache(accountID uuid.UUID) {
	cs.InvalidateByPrefix("account:" + accountID.String() + ":")
	cs.Delete(StatusCountsCacheKey())
}

// cleanup периодически удаляет истёкшие записи до отмены контекста.
func (cs *CacheService) cleanup(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cs.mu.Lock()
			now := time.Now()
			for key, entry := range cs.cache {
				if now.After(entry.expiresAt) {
					delete(cs.cache, key)
				}
			}
			cs.mu.Unlock()
		}
	}
}

// Ключи кэша
func StatusCountsCacheKey() string {
	return "stats:status_counts"
}

func AccountDetailCacheKey(accountID uuid.UUID) string {
	return "account:" + accountID.String() + ":detail"
}

// CacheGet возвращает типизированное значение из кэша.
func CacheGet[T any](cs *CacheService, key string) (T, bool) {
	var zero T
	value, found := cs.Get(key)
	if !found {
		return zero, false
	}
	typed, ok := value.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}
