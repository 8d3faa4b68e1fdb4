package service

import (
	"sync"
	"time"

	"abrino-storage/backend/common"
)

// Ephemeral key/value state (tracked tokens, magic links, 2FA codes) lives in
// Redis. Without Redis it falls back to this process-local store, which is also
// what the tests run against.

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

type memoryStore struct {
	mu    sync.Mutex
	items map[string]memoryEntry
}

var localStore = &memoryStore{items: make(map[string]memoryEntry)}

func (s *memoryStore) Set(key string, value string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = memoryEntry{value: value, expiresAt: time.Now().Add(ttl)}
}

func (s *memoryStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.items[key]
	if !ok {
		return "", false
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.items, key)
		return "", false
	}
	return entry.value, true
}

func (s *memoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
}

func storeSet(key string, value string, ttl time.Duration) error {
	if common.RedisEnabled {
		return common.RedisSet(key, value, ttl)
	}
	localStore.Set(key, value, ttl)
	return nil
}

func storeGet(key string) (string, bool) {
	if common.RedisEnabled {
		value, err := common.RedisGet(key)
		if err != nil {
			return "", false
		}
		return value, true
	}
	return localStore.Get(key)
}

func storeDelete(key string) {
	if common.RedisEnabled {
		if err := common.RedisDel(key); err != nil {
			common.SysError("failed to delete key " + key + ": " + err.Error())
		}
		return
	}
	localStore.Delete(key)
}
