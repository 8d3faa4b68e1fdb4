// Package cache mirrors list and category query results in Redis. It is an
// optimization only: every error degrades to a miss and the caller re-reads the
// store. Invalidation is done with a per-user version counter embedded in every
// key, so stale entries become unreachable without pattern deletion.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"abrino-storage/backend/common"
	"abrino-storage/backend/model"

	"github.com/burugo/thing"
)

const (
	FileListTTL   = 5 * time.Minute
	CategoriesTTL = 15 * time.Minute

	// Version keys outlive every data entry by a wide margin; if one expires
	// the user just falls back to version 0 whose entries are long gone.
	versionTTL = 7 * 24 * time.Hour
)

type localCacheItem struct {
	value     string
	expiresAt time.Time
}

// FileCache caches per-user query results. With a nil cache client it keeps a
// process-local map instead, which is what tests and redis-less deployments use.
type FileCache struct {
	cacheClient thing.CacheClient
	mutex       sync.RWMutex
	local       map[string]localCacheItem

	// Local version counters for the redis-less mode.
	versionMu sync.Mutex
	versions  map[int64]uint64
}

func NewFileCache(cacheClient thing.CacheClient) *FileCache {
	return &FileCache{
		cacheClient: cacheClient,
		local:       make(map[string]localCacheItem),
		versions:    make(map[int64]uint64),
	}
}

var globalFileCache *FileCache
var fileCacheOnce sync.Once

func GetFileCache() *FileCache {
	fileCacheOnce.Do(func() {
		globalFileCache = NewFileCache(model.CacheClient())
	})
	return globalFileCache
}

func versionKey(userID int64) string {
	return fmt.Sprintf("cachever:%d", userID)
}

func (fc *FileCache) fileListKey(userID int64, category, search string, skip, limit int) string {
	if category == "" {
		category = "all"
	}
	if search == "" {
		search = "none"
	}
	return fmt.Sprintf("files:v%d:%d:%s:%s:%d:%d",
		fc.version(userID), userID, category, search, skip, limit)
}

func (fc *FileCache) categoriesKey(userID int64) string {
	return fmt.Sprintf("categories:v%d:%d", fc.version(userID), userID)
}

func (fc *FileCache) version(userID int64) uint64 {
	if common.RedisEnabled && common.RDB != nil {
		version, err := common.RDB.Get(context.Background(), versionKey(userID)).Uint64()
		if err != nil {
			return 0
		}
		return version
	}
	fc.versionMu.Lock()
	defer fc.versionMu.Unlock()
	return fc.versions[userID]
}

// Invalidate bumps the user's version counter; every key minted under the old
// version becomes unreachable and expires by TTL. Called on any mutation of the
// user's files. The bump is a store-atomic increment: two racing mutations
// advance the version twice, so neither can leave a pre-mutation listing
// reachable.
func (fc *FileCache) Invalidate(userID int64) {
	if common.RedisEnabled && common.RDB != nil {
		ctx := context.Background()
		version, err := common.RDB.Incr(ctx, versionKey(userID)).Result()
		if err != nil {
			common.SysError("failed to bump cache version: " + err.Error())
			return
		}
		if version == 1 {
			if err := common.RDB.Expire(ctx, versionKey(userID), versionTTL).Err(); err != nil {
				common.SysError("failed to set cache version expiry: " + err.Error())
			}
		}
		return
	}
	fc.versionMu.Lock()
	fc.versions[userID]++
	fc.versionMu.Unlock()
}

func (fc *FileCache) GetFiles(userID int64, category, search string, skip, limit int) ([]*model.File, bool) {
	raw, ok := fc.get(fc.fileListKey(userID, category, search, skip, limit))
	if !ok {
		return nil, false
	}
	var files []*model.File
	if err := json.Unmarshal([]byte(raw), &files); err != nil {
		common.SysError("failed to decode cached file list: " + err.Error())
		return nil, false
	}
	return files, true
}

func (fc *FileCache) SetFiles(userID int64, category, search string, skip, limit int, files []*model.File) {
	encoded, err := json.Marshal(files)
	if err != nil {
		common.SysError("failed to encode file list for cache: " + err.Error())
		return
	}
	fc.set(fc.fileListKey(userID, category, search, skip, limit), string(encoded), FileListTTL)
}

func (fc *FileCache) GetCategories(userID int64) ([]string, bool) {
	raw, ok := fc.get(fc.categoriesKey(userID))
	if !ok {
		return nil, false
	}
	var categories []string
	if err := json.Unmarshal([]byte(raw), &categories); err != nil {
		common.SysError("failed to decode cached categories: " + err.Error())
		return nil, false
	}
	return categories, true
}

func (fc *FileCache) SetCategories(userID int64, categories []string) {
	encoded, err := json.Marshal(categories)
	if err != nil {
		common.SysError("failed to encode categories for cache: " + err.Error())
		return
	}
	fc.set(fc.categoriesKey(userID), string(encoded), CategoriesTTL)
}

func (fc *FileCache) get(key string) (string, bool) {
	if fc.cacheClient == nil {
		fc.mutex.RLock()
		item, ok := fc.local[key]
		fc.mutex.RUnlock()
		if !ok {
			return "", false
		}
		if !item.expiresAt.IsZero() && time.Now().After(item.expiresAt) {
			fc.mutex.Lock()
			delete(fc.local, key)
			fc.mutex.Unlock()
			return "", false
		}
		return item.value, true
	}

	value, err := fc.cacheClient.Get(context.Background(), key)
	if err != nil {
		return "", false
	}
	return value, true
}

func (fc *FileCache) set(key string, value string, ttl time.Duration) {
	if fc.cacheClient == nil {
		fc.mutex.Lock()
		fc.local[key] = localCacheItem{
			value:     value,
			expiresAt: time.Now().Add(ttl),
		}
		fc.mutex.Unlock()
		return
	}

	if err := fc.cacheClient.Set(context.Background(), key, value, ttl); err != nil {
		common.SysError("failed to write cache key " + key + ": " + err.Error())
	}
}
