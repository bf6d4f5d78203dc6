package utils

import (
	"log"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// cacheEntry 包装缓存数据和过期时间
type cacheEntry struct {
	Data      interface{}
	ExpiresAt time.Time
}

// Cache 全局本地缓存封装（LRU + TTL）
type Cache struct {
	lruCache *lru.Cache[string, cacheEntry]
}

var (
	cacheInstance *Cache
	cacheOnce     sync.Once
)

// GetCache 获取单例缓存实例
func GetCache() *Cache {
	cacheOnce.Do(func() {
		l, err := lru.New[string, cacheEntry](500)
		if err != nil {
			log.Fatalf("Failed to create LRU cache: %v", err)
		}
		cacheInstance = &Cache{lruCache: l}
	})
	return cacheInstance
}

// Set 设置缓存，ttl 为过期时间
func (c *Cache) Set(key string, data interface{}, ttl time.Duration) {
	c.lruCache.Add(key, cacheEntry{
		Data:      data,
		ExpiresAt: time.Now().Add(ttl),
	})
}

// Get 获取缓存，若不存在或已过期则返回 nil
func (c *Cache) Get(key string) interface{} {
	entry, ok := c.lruCache.Get(key)
	if !ok {
		return nil
	}
	if time.Now().After(entry.ExpiresAt) {
		c.lruCache.Remove(key)
		return nil
	}
	return entry.Data
}

// Delete 删除指定缓存
func (c *Cache) Delete(key string) {
	c.lruCache.Remove(key)
}
