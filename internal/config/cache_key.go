package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// ClassListKey returns the cache key holding the JSON-encoded class registry.
func (r *CacheKeyStruct) ClassListKey() string {
	return "classes:all"
}

// ClassGenerationKey returns the counter bumped on every class write. A class
// list read from the store is only cached if this value did not move meanwhile.
func (r *CacheKeyStruct) ClassGenerationKey() string {
	return "classes:gen"
}

// AuthAttemptsKey returns the counter key for auth attempts from one client IP
// within a fixed window (window is the unix start of the window).
func (r *CacheKeyStruct) AuthAttemptsKey(ip string, window int64) string {
	return fmt.Sprintf("ratelimit:auth:%s:%d", ip, window)
}

var CacheKey = NewCacheKeyStruct()
