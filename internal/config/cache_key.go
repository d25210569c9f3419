package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// AuthTokenKey returns the key under which an issued token id (jti) is registered.
func (r *CacheKeyStruct) AuthTokenKey(userID, jti string) string {
	return fmt.Sprintf("auth:%s:token:%s", userID, jti)
}

// SessionResultsKey returns the cache key for a GD session's computed results.
func (r *CacheKeyStruct) SessionResultsKey(sessionID string) string {
	return fmt.Sprintf("gd:session:%s:results", sessionID)
}

// SessionResultsGenerationKey returns the counter bumped on every invalidation
// of a session's results.
func (r *CacheKeyStruct) SessionResultsGenerationKey(sessionID string) string {
	return fmt.Sprintf("gd:session:%s:results:gen", sessionID)
}

// SessionResultsChannel returns the Redis PubSub channel for live result updates.
func (r *CacheKeyStruct) SessionResultsChannel(sessionID string) string {
	return fmt.Sprintf("gd:session:%s:results:updates", sessionID)
}

var CacheKey = NewCacheKeyStruct()
