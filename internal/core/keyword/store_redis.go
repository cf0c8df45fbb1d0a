// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package keyword

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/comicvault/internal/platform/constants"
)

// RedisCache implements [Cache] as one JSON value with a TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed keyword list cache.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

/*
Get reads the cached keyword list.

Returns:
  - []*Keyword: the cached list
  - bool: false on a miss or an undecodable value
  - error: connectivity errors
*/
func (cache *RedisCache) Get(context context.Context) ([]*Keyword, bool, error) {
	payload, err := cache.client.Get(context, constants.RedisKeyKeywordList).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis_keyword_list_get_failed: %w", err)
	}

	var keywords []*Keyword
	if err := json.Unmarshal(payload, &keywords); err != nil {
		return nil, false, nil
	}
	return keywords, true, nil
}

// Set stores the keyword list until the TTL expires or a write invalidates it.
func (cache *RedisCache) Set(context context.Context, keywords []*Keyword) error {
	payload, err := json.Marshal(keywords)
	if err != nil {
		return fmt.Errorf("redis_keyword_list_encode_failed: %w", err)
	}

	if err := cache.client.Set(context, constants.RedisKeyKeywordList, payload, cache.ttl).Err(); err != nil {
		return fmt.Errorf("redis_keyword_list_set_failed: %w", err)
	}
	return nil
}

// Invalidate drops the cached list.
func (cache *RedisCache) Invalidate(context context.Context) error {
	if err := cache.client.Del(context, constants.RedisKeyKeywordList).Err(); err != nil {
		return fmt.Errorf("redis_keyword_list_delete_failed: %w", err)
	}
	return nil
}
