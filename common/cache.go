// Copyright 2021-2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog/log"
)

var (
	ErrCacheMiss = errors.New("key not in cache")
)

// Cache is a two tier byte cache: an in-process LRU backed by an optional redis
// server. Values are lz4 compressed before they are stored in either tier.
type Cache struct {
	local *lru.Cache
	rdb   *redis.Client
	ttl   time.Duration
}

// CacheConfig configures a Cache
type CacheConfig struct {
	// LocalSize is the maximum number of entries kept in process
	LocalSize int

	// RedisURL enables the redis tier when it is non-empty
	RedisURL string

	// TTL is the expiration of entries in redis
	TTL time.Duration
}

// NewCache creates a cache from cfg
func NewCache(cfg CacheConfig) (*Cache, error) {
	size := cfg.LocalSize
	if size <= 0 {
		size = 128
	}

	local, err := lru.New(size)
	if err != nil {
		log.Error().Err(err).Int("Size", size).Msg("could not create LRU cache")
		return nil, err
	}

	cache := &Cache{
		local: local,
		ttl:   cfg.TTL,
	}

	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Error().Err(err).Msg("could not parse redis URL")
			return nil, err
		}
		cache.rdb = redis.NewClient(opt)
	}

	return cache, nil
}

// Set stores bytes under key in every configured tier
func (cache *Cache) Set(ctx context.Context, key string, bytes []byte) error {
	b2, err := Compress(bytes)
	if err != nil {
		return err
	}
	cache.local.Add(key, b2)

	if cache.rdb != nil {
		return cache.rdb.Set(ctx, key, b2, cache.ttl).Err()
	}
	return nil
}

// Get returns the bytes stored under key, trying the local tier first. A value found
// only in redis is promoted to the local tier.
func (cache *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	if v2, ok := cache.local.Get(key); ok {
		return Decompress(v2.([]byte))
	}

	if cache.rdb == nil {
		return nil, ErrCacheMiss
	}

	val, err := cache.rdb.GetEx(ctx, key, cache.ttl).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		log.Warn().Err(err).Str("Key", key).Msg("redis get failed")
		return nil, err
	}

	cache.local.Add(key, val)
	return Decompress(val)
}

// Len returns the number of entries in the local tier
func (cache *Cache) Len() int {
	return cache.local.Len()
}

// Close releases the redis connection if one is open
func (cache *Cache) Close() error {
	if cache.rdb != nil {
		return cache.rdb.Close()
	}
	return nil
}
