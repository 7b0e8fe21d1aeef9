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

package data

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/penny-vault/pvcombo/common"
	"github.com/penny-vault/pvcombo/dataframe"
	"github.com/penny-vault/pvcombo/observability/opentelemetry"
	"github.com/penny-vault/pvcombo/portfolio"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Manager loads series from the provider registered for each source, post-processes them
// into return series and caches the result
type Manager struct {
	cache     *common.Cache
	providers map[Source]Provider
	locker    sync.RWMutex
}

var (
	managerOnce     sync.Once
	managerInstance *Manager
)

// NewManager creates a manager with the csv and database providers registered. cache may
// be nil to disable caching.
func NewManager(cache *common.Cache) *Manager {
	return &Manager{
		cache: cache,
		providers: map[Source]Provider{
			SourceCSV: CSVProvider{},
			SourceDB:  NewPvDb(),
		},
	}
}

// GetManagerInstance returns a manager configured from the cache.* settings
func GetManagerInstance() *Manager {
	managerOnce.Do(func() {
		cfg := common.CacheConfig{
			LocalSize: viper.GetInt("cache.local_size"),
			TTL:       time.Duration(viper.GetInt("cache.ttl")) * time.Second,
		}
		// the redis tier is used when it is enabled or a server is named explicitly
		if viper.GetBool("cache.redis") || viper.GetString("cache.redis_url") != "" {
			cfg.RedisURL = viper.GetString("cache.redis_url")
		}

		cache, err := common.NewCache(cfg)
		if err != nil {
			log.Error().Err(err).Msg("could not create cache; caching is disabled")
			cache = nil
		}

		managerInstance = NewManager(cache)
	})
	return managerInstance
}

// SetProvider registers provider as the loader for source
func (manager *Manager) SetProvider(source Source, provider Provider) {
	manager.locker.Lock()
	defer manager.locker.Unlock()
	manager.providers[source] = provider
}

// Load returns the series described by req. The raw series is trimmed to the requested
// range, resampled to req.Frequency and, for prices, converted to returns.
func (manager *Manager) Load(ctx context.Context, req *Request) (*dataframe.DataFrame, error) {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "data.Load")
	defer span.End()

	span.SetAttributes(attribute.String("Source", string(req.Source)), attribute.String("Name", req.Name))
	subLog := log.With().Str("Source", string(req.Source)).Str("Name", req.Name).Logger()

	if err := req.validate(); err != nil {
		subLog.Error().Err(err).Msg("invalid data request")
		return nil, err
	}

	key := req.Key()
	if df, ok := manager.cached(ctx, key); ok {
		subLog.Debug().Str("Key", key).Msg("cache hit")
		return df, nil
	}

	manager.locker.RLock()
	provider, ok := manager.providers[req.Source]
	manager.locker.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, req.Source)
	}

	df, err := provider.Load(ctx, req)
	if err != nil {
		return nil, err
	}

	if df.ColCount() != 1 {
		subLog.Error().Int("NumColumns", df.ColCount()).Msg("provider returned more than one column")
		return nil, fmt.Errorf("%w: %s has %d columns", ErrMalformedFile, req.Name, df.ColCount())
	}

	if err := df.Validate(); err != nil {
		subLog.Error().Err(err).Msg("provider returned a malformed series")
		return nil, fmt.Errorf("%w: %s", err, req.Name)
	}

	// missing observations are dropped before prices become returns so a gap does not
	// produce two NaN returns
	if cleaned := df.DropNA(); cleaned.Len() != df.Len() {
		subLog.Warn().Int("NumDropped", df.Len()-cleaned.Len()).Msg("ignoring missing values")
		df = cleaned
	}

	if !req.Begin.IsZero() || !req.End.IsZero() {
		end := req.End
		if end.IsZero() {
			end = df.End()
		}
		df = df.Trim(req.Begin, end)
	}

	if req.Frequency != "" {
		df = df.Frequency(req.Frequency)
	}

	if req.Prices {
		df = portfolio.PricesToReturns(df)
	}

	if df.Len() == 0 {
		subLog.Warn().Time("Begin", req.Begin).Time("End", req.End).Msg("no data in requested range")
		return nil, fmt.Errorf("%w: %s", ErrNoData, req.Name)
	}

	manager.store(ctx, key, df)
	return df, nil
}

// LoadAll loads every request in order
func (manager *Manager) LoadAll(ctx context.Context, reqs ...*Request) ([]*dataframe.DataFrame, error) {
	res := make([]*dataframe.DataFrame, len(reqs))
	for idx, req := range reqs {
		df, err := manager.Load(ctx, req)
		if err != nil {
			return nil, err
		}
		res[idx] = df
	}
	return res, nil
}

func (manager *Manager) cached(ctx context.Context, key string) (*dataframe.DataFrame, bool) {
	if manager.cache == nil {
		return nil, false
	}

	enc, err := manager.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, common.ErrCacheMiss) {
			log.Warn().Err(err).Str("Key", key).Msg("cache lookup failed")
		}
		return nil, false
	}

	df := &dataframe.DataFrame{}
	if err := json.Unmarshal(enc, df); err != nil {
		log.Warn().Err(err).Str("Key", key).Msg("could not decode cached dataframe")
		return nil, false
	}

	return df, true
}

func (manager *Manager) store(ctx context.Context, key string, df *dataframe.DataFrame) {
	if manager.cache == nil {
		return
	}

	// NaN cannot be represented in JSON; such frames are not cached
	enc, err := json.Marshal(df)
	if err != nil {
		log.Debug().Err(err).Str("Key", key).Msg("dataframe not cached")
		return
	}

	if err := manager.cache.Set(ctx, key, enc); err != nil {
		log.Warn().Err(err).Str("Key", key).Msg("could not store dataframe in cache")
	}
}
