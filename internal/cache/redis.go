// Package cache keeps rendered currency timeseries in redis. Keys embed a
// per-game version so a single INCR invalidates every series of a game.
package cache

import (
	"context"
	"fmt"
	"time"

	"game_dashboard/internal/model"
	"game_dashboard/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const defaultTTL = 10 * time.Minute

type Config struct {
	Enabled    bool   `mapstructure:"enabled"`
	Addr       string `mapstructure:"addr"`
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db"`
	TTLSeconds int    `mapstructure:"ttlSeconds"`
}

func (c Config) TTL() time.Duration {
	if c.TTLSeconds <= 0 {
		return defaultTTL
	}
	return time.Duration(c.TTLSeconds) * time.Second
}

func NewRedisClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 1,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	logger.Logger().Info("Connected to redis successfully", zap.String("addr", cfg.Addr))
	return rdb, nil
}

// Client is the subset of redis commands the cache needs.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

type TimeseriesCache struct {
	rdb Client
	ttl time.Duration
}

func NewTimeseriesCache(rdb Client, ttl time.Duration) *TimeseriesCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &TimeseriesCache{rdb: rdb, ttl: ttl}
}

func versionKey(gameID int64) string {
	return fmt.Sprintf("dashboard:games:%d:ts_version", gameID)
}

func dataKey(gameID, version int64, key string) string {
	return fmt.Sprintf("dashboard:games:%d:ts:%d:%s", gameID, version, key)
}

func (c *TimeseriesCache) version(ctx context.Context, gameID int64) (int64, error) {
	v, err := c.rdb.Get(ctx, versionKey(gameID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return v, err
}

func (c *TimeseriesCache) Get(ctx context.Context, gameID int64, key string) (*model.CurrencyTimeseries, bool) {
	log := logger.Logger()

	v, err := c.version(ctx, gameID)
	if err != nil {
		log.Warn("failed to read timeseries cache version", zap.Int64("game_id", gameID), zap.Error(err))
		return nil, false
	}

	data, err := c.rdb.Get(ctx, dataKey(gameID, v, key)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn("failed to read timeseries cache", zap.Int64("game_id", gameID), zap.Error(err))
		}
		return nil, false
	}

	var ts model.CurrencyTimeseries
	if err := json.Unmarshal(data, &ts); err != nil {
		log.Warn("corrupt timeseries cache entry", zap.Int64("game_id", gameID), zap.Error(err))
		return nil, false
	}
	return &ts, true
}

func (c *TimeseriesCache) Set(ctx context.Context, gameID int64, key string, ts *model.CurrencyTimeseries) {
	log := logger.Logger()

	v, err := c.version(ctx, gameID)
	if err != nil {
		log.Warn("failed to read timeseries cache version", zap.Int64("game_id", gameID), zap.Error(err))
		return
	}

	data, err := json.Marshal(ts)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, dataKey(gameID, v, key), data, c.ttl).Err(); err != nil {
		log.Warn("failed to write timeseries cache", zap.Int64("game_id", gameID), zap.Error(err))
	}
}

func (c *TimeseriesCache) Invalidate(ctx context.Context, gameID int64) {
	if err := c.rdb.Incr(ctx, versionKey(gameID)).Err(); err != nil {
		logger.Logger().Warn("failed to invalidate timeseries cache", zap.Int64("game_id", gameID), zap.Error(err))
	}
}
