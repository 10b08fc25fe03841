package cache

import (
	"context"
	"fmt"

	"cuisine-classifier/internal/infrastructure/config"

	"github.com/go-redis/redis/v8"
)

// RedisService Redis 快取服務
type RedisService struct {
	client *redis.Client
	config *config.CacheConfig
}

// NewRedisService 連線 Redis 並確認可用
func NewRedisService(cfg *config.CacheConfig) (*RedisService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisServiceWithClient(client, cfg), nil
}

// NewRedisServiceWithClient 使用既有的 Redis 客戶端
func NewRedisServiceWithClient(client *redis.Client, cfg *config.CacheConfig) *RedisService {
	return &RedisService{
		client: client,
		config: cfg,
	}
}

// Get 獲取緩存
func (s *RedisService) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrMiss
		}
		return "", fmt.Errorf("failed to get cache: %w", err)
	}
	return val, nil
}

// Set 設置緩存
func (s *RedisService) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, s.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Stats Redis 連線池統計
func (s *RedisService) Stats() map[string]interface{} {
	ps := s.client.PoolStats()
	return map[string]interface{}{
		"backend":     "redis",
		"hits":        ps.Hits,
		"misses":      ps.Misses,
		"timeouts":    ps.Timeouts,
		"total_conns": ps.TotalConns,
		"idle_conns":  ps.IdleConns,
	}
}

// Close 關閉連線
func (s *RedisService) Close() error {
	return s.client.Close()
}
