// Package cache 預測結果快取：記憶體與 Redis 兩種後端
package cache

import (
	"context"
	"errors"
	"fmt"

	"cuisine-classifier/internal/infrastructure/config"
	"cuisine-classifier/internal/pkg/common"

	"go.uber.org/zap"
)

// ErrMiss 快取未命中
var ErrMiss = errors.New("cache miss")

// Store 快取後端介面
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Stats() map[string]interface{}
	Close() error
}

// New 依設定建立快取；未啟用時回傳 nil
func New(cfg *config.Config) (Store, error) {
	if !cfg.Cache.Enabled {
		common.LogInfo("Cache disabled")
		return nil, nil
	}

	switch cfg.Cache.Backend {
	case "redis":
		svc, err := NewRedisService(&cfg.Cache)
		if err != nil {
			return nil, err
		}
		common.LogInfo("Redis cache initialized", zap.String("addr", cfg.Cache.Redis.Addr))
		return svc, nil
	case "memory", "":
		return NewManager(&cfg.Cache), nil
	default:
		return nil, fmt.Errorf("unsupported cache backend %q", cfg.Cache.Backend)
	}
}

// Key 由清理後的食材產生快取鍵
func Key(tokens []string) string {
	return "cuisine:predict:" + common.HashTokens(tokens)
}
