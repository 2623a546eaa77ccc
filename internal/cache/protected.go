package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	ri "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"SecurityAlert/pkg/logger"
	"SecurityAlert/storage/redis"
)

const (
	// 空值缓存标识
	emptyValueFlag = "__EMPTY__"
	// 空值缓存TTL，较短时间避免长期占用
	emptyValueTTL = 5 * time.Minute
	// 防雪崩随机延迟范围
	breakerRandomDelayMax = 200 * time.Millisecond
)

// ProtectedCache 带保护的缓存包装器
type ProtectedCache struct {
	keyPrefix string
	ttl       time.Duration
	emptyTTL  time.Duration
}

// NewProtectedCache 创建受保护的缓存实例
func NewProtectedCache(keyPrefix string, ttl time.Duration) *ProtectedCache {
	return &ProtectedCache{
		keyPrefix: keyPrefix,
		ttl:       ttl,
		emptyTTL:  emptyValueTTL,
	}
}

// Set 设置缓存（带空值保护）
func (pc *ProtectedCache) Set(ctx context.Context, key string, value interface{}) error {
	cacheKey := redis.Key(pc.keyPrefix, key)

	var data string
	var ttl time.Duration

	if value == nil {
		// 空值保护：存储特殊标识，使用较短TTL
		data = emptyValueFlag
		ttl = pc.emptyTTL
	} else {
		dataBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to marshal cache value: %w", err)
		}
		data = string(dataBytes)
		ttl = pc.ttl
	}

	return redis.Client().Set(ctx, cacheKey, data, ttl).Err()
}

// Get 获取缓存（带空值保护和防雪崩）
func (pc *ProtectedCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	cacheKey := redis.Key(pc.keyPrefix, key)

	if err := pc.addBreakerDelay(ctx); err != nil {
		logger.Logger.Warn("Failed to add breaker delay",
			zap.String("key", key),
			zap.Error(err),
		)
	}

	data, err := redis.Client().Get(ctx, cacheKey).Result()
	if err != nil {
		if err == ri.Nil {
			return false, nil // 缓存未命中
		}
		return false, fmt.Errorf("failed to get cache: %w", err)
	}

	// 检查是否为空值标识
	if data == emptyValueFlag {
		return true, nil // 空值命中
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}

	return true, nil
}

// Delete 删除缓存
func (pc *ProtectedCache) Delete(ctx context.Context, key string) error {
	cacheKey := redis.Key(pc.keyPrefix, key)
	return redis.Client().Del(ctx, cacheKey).Err()
}

// addBreakerDelay 添加防雪崩随机延迟
func (pc *ProtectedCache) addBreakerDelay(ctx context.Context) error {
	delay := time.Duration(rand.Intn(int(breakerRandomDelayMax)))

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

// 预定义的缓存实例
var (
	CriminalProtectedCache = NewProtectedCache("criminal:profile", 10*time.Minute)
)
