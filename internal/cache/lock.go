package cache

import (
	"context"
	"fmt"
	"time"

	"SecurityAlert/storage/redis"
)

// SetNX 实现的分布式锁，用于抑制同一用户的并发触发

const (
	lockPrefix = "lock"

	triggerLockPrefix = "alert:trigger"
)

func TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	fullkey := redis.Key(lockPrefix, key)

	result, err := redis.Client().SetNX(ctx, fullkey, 1, ttl).Result()
	if err != nil {
		return false, err
	}

	return result, nil
}

func Unlock(ctx context.Context, key string) error {
	fullkey := redis.Key(lockPrefix, key)

	return redis.Client().Del(ctx, fullkey).Err()
}

// TryTriggerLock 尝试获取用户的触发锁，锁存在期间同一用户的再次触发被拒绝
func TryTriggerLock(ctx context.Context, userID int64, ttl time.Duration) (bool, error) {
	return TryLock(ctx, fmt.Sprintf("%s:%d", triggerLockPrefix, userID), ttl)
}

func ReleaseTriggerLock(ctx context.Context, userID int64) error {
	return Unlock(ctx, fmt.Sprintf("%s:%d", triggerLockPrefix, userID))
}
