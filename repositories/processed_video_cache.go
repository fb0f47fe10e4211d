package repositories

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/FRMWRKD/mooderi-sub001/config"

	"github.com/redis/go-redis/v9"
)

type RedisProcessedVideoCache struct {
	redis *redis.Client
}

func NewRedisProcessedVideoCache(redisClient *redis.Client) *RedisProcessedVideoCache {
	return &RedisProcessedVideoCache{redis: redisClient}
}

func processedVideoKey(videoURL string) string {
	sum := sha1.Sum([]byte(videoURL))
	return fmt.Sprintf("video:processed:%s", hex.EncodeToString(sum[:]))
}

func (r *RedisProcessedVideoCache) IsProcessed(ctx context.Context, videoURL string) (bool, error) {
	n, err := r.redis.Exists(ctx, processedVideoKey(videoURL)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *RedisProcessedVideoCache) MarkProcessed(ctx context.Context, videoURL string) error {
	expire := time.Duration(config.AppConfig.Redis.ProcessedURLExpire) * time.Second
	return r.redis.Set(ctx, processedVideoKey(videoURL), 1, expire).Err()
}
