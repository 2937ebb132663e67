package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient はRedisクライアントを作る。
// addrが空なら nil を返し、呼び出し側はキャッシュ無効として動く。
// 接続確認に失敗した場合も nil（キャッシュ無しで劣化運転）。
func NewRedisClient(addr string, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}

	return client
}
