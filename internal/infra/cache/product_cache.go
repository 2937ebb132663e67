package cache

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"app/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

const (
	searchKeyPrefix = "products:search"
	searchVerKey    = "products:search:ver"
)

// 公開商品検索のリードキャッシュ。
// clientがnilなら常にミス扱い（キャッシュ無効）。
// スタッフの商品/カテゴリ更新時はInvalidateで世代番号を進めて一括無効化する。
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProductCache(client *redis.Client, ttl time.Duration) *ProductCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &ProductCache{client: client, ttl: ttl}
}

// 検索条件からキーを作る（世代番号込み）
func (c *ProductCache) searchKey(ctx context.Context, q string, categoryID *int64) (string, error) {
	ver, err := c.client.Get(ctx, searchVerKey).Result()
	if err == redis.Nil {
		ver = "0"
	} else if err != nil {
		return "", err
	}

	cat := ""
	if categoryID != nil {
		cat = strconv.FormatInt(*categoryID, 10)
	}

	sum := sha1.Sum([]byte(q + "|" + cat))
	return fmt.Sprintf("%s:%s:%x", searchKeyPrefix, ver, sum), nil
}

// GetSearch はキャッシュ済みの検索結果を返す。無ければ ok=false。
func (c *ProductCache) GetSearch(ctx context.Context, q string, categoryID *int64) ([]model.Product, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	key, err := c.searchKey(ctx, q, categoryID)
	if err != nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}

	var products []model.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, false
	}
	return products, true
}

// SetSearch は検索結果をTTL付きで保存する。失敗しても呼び出し側には返さない。
func (c *ProductCache) SetSearch(ctx context.Context, q string, categoryID *int64, products []model.Product) {
	if c == nil || c.client == nil {
		return
	}

	key, err := c.searchKey(ctx, q, categoryID)
	if err != nil {
		return
	}

	raw, err := json.Marshal(products)
	if err != nil {
		return
	}

	_ = c.client.Set(ctx, key, raw, c.ttl).Err()
}

// Invalidate は世代番号を進めて既存キーを全て無効化する。
// 旧世代のキーはTTLで消える。
func (c *ProductCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Incr(ctx, searchVerKey).Err()
}
