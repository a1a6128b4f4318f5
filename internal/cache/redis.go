package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/Domenick1991/travelbooking/config"
	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client      *redis.Client
	packagesTTL time.Duration
	dedupeTTL   time.Duration
}

func NewRedisCache(cfg config.RedisConfig) *RedisCache {
	return NewRedisCacheWithClient(
		redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		cfg.PackagesTTL(),
		cfg.WebhookDedupeTTL(),
	)
}

func NewRedisCacheWithClient(client *redis.Client, packagesTTL, dedupeTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, packagesTTL: packagesTTL, dedupeTTL: dedupeTTL}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetPackagePage returns nil without an error on a cache miss.
func (c *RedisCache) GetPackagePage(ctx context.Context, filter domain.PackageFilter) (*domain.PackagePage, error) {
	key, err := c.packagePageKey(ctx, filter)
	if err != nil {
		return nil, err
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var page domain.PackagePage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *RedisCache) SetPackagePage(ctx context.Context, filter domain.PackageFilter, page *domain.PackagePage) error {
	key, err := c.packagePageKey(ctx, filter)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(page)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, c.packagesTTL).Err()
}

// InvalidatePackages bumps the generation counter so every cached page key
// changes at once. Old entries age out through their TTL.
func (c *RedisCache) InvalidatePackages(ctx context.Context) error {
	return c.client.Incr(ctx, packagesVersionKey).Err()
}

// MarkEventProcessed records a webhook event id. It reports false when the id
// was already recorded.
func (c *RedisCache) MarkEventProcessed(ctx context.Context, eventID string) (bool, error) {
	return c.client.SetNX(ctx, webhookEventKey(eventID), "1", c.dedupeTTL).Result()
}

// ForgetEvent drops a recorded event id so a redelivery is processed again.
func (c *RedisCache) ForgetEvent(ctx context.Context, eventID string) error {
	return c.client.Del(ctx, webhookEventKey(eventID)).Err()
}

func (c *RedisCache) packagePageKey(ctx context.Context, filter domain.PackageFilter) (string, error) {
	version, err := c.client.Get(ctx, packagesVersionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	filter = filter.Normalize()
	q := url.Values{}
	q.Set("status", string(filter.Status))
	q.Set("category", filter.Category)
	q.Set("search", filter.Search)
	q.Set("page", strconv.Itoa(filter.Page))
	q.Set("limit", strconv.Itoa(filter.Limit))
	// Encode escapes separators inside the values, so distinct filters never share a key.
	return fmt.Sprintf("cache:packages:v%d:%s", version, q.Encode()), nil
}

const packagesVersionKey = "cache:packages:version"

func webhookEventKey(eventID string) string {
	return "webhook:stripe:" + eventID
}
