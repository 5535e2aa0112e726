package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/ogurasousui/codex-pointage-clean-arch/internal/platform/config"
)

// Client は go-redis クライアントに疎通確認を加えたラッパーです。
type Client struct {
	*redis.Client
}

// New は設定から Redis クライアントを生成し、PING で疎通を確認します。URL が空の場合は (nil, nil) です。
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{Client: client}, nil
}

// Health は Redis 接続の疎通を確認します。
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}
