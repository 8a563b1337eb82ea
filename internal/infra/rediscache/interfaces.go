package rediscache

import (
	"context"
	"time"
)

type CacheInterface interface {
	GetJSON(ctx context.Context, key string, dest any) error
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

var _ CacheInterface = (*Cache)(nil)
