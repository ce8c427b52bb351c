// Package cacheredis implements cache.Store over Redis, grounded 1:1 on
// the teacher's providers/cache-redis submodule layout: its own go.mod
// with a replace directive back to the core module, a single-instance or
// cluster redis.Cmdable, and a NewProvider-style constructor — adapted to
// the smaller Get/Set-with-TTL Store contract the HTTP cache middleware
// needs instead of the teacher's full CacheProvider surface (Keys, Stats,
// GetMulti, ...), since nothing in the call-plane needs a key listing or a
// stats dashboard for the response cache.
package cacheredis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zoobzio/forge/cache"
)

// Config mirrors the teacher's RedisConfig fields the call-plane cache
// actually needs.
type Config struct {
	URL           string
	PoolSize      int
	MaxRetries    int
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	EnableCluster bool
	ClusterAddrs  []string
}

// Store implements cache.Store over a redis.Cmdable, single-instance or
// cluster.
type Store struct {
	client    redis.Cmdable
	isCluster bool
}

// New builds a Store from cfg. Cluster mode is selected when
// cfg.EnableCluster and cfg.ClusterAddrs is non-empty, mirroring the
// teacher's provider selection logic.
func New(cfg Config) (*Store, error) {
	if cfg.EnableCluster && len(cfg.ClusterAddrs) > 0 {
		client := redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:        cfg.ClusterAddrs,
			PoolSize:     cfg.PoolSize,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		})
		return &Store{client: client, isCluster: true}, nil
	}

	url := cfg.URL
	if url == "" {
		url = "redis://localhost:6379"
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("cacheredis: invalid redis URL: %w", err)
	}
	opt.PoolSize = cfg.PoolSize
	opt.MaxRetries = cfg.MaxRetries
	opt.ReadTimeout = cfg.ReadTimeout
	opt.WriteTimeout = cfg.WriteTimeout
	return &Store{client: redis.NewClient(opt)}, nil
}

// Get implements cache.Store.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		return "", false, err
	}
	return val, true, nil
}

// Set implements cache.Store.
func (s *Store) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

// Ping checks connectivity, useful as a factory Initializer hook
// (spec.md §4.4 "Initialization hook").
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	switch c := s.client.(type) {
	case *redis.Client:
		return c.Close()
	case *redis.ClusterClient:
		return c.Close()
	default:
		return nil
	}
}

var _ cache.Store = (*Store)(nil)
