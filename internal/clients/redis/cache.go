package redis

import (
  "context"
  "encoding/json"
  "errors"
  "fmt"
  "os"
  "strings"
  "time"

  goredis "github.com/redis/go-redis/v9"

  "github.com/lumenlearn/lumen-backend/internal/logger"
)

// Cache is a small JSON cache in front of the relational store. Audio
// synthesis uses it to short-circuit repeat requests for the same
// content key.
type Cache interface {
  GetJSON(ctx context.Context, key string, out any) (bool, error)
  SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
  Delete(ctx context.Context, key string) error
  Close() error
}

type cache struct {
  log    *logger.Logger
  rdb    *goredis.Client
  prefix string
}

func NewCache(log *logger.Logger) (Cache, error) {
  if log == nil {
    return nil, fmt.Errorf("logger required")
  }

  addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
  if addr == "" {
    return nil, fmt.Errorf("missing REDIS_ADDR")
  }
  prefix := strings.TrimSpace(os.Getenv("REDIS_KEY_PREFIX"))
  if prefix == "" {
    prefix = "lumen"
  }

  rdb := goredis.NewClient(&goredis.Options{
    Addr:        addr,
    DialTimeout: 5 * time.Second,
  })

  ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
  defer cancel()
  if err := rdb.Ping(ctx).Err(); err != nil {
    _ = rdb.Close()
    return nil, fmt.Errorf("redis ping: %w", err)
  }

  return &cache{
    log:    log.With("service", "RedisCache"),
    rdb:    rdb,
    prefix: prefix,
  }, nil
}

func (c *cache) key(k string) string {
  return c.prefix + ":" + k
}

func (c *cache) GetJSON(ctx context.Context, key string, out any) (bool, error) {
  if c == nil || c.rdb == nil {
    return false, fmt.Errorf("redis cache not initialized")
  }
  raw, err := c.rdb.Get(ctx, c.key(key)).Bytes()
  if err != nil {
    if errors.Is(err, goredis.Nil) {
      return false, nil
    }
    return false, err
  }
  if err := json.Unmarshal(raw, out); err != nil {
    // stale or corrupt entry, drop it
    _ = c.rdb.Del(ctx, c.key(key)).Err()
    return false, nil
  }
  return true, nil
}

func (c *cache) SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error {
  if c == nil || c.rdb == nil {
    return fmt.Errorf("redis cache not initialized")
  }
  raw, err := json.Marshal(val)
  if err != nil {
    return err
  }
  return c.rdb.Set(ctx, c.key(key), raw, ttl).Err()
}

func (c *cache) Delete(ctx context.Context, key string) error {
  if c == nil || c.rdb == nil {
    return fmt.Errorf("redis cache not initialized")
  }
  return c.rdb.Del(ctx, c.key(key)).Err()
}

func (c *cache) Close() error {
  if c == nil || c.rdb == nil {
    return nil
  }
  return c.rdb.Close()
}
