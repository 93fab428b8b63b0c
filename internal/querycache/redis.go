package querycache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores entries in Redis so multiple dashboard replicas share
// one query cache, including invalidation flags.
type RedisBackend struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds connection settings for the Redis backend.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// NewRedisBackend connects to Redis and verifies the connection.
func NewRedisBackend(cfg RedisConfig) (*RedisBackend, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     20,
		MinIdleConns: 5,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	keyPrefix := cfg.KeyPrefix
	if keyPrefix == "" {
		keyPrefix = "flipops:querycache"
	}

	log.Printf("[RedisBackend] Connected - DB:%d, prefix:%s", cfg.DB, keyPrefix)
	return &RedisBackend{client: client, keyPrefix: keyPrefix}, nil
}

func (b *RedisBackend) redisKey(key string) string {
	return b.keyPrefix + ":" + key
}

// Get retrieves an entry by key.
func (b *RedisBackend) Get(ctx context.Context, key string) (*Entry, error) {
	data, err := b.client.Get(ctx, b.redisKey(key)).Bytes()
	if err == redis.Nil {
		return nil, ErrNoEntry
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		// Corrupt envelope: drop it and refetch.
		b.client.Del(ctx, b.redisKey(key))
		return nil, ErrNoEntry
	}
	return &entry, nil
}

// Set stores an entry with the given retention.
func (b *RedisBackend) Set(ctx context.Context, key string, entry *Entry, retention time.Duration) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return b.client.Set(ctx, b.redisKey(key), data, retention).Err()
}

// Delete removes an entry by key.
func (b *RedisBackend) Delete(ctx context.Context, key string) error {
	return b.client.Del(ctx, b.redisKey(key)).Err()
}

// MarkStale flags entries matching the pattern as invalidated. Prefix
// patterns scan the keyspace; exact patterns touch a single key.
func (b *RedisBackend) MarkStale(ctx context.Context, pattern string) (int, error) {
	prefix, byPrefix := strings.CutSuffix(pattern, "*")
	if !byPrefix {
		ok, err := b.markOne(ctx, b.redisKey(pattern))
		if err != nil || !ok {
			return 0, err
		}
		return 1, nil
	}

	flagged := 0
	iter := b.client.Scan(ctx, 0, b.redisKey(prefix)+"*", 100).Iterator()
	for iter.Next(ctx) {
		ok, err := b.markOne(ctx, iter.Val())
		if err != nil {
			log.Printf("[RedisBackend] mark stale %s: %v", iter.Val(), err)
			continue
		}
		if ok {
			flagged++
		}
	}
	if err := iter.Err(); err != nil {
		return flagged, fmt.Errorf("redis scan %s: %w", pattern, err)
	}
	return flagged, nil
}

// markOne rewrites a single envelope with the stale flag set, preserving its
// remaining TTL.
func (b *RedisBackend) markOne(ctx context.Context, redisKey string) (bool, error) {
	data, err := b.client.Get(ctx, redisKey).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		b.client.Del(ctx, redisKey)
		return false, nil
	}
	if entry.Stale {
		return true, nil
	}
	entry.Stale = true

	out, err := json.Marshal(&entry)
	if err != nil {
		return false, err
	}
	return true, b.client.Set(ctx, redisKey, out, redis.KeepTTL).Err()
}

// Clear removes all entries under the backend's key prefix.
func (b *RedisBackend) Clear(ctx context.Context) error {
	iter := b.client.Scan(ctx, 0, b.keyPrefix+":*", 100).Iterator()
	pipe := b.client.Pipeline()
	for iter.Next(ctx) {
		pipe.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Close closes the Redis connection.
func (b *RedisBackend) Close() error {
	return b.client.Close()
}
