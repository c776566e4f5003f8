package remote

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/botirk38/rankturbulence/types"
	"github.com/redis/go-redis/v9"
)

// RedisBackend implements SnapshotBackend using one Redis sorted set per
// snapshot. Members are JSON-encoded elements and scores are their counts.
type RedisBackend[E comparable] struct {
	client *redis.Client
	prefix string
}

// parseRedisURL parses a Redis URL and returns redis.Options
func parseRedisURL(connectionString string) (*redis.Options, error) {
	// Handle redis:// or rediss:// URLs
	if strings.HasPrefix(connectionString, "redis://") || strings.HasPrefix(connectionString, "rediss://") {
		parsedURL, err := url.Parse(connectionString)
		if err != nil {
			return nil, fmt.Errorf("invalid Redis URL: %w", err)
		}

		opts := &redis.Options{
			Addr: parsedURL.Host,
		}

		if parsedURL.Scheme == "rediss" {
			opts.TLSConfig = &tls.Config{
				MinVersion: tls.VersionTLS12,
			}
		}

		if parsedURL.User != nil {
			opts.Username = parsedURL.User.Username()
			if password, ok := parsedURL.User.Password(); ok {
				opts.Password = password
			}
		}

		// Database number from path
		if parsedURL.Path != "" && parsedURL.Path != "/" {
			dbStr := strings.TrimPrefix(parsedURL.Path, "/")
			if db, err := strconv.Atoi(dbStr); err == nil {
				opts.DB = db
			}
		}

		return opts, nil
	}

	// For simple address format (host:port), return minimal options
	return &redis.Options{
		Addr: connectionString,
	}, nil
}

// NewRedisBackend creates a new Redis backend and checks the connection
func NewRedisBackend[E comparable](config types.BackendConfig) (*RedisBackend[E], error) {
	opts, err := parseRedisURL(config.ConnectionString)
	if err != nil {
		return nil, err
	}

	// Override with explicit config values if provided
	if config.Username != "" {
		opts.Username = config.Username
	}
	if config.Password != "" {
		opts.Password = config.Password
	}
	if config.Database != 0 {
		opts.DB = config.Database
	}

	client := redis.NewClient(opts)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	prefix := "rankturbulence:"
	if prefixOpt, ok := config.Options["prefix"]; ok {
		if p, ok := prefixOpt.(string); ok && p != "" {
			prefix = p
		}
	}

	return &RedisBackend[E]{
		client: client,
		prefix: prefix,
	}, nil
}

// keyString converts a snapshot name to a Redis key
func (b *RedisBackend[E]) keyString(name string) string {
	return b.prefix + name
}

func encodeMember[E comparable](e E) (string, error) {
	raw, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("failed to encode element %v: %w", e, err)
	}
	return string(raw), nil
}

func decodeMember[E comparable](member string) (E, error) {
	var e E
	if err := json.Unmarshal([]byte(member), &e); err != nil {
		return e, fmt.Errorf("failed to decode element %q: %w", member, err)
	}
	return e, nil
}

// Add increments the scores of the snapshot's sorted set in one transaction
func (b *RedisBackend[E]) Add(ctx context.Context, name string, counts map[E]int) error {
	if len(counts) == 0 {
		return nil
	}

	members := make(map[string]int, len(counts))
	for e, c := range counts {
		member, err := encodeMember(e)
		if err != nil {
			return err
		}
		members[member] = c
	}

	redisKey := b.keyString(name)
	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for member, c := range members {
			pipe.ZIncrBy(ctx, redisKey, float64(c), member)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to add counts to Redis: %w", err)
	}

	return nil
}

// Get reads the whole sorted set of a snapshot
func (b *RedisBackend[E]) Get(ctx context.Context, name string) (map[E]int, bool, error) {
	redisKey := b.keyString(name)

	zs, err := b.client.ZRangeWithScores(ctx, redisKey, 0, -1).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to get snapshot from Redis: %w", err)
	}
	// A missing key reads as an empty set
	if len(zs) == 0 {
		return nil, false, nil
	}

	counts := make(map[E]int, len(zs))
	for _, z := range zs {
		member, ok := z.Member.(string)
		if !ok {
			return nil, false, fmt.Errorf("unexpected member type %T in %s", z.Member, redisKey)
		}
		e, err := decodeMember[E](member)
		if err != nil {
			return nil, false, err
		}
		counts[e] = int(math.Round(z.Score))
	}

	return counts, true, nil
}

// Delete removes a snapshot from Redis
func (b *RedisBackend[E]) Delete(ctx context.Context, name string) error {
	if err := b.client.Del(ctx, b.keyString(name)).Err(); err != nil {
		return fmt.Errorf("failed to delete snapshot from Redis: %w", err)
	}
	return nil
}

// Contains checks if a snapshot exists in Redis
func (b *RedisBackend[E]) Contains(ctx context.Context, name string) (bool, error) {
	exists, err := b.client.Exists(ctx, b.keyString(name)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check key existence in Redis: %w", err)
	}
	return exists > 0, nil
}

// scanKeys returns every Redis key under the backend's prefix
func (b *RedisBackend[E]) scanKeys(ctx context.Context) ([]string, error) {
	pattern := b.prefix + "*"
	var keys []string
	var cursor uint64

	for {
		result, nextCursor, err := b.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan keys from Redis: %w", err)
		}

		keys = append(keys, result...)
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return keys, nil
}

// Names returns the names of all snapshots under the prefix
func (b *RedisBackend[E]) Names(ctx context.Context) ([]string, error) {
	keys, err := b.scanKeys(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(keys))
	for _, k := range keys {
		if name := strings.TrimPrefix(k, b.prefix); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// Flush deletes every snapshot under the prefix
func (b *RedisBackend[E]) Flush(ctx context.Context) error {
	keys, err := b.scanKeys(ctx)
	if err != nil {
		return err
	}

	if len(keys) > 0 {
		if err := b.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("failed to flush Redis: %w", err)
		}
	}

	return nil
}

// Len returns the number of snapshots under the prefix
func (b *RedisBackend[E]) Len(ctx context.Context) (int, error) {
	keys, err := b.scanKeys(ctx)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

// Close closes the Redis connection
func (b *RedisBackend[E]) Close() error {
	return b.client.Close()
}
