// Package redis provides a MemoryStore backed by Redis string keys with
// JSON-encoded values. It mirrors the in-memory store's key/value and
// substring-search semantics across processes.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/hupe1980/agentrun/core"
)

// Compile time check to ensure Store satisfies the MemoryStore interface.
var _ core.MemoryStore = (*Store)(nil)

// Options configures the Redis connection and key layout.
type Options struct {
	// URL is the Redis connection string (e.g. "redis://localhost:6379").
	URL string

	// KeyPrefix namespaces memory keys. Defaults to "agentrun:memory".
	KeyPrefix string

	// ConnectTimeout bounds connection establishment. Defaults to 5s.
	ConnectTimeout time.Duration
}

// Store persists memory entries as JSON strings under prefixed keys.
// Search SCANs the prefix and applies the same key-or-rendered-value
// substring match as the in-memory store, so the two are interchangeable.
type Store struct {
	client *goredis.Client
	prefix string
}

// NewStore connects to Redis and verifies the connection with a ping.
func NewStore(opts Options) (*Store, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379"
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}

	redisOpts, err := goredis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := goredis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewStoreWithClient(client, opts.KeyPrefix), nil
}

// NewStoreWithClient wraps an existing client, for callers that manage
// their own connection pool.
func NewStoreWithClient(client *goredis.Client, keyPrefix string) *Store {
	if keyPrefix == "" {
		keyPrefix = "agentrun:memory"
	}
	return &Store{client: client, prefix: keyPrefix}
}

// Put stores the JSON encoding of value under key, replacing any previous
// value.
func (s *Store) Put(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return core.NewMemoryBackendError(fmt.Errorf("failed to marshal value for key %s: %w", key, err))
	}

	if err := s.client.Set(ctx, s.entry(key), data, 0).Err(); err != nil {
		return core.NewMemoryBackendError(err)
	}

	return nil
}

// Get returns the value stored under key. Absence is reported through the
// boolean, not an error.
func (s *Store) Get(ctx context.Context, key string) (any, bool, error) {
	data, err := s.client.Get(ctx, s.entry(key)).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, false, nil
		}
		return nil, false, core.NewMemoryBackendError(err)
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, false, core.NewMemoryBackendError(err)
	}

	return value, true, nil
}

// Search scans the store's key prefix and returns every value whose key or
// JSON text contains the query substring, ordered by key. An empty query
// matches everything.
func (s *Store) Search(ctx context.Context, query string) ([]any, error) {
	var keys []string

	iter := s.client.Scan(ctx, 0, s.prefix+":*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, core.NewMemoryBackendError(err)
	}
	sort.Strings(keys)

	results := make([]any, 0, len(keys))
	for _, fullKey := range keys {
		data, err := s.client.Get(ctx, fullKey).Bytes()
		if err != nil {
			if err == goredis.Nil {
				continue // expired between scan and read
			}
			return nil, core.NewMemoryBackendError(err)
		}

		key := strings.TrimPrefix(fullKey, s.prefix+":")
		if !strings.Contains(key, query) && !strings.Contains(string(data), query) {
			continue
		}

		var value any
		if err := json.Unmarshal(data, &value); err != nil {
			return nil, core.NewMemoryBackendError(err)
		}
		results = append(results, value)
	}

	return results, nil
}

// Close closes the underlying Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) entry(key string) string {
	return s.prefix + ":" + key
}
