// Package redis provides a MessageBus backed by Redis lists, one list per
// recipient mailbox. It preserves the in-memory bus's per-recipient FIFO
// semantics across processes.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/hupe1980/agentrun/core"
)

// Compile time check to ensure Bus satisfies the MessageBus interface.
var _ core.MessageBus = (*Bus)(nil)

// Options configures the Redis connection and key layout.
type Options struct {
	// URL is the Redis connection string (e.g. "redis://localhost:6379").
	URL string

	// KeyPrefix namespaces mailbox keys. Defaults to "agentrun:bus".
	KeyPrefix string

	// ConnectTimeout bounds connection establishment. Defaults to 5s.
	ConnectTimeout time.Duration
}

// Bus delivers messages through Redis lists. Send RPUSHes a JSON payload
// onto the recipient's list and Recv LPOPs the oldest entry without
// blocking.
type Bus struct {
	client *goredis.Client
	prefix string
}

// NewBus connects to Redis and verifies the connection with a ping.
func NewBus(opts Options) (*Bus, error) {
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

	return NewBusWithClient(client, opts.KeyPrefix), nil
}

// NewBusWithClient wraps an existing client, for callers that manage their
// own connection pool.
func NewBusWithClient(client *goredis.Client, keyPrefix string) *Bus {
	if keyPrefix == "" {
		keyPrefix = "agentrun:bus"
	}
	return &Bus{client: client, prefix: keyPrefix}
}

// Send appends msg to the recipient's mailbox list.
func (b *Bus) Send(ctx context.Context, to string, msg map[string]any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := b.client.RPush(ctx, b.mailbox(to), data).Err(); err != nil {
		return fmt.Errorf("failed to push to mailbox %s: %w", to, err)
	}

	return nil
}

// Recv pops the oldest message addressed to name. The boolean reports
// whether a message was waiting.
func (b *Bus) Recv(ctx context.Context, name string) (map[string]any, bool, error) {
	data, err := b.client.LPop(ctx, b.mailbox(name)).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to pop from mailbox %s: %w", name, err)
	}

	var msg map[string]any
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal message: %w", err)
	}

	return msg, true, nil
}

// Close closes the underlying Redis connection.
func (b *Bus) Close() error {
	return b.client.Close()
}

func (b *Bus) mailbox(name string) string {
	return b.prefix + ":" + name
}
