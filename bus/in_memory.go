package bus

import (
	"context"
	"sync"

	"github.com/hupe1980/agentrun/core"
)

// Compile time check to ensure InMemoryBus satisfies the MessageBus interface.
var _ core.MessageBus = (*InMemoryBus)(nil)

// envelope is one undelivered message addressed to a named agent.
type envelope struct {
	recipient string
	payload   map[string]any
}

// InMemoryBus is a process-local MessageBus holding all undelivered messages
// in a single ordered queue.
//
// Concurrency: protected by Mutex.
// Delivery: Recv scans from the front and removes the first message addressed
// to the caller, so messages to the same recipient arrive in send order.
// Payloads are copied on Send so callers cannot mutate queued messages.
// Suitable for tests and single-process orchestration; use the redis
// subpackage when agents span processes.
type InMemoryBus struct {
	mu       sync.Mutex
	messages []envelope
}

// NewInMemoryBus creates an empty in-memory message bus.
func NewInMemoryBus() *InMemoryBus {
	return &InMemoryBus{messages: make([]envelope, 0)}
}

// Send queues msg for the named recipient.
func (b *InMemoryBus) Send(ctx context.Context, to string, msg map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.messages = append(b.messages, envelope{recipient: to, payload: core.CloneMap(msg)})
	return nil
}

// Recv pops the oldest message addressed to name. The boolean reports
// whether a message was waiting.
func (b *InMemoryBus) Recv(ctx context.Context, name string) (map[string]any, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for i, env := range b.messages {
		if env.recipient != name {
			continue
		}
		b.messages = append(b.messages[:i], b.messages[i+1:]...)
		return env.payload, true, nil
	}

	return nil, false, nil
}
