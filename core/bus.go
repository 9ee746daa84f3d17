package core

import "context"

// MessageBus provides point-to-point messaging between named agents with
// mailbox semantics: Send appends to the recipient's queue, Recv pops the
// oldest undelivered message for that recipient or reports none. Both sides
// must be safe for concurrent use.
type MessageBus interface {
	Send(ctx context.Context, to string, msg map[string]any) error
	Recv(ctx context.Context, name string) (map[string]any, bool, error)
}
