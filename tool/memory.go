package tool

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentrun/core"
)

// Compile-time check that MemoryTool satisfies the Tool interface.
var _ Tool = (*MemoryTool)(nil)

// MemoryTool exposes a memory store as a tool so plans can persist and
// recall values through explicit steps.
//
// This tool demonstrates how builtins integrate framework infrastructure:
// it wraps whatever core.MemoryStore the caller supplies (in-memory, Redis,
// or a custom backend) behind a single operation-dispatch interface.
type MemoryTool struct {
	store core.MemoryStore
}

// NewMemoryTool creates a memory tool backed by the given store.
//
// Supported operations:
//   - put: store a value under a key
//   - get: retrieve a value by key
//   - search: find values matching a substring query
func NewMemoryTool(store core.MemoryStore) *MemoryTool {
	return &MemoryTool{store: store}
}

// Name returns the tool identifier.
func (t *MemoryTool) Name() string { return "memory" }

// Description returns the tool description.
func (t *MemoryTool) Description() string {
	return "Stores and retrieves values from the agent memory store. " +
		"Supports operations: put, get, search."
}

// InputSchema declares the operation dispatch arguments.
func (t *MemoryTool) InputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"operation": map[string]any{
				"type":        "string",
				"enum":        []string{"put", "get", "search"},
				"description": "The memory operation to perform",
			},
			"key": map[string]any{
				"type":        "string",
				"description": "Memory key for put/get operations",
			},
			"value": map[string]any{
				"description": "Value for put operations (any type)",
			},
			"query": map[string]any{
				"type":        "string",
				"description": "Substring query for search operations",
			},
		},
		"required": []string{"operation"},
	}
}

// OutputSchema declares the operation result payload.
func (t *MemoryTool) OutputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"key":     map[string]any{"type": "string"},
			"stored":  map[string]any{"type": "boolean"},
			"exists":  map[string]any{"type": "boolean"},
			"value":   map[string]any{},
			"query":   map[string]any{"type": "string"},
			"count":   map[string]any{"type": "integer"},
			"results": map[string]any{"type": "array"},
		},
	}
}

// Execute dispatches to the requested memory operation.
func (t *MemoryTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	operation, ok := args["operation"].(string)
	if !ok {
		return nil, NewInvalidArgsError("operation must be a string")
	}

	switch operation {
	case "put":
		return t.handlePut(ctx, args)
	case "get":
		return t.handleGet(ctx, args)
	case "search":
		return t.handleSearch(ctx, args)
	default:
		return nil, NewInvalidArgsError(fmt.Sprintf("unknown operation: %s", operation))
	}
}

// handlePut stores a value under the given key.
func (t *MemoryTool) handlePut(ctx context.Context, args map[string]any) (any, error) {
	key, ok := args["key"].(string)
	if !ok || key == "" {
		return nil, NewInvalidArgsError("key is required for put operation")
	}

	if err := t.store.Put(ctx, key, args["value"]); err != nil {
		return nil, WrapExecutionError(err)
	}

	return map[string]any{
		"key":    key,
		"stored": true,
	}, nil
}

// handleGet retrieves a value by key. A missing key is a regular result,
// not an error.
func (t *MemoryTool) handleGet(ctx context.Context, args map[string]any) (any, error) {
	key, ok := args["key"].(string)
	if !ok || key == "" {
		return nil, NewInvalidArgsError("key is required for get operation")
	}

	value, exists, err := t.store.Get(ctx, key)
	if err != nil {
		return nil, WrapExecutionError(err)
	}

	return map[string]any{
		"key":    key,
		"exists": exists,
		"value":  value,
	}, nil
}

// handleSearch finds stored values matching the query.
func (t *MemoryTool) handleSearch(ctx context.Context, args map[string]any) (any, error) {
	query, ok := args["query"].(string)
	if !ok {
		return nil, NewInvalidArgsError("query is required for search operation")
	}

	results, err := t.store.Search(ctx, query)
	if err != nil {
		return nil, WrapExecutionError(err)
	}

	return map[string]any{
		"query":   query,
		"count":   len(results),
		"results": results,
	}, nil
}
