package tool

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Compile-time check that FileTool satisfies the Tool interface.
var _ Tool = (*FileTool)(nil)

// FileTool reads and writes files inside a sandbox directory. Every path
// argument resolves relative to the sandbox root and paths that escape the
// root are rejected before any filesystem access happens.
type FileTool struct {
	root string
}

// NewFileTool creates a file tool rooted at dir. The root is cleaned and
// made absolute so containment checks are purely lexical afterwards.
func NewFileTool(dir string) (*FileTool, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve sandbox root: %w", err)
	}

	return &FileTool{root: filepath.Clean(abs)}, nil
}

// Name returns the tool identifier.
func (t *FileTool) Name() string { return "file" }

// Description returns the tool description.
func (t *FileTool) Description() string {
	return "Reads and writes files inside a sandboxed directory. Supports operations: read, write."
}

// InputSchema declares the operation, path and optional content arguments.
func (t *FileTool) InputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"operation": map[string]any{
				"type":        "string",
				"enum":        []string{"read", "write"},
				"description": "The file operation to perform",
			},
			"path": map[string]any{
				"type":        "string",
				"description": "Path relative to the sandbox root",
			},
			"content": map[string]any{
				"type":        "string",
				"description": "Content to write (write operation only)",
			},
		},
		"required": []string{"operation", "path"},
	}
}

// OutputSchema declares the operation result payload.
func (t *FileTool) OutputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"path":      map[string]any{"type": "string"},
			"operation": map[string]any{"type": "string"},
			"content":   map[string]any{"type": "string"},
			"bytes":     map[string]any{"type": "integer"},
		},
	}
}

// Execute dispatches to the requested operation after resolving and
// containment-checking the path.
func (t *FileTool) Execute(_ context.Context, args map[string]any) (any, error) {
	operation, ok := args["operation"].(string)
	if !ok {
		return nil, NewInvalidArgsError("operation must be a string")
	}

	rel, ok := args["path"].(string)
	if !ok {
		return nil, NewInvalidArgsError("path must be a string")
	}

	full, err := t.resolve(rel)
	if err != nil {
		return nil, err
	}

	switch operation {
	case "read":
		data, err := os.ReadFile(full)
		if err != nil {
			return nil, WrapExecutionError(err)
		}

		return map[string]any{
			"path":      rel,
			"operation": "read",
			"content":   string(data),
		}, nil
	case "write":
		content, _ := args["content"].(string)

		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return nil, WrapExecutionError(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			return nil, WrapExecutionError(err)
		}

		return map[string]any{
			"path":      rel,
			"operation": "write",
			"bytes":     len(content),
		}, nil
	default:
		return nil, NewInvalidArgsError(fmt.Sprintf("unknown operation: %s", operation))
	}
}

// resolve joins the relative path onto the sandbox root and rejects results
// that land outside it. The check is lexical so it also covers paths that do
// not exist yet, such as write targets.
func (t *FileTool) resolve(rel string) (string, *ToolError) {
	full := filepath.Clean(filepath.Join(t.root, rel))

	if full != t.root && !strings.HasPrefix(full, t.root+string(filepath.Separator)) {
		return "", NewInvalidArgsError("path escapes sandbox")
	}

	return full, nil
}
