package core

import "github.com/google/uuid"

// NewID generates a new unique identifier for runs, plans and messages.
//
// Uses UUID v4 for uniqueness across distributed systems without
// coordination. The string format is suitable for logging, storage
// and cross-system references.
func NewID() string { return uuid.NewString() }

// CloneValue clones JSON-like values (maps, slices, scalars) so copied
// steps, outcomes and messages never alias mutable payloads. Values of
// other types are returned as-is.
func CloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return CloneMap(t)
	case []any:
		cp := make([]any, len(t))
		for i, e := range t {
			cp[i] = CloneValue(e)
		}
		return cp
	default:
		return v
	}
}

// CloneMap clones a JSON-like map. Nil input yields nil so optional
// payloads stay optional after cloning.
func CloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	cp := make(map[string]any, len(m))
	for k, v := range m {
		cp[k] = CloneValue(v)
	}
	return cp
}

func copyStrings(s []string) []string {
	if s == nil {
		return nil
	}
	cp := make([]string, len(s))
	copy(cp, s)
	return cp
}
