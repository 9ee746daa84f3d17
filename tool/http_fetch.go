package tool

import (
	"context"
	"io"
	"net/http"
	"time"
)

// Compile-time check that HTTPFetchTool satisfies the Tool interface.
var _ Tool = (*HTTPFetchTool)(nil)

// HTTPFetchToolOptions configures an HTTPFetchTool.
type HTTPFetchToolOptions struct {
	// HTTPClient performs the requests. Defaults to a client with a 30s
	// timeout.
	HTTPClient *http.Client
	// MaxBodyBytes caps how much of the response body is read. Defaults to
	// 1 MiB.
	MaxBodyBytes int64
}

// HTTPFetchTool performs a GET request against a caller supplied URL and
// returns the status code plus the response body as text.
type HTTPFetchTool struct {
	client       *http.Client
	maxBodyBytes int64
}

// NewHTTPFetchTool creates the fetch tool.
func NewHTTPFetchTool(optFns ...func(o *HTTPFetchToolOptions)) *HTTPFetchTool {
	opts := HTTPFetchToolOptions{
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
		MaxBodyBytes: 1 << 20,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &HTTPFetchTool{
		client:       opts.HTTPClient,
		maxBodyBytes: opts.MaxBodyBytes,
	}
}

// Name returns the tool identifier.
func (t *HTTPFetchTool) Name() string { return "http_fetch" }

// Description returns the tool description.
func (t *HTTPFetchTool) Description() string {
	return "Fetches a URL with an HTTP GET request and returns the status code and body."
}

// InputSchema declares the required url argument.
func (t *HTTPFetchTool) InputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"url": map[string]any{
				"type":        "string",
				"description": "The URL to fetch",
			},
		},
		"required": []string{"url"},
	}
}

// OutputSchema declares the status plus body payload.
func (t *HTTPFetchTool) OutputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"status": map[string]any{"type": "integer"},
			"body":   map[string]any{"type": "string"},
		},
	}
}

// Execute performs the GET request. Transport failures surface as execution
// errors; non-2xx statuses are returned to the caller unmodified since the
// status code is part of the result payload.
func (t *HTTPFetchTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	url, ok := args["url"].(string)
	if !ok {
		return nil, NewInvalidArgsError("url must be a string")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewInvalidArgsError("invalid url: " + err.Error())
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, WrapExecutionError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, t.maxBodyBytes))
	if err != nil {
		return nil, WrapExecutionError(err)
	}

	return map[string]any{
		"status": resp.StatusCode,
		"body":   string(body),
	}, nil
}
