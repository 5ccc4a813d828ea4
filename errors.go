package agent

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is to check.
var (
	ErrToolNotFound  = errors.New("tool not found")
	ErrDuplicateTool = errors.New("tool already registered")
	ErrNoContent     = errors.New("response contains no content blocks")
	ErrEmptyModel    = errors.New("model identifier must not be empty")
	ErrMissingAPIKey = errors.New("api key is required")
)

// APIError surfaces a non-2xx answer from the Messages API with HTTP metadata.
// The body fields mirror the Anthropic error envelope when one was returned.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error (%d, %s): %s", e.StatusCode, e.Type, e.Message)
}

// SchemaError reports a tool schema that failed to generate or compile.
// Schemas are built once per tool, so this surfaces at registration time,
// never at call time.
type SchemaError struct {
	Tool string
	Err  error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid schema for tool %q: %v", e.Tool, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// panicError wraps a recovered panic value so a panicking tool is reported
// like any other tool failure.
type panicError struct{ p any }

func (e *panicError) Error() string {
	return "panic: " + fmt.Sprint(e.p)
}
