package llm

import "fmt"

// GatewayError reports a failed gateway call: the model server was
// unreachable or returned a non-2xx response. Gateway errors are fatal to the
// pipeline run; retry policy belongs to the caller.
type GatewayError struct {
	StatusCode int
	Message    string
	Cause      error
}

func (e *GatewayError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("gateway error: %s (status %d)", e.Message, e.StatusCode)
	case e.Cause != nil:
		return fmt.Sprintf("gateway error: %s: %v", e.Message, e.Cause)
	default:
		return fmt.Sprintf("gateway error: %s", e.Message)
	}
}

func (e *GatewayError) Unwrap() error {
	return e.Cause
}
