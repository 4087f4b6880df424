package backend

import "fmt"

// StatusError is returned when the backend answers with a non-2xx status.
// Message carries the backend's {message} body when one was sent.
type StatusError struct {
	Method  string
	Path    string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend: %s %s: status %d", e.Method, e.Path, e.Code)
	}
	return fmt.Sprintf("backend: %s %s: status %d: %s", e.Method, e.Path, e.Code, e.Message)
}
