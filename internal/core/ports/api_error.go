package ports

import "fmt"

// APIError is a non-2xx backend response, surfaced unclassified by AuthAPI
// and TodoAPI implementations. Classification into the domain taxonomy
// happens once, in the service layer.
type APIError struct {
	Code int
	Body string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Code, e.Body)
}
