package buildkite

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound matches any *NotFoundError.
	ErrNotFound = errors.New("build not found")
	// ErrMalformedResponse matches any *MalformedResponseError.
	ErrMalformedResponse = errors.New("malformed response")
)

// HTTPError is returned when the API answers with a non-2xx status.
type HTTPError struct {
	Op         string
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s: API request failed with status %d: %s", e.Op, e.StatusCode, e.Body)
}

// NotFoundError is returned when a commit or branch lookup matches no build.
type NotFoundError struct {
	Kind  string // "commit" or "branch"
	Value string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("No build found for %s %s", e.Kind, e.Value)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// MalformedResponseError is returned when a response lacks an expected field,
// e.g. asking for artifacts of a job that is not a command job.
type MalformedResponseError struct {
	Op    string
	Field string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s: malformed response: missing %s", e.Op, e.Field)
}

func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}

// GraphQLError carries the errors array of a GraphQL response.
type GraphQLError struct {
	Op       string
	Messages []string
}

func (e *GraphQLError) Error() string {
	return fmt.Sprintf("%s: graphql error: %s", e.Op, strings.Join(e.Messages, "; "))
}
