package buildkite

import (
	"errors"
	"fmt"
	"net/http"
)

// UserError wraps errors with user-friendly messages
type UserError struct {
	Message string
	Hint    string
	Err     error
}

func (e *UserError) Error() string {
	msg := e.Message
	if e.Hint != "" {
		msg += "\n\nHint: " + e.Hint
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n\nDetails: %v", e.Err)
	}
	return msg
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// WrapError converts API errors to user-friendly messages.
// Not-found errors pass through unchanged so callers can print them as a
// single line.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return &UserError{
				Message: "Authentication failed",
				Hint:    "Check that your API token is valid and has the read_builds and read_artifacts scopes.\n  - Set BUILDKITE_TOKEN or token in ~/.config/kite/config.toml",
				Err:     err,
			}
		case http.StatusNotFound:
			return &UserError{
				Message: "Resource not found",
				Hint:    fmt.Sprintf("Check the organization and pipeline slugs (%s %s).", httpErr.Method, httpErr.URL),
				Err:     err,
			}
		}
	}

	if errors.Is(err, ErrMalformedResponse) {
		return &UserError{
			Message: "Unexpected response from Buildkite",
			Hint:    "Artifacts are only available for command jobs; check the job ID.",
			Err:     err,
		}
	}

	return err
}
