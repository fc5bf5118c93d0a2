package buildkite

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestWrapError_AuthFailed(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{
			name: "401",
			err:  &HTTPError{Op: "getUserBuilds", StatusCode: http.StatusUnauthorized},
		},
		{
			name: "403",
			err:  &HTTPError{Op: "getUserBuilds", StatusCode: http.StatusForbidden},
		},
		{
			name: "wrapped 401",
			err:  fmt.Errorf("listing builds: %w", &HTTPError{StatusCode: http.StatusUnauthorized}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := WrapError(tt.err)

			userErr, ok := wrapped.(*UserError)
			if !ok {
				t.Fatalf("WrapError() returned %T, want *UserError", wrapped)
			}
			if userErr.Message != "Authentication failed" {
				t.Errorf("Message = %q, want %q", userErr.Message, "Authentication failed")
			}
			if !strings.Contains(userErr.Hint, "BUILDKITE_TOKEN") {
				t.Errorf("Hint should contain 'BUILDKITE_TOKEN', got %q", userErr.Hint)
			}
			var httpErr *HTTPError
			if !errors.As(wrapped, &httpErr) {
				t.Error("errors.As(wrapped, *HTTPError) = false, want true")
			}
		})
	}
}

func TestWrapError_ResourceNotFound(t *testing.T) {
	err := &HTTPError{Op: "getBuildData", Method: "GET", URL: "https://api.buildkite.com/v2/x", StatusCode: http.StatusNotFound}
	wrapped := WrapError(err)

	userErr, ok := wrapped.(*UserError)
	if !ok {
		t.Fatalf("WrapError() returned %T, want *UserError", wrapped)
	}
	if !strings.Contains(userErr.Hint, "https://api.buildkite.com/v2/x") {
		t.Errorf("Hint should name the URL, got %q", userErr.Hint)
	}
}

func TestWrapError_Malformed(t *testing.T) {
	wrapped := WrapError(&MalformedResponseError{Op: "getJobArtifactCount", Field: "job.artifacts"})

	userErr, ok := wrapped.(*UserError)
	if !ok {
		t.Fatalf("WrapError() returned %T, want *UserError", wrapped)
	}
	if !errors.Is(userErr, ErrMalformedResponse) {
		t.Error("errors.Is(userErr, ErrMalformedResponse) = false, want true")
	}
}

func TestWrapError_PassThrough(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "not found", err: &NotFoundError{Kind: "commit", Value: "abc123"}},
		{name: "server error", err: &HTTPError{StatusCode: http.StatusInternalServerError}},
		{name: "graphql error", err: &GraphQLError{Op: "x", Messages: []string{"bad"}}},
		{name: "generic error", err: errors.New("something went wrong")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if wrapped := WrapError(tt.err); wrapped != tt.err {
				t.Errorf("WrapError() = %v, want original error %v", wrapped, tt.err)
			}
		})
	}
}

func TestWrapError_NilError(t *testing.T) {
	if wrapped := WrapError(nil); wrapped != nil {
		t.Errorf("WrapError(nil) = %v, want nil", wrapped)
	}
}

func TestUserError_Error(t *testing.T) {
	err := &UserError{
		Message: "Something went wrong",
		Hint:    "Try doing this instead",
		Err:     errors.New("original error"),
	}
	got := err.Error()

	msgIdx := strings.Index(got, "Something went wrong")
	hintIdx := strings.Index(got, "Hint: Try doing this instead")
	detailIdx := strings.Index(got, "Details: original error")
	if msgIdx != 0 || hintIdx <= msgIdx || detailIdx <= hintIdx {
		t.Errorf("unexpected layout: %q", got)
	}
}

func TestNotFoundError(t *testing.T) {
	err := error(&NotFoundError{Kind: "commit", Value: "abc123"})

	if err.Error() != "No build found for commit abc123" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(fmt.Errorf("lookup: %w", err), ErrNotFound) {
		t.Error("wrapped NotFoundError should match ErrNotFound")
	}
	if errors.Is(err, ErrMalformedResponse) {
		t.Error("NotFoundError should not match ErrMalformedResponse")
	}
}
