package buildkite

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrInvalidURL is returned when a string is not a Buildkite build URL.
var ErrInvalidURL = errors.New("invalid build URL")

var buildURLPattern = regexp.MustCompile(`^https://buildkite\.com/([^/]+)/([^/]+)/builds/(\d+)`)

// ParseBuildURL extracts the pipeline and build number from a build web URL,
// the inverse of Build.URL. Trailing paths such as #job anchors are ignored.
func ParseBuildURL(u string) (Pipeline, int, error) {
	matches := buildURLPattern.FindStringSubmatch(u)
	if matches == nil {
		return Pipeline{}, 0, fmt.Errorf("%w: %s", ErrInvalidURL, u)
	}
	n, err := strconv.Atoi(matches[3])
	if err != nil || n <= 0 {
		return Pipeline{}, 0, fmt.Errorf("%w: %s", ErrInvalidURL, u)
	}
	return Pipeline{Organization: matches[1], Slug: matches[2]}, n, nil
}
