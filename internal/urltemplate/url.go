package urltemplate

import (
	"errors"
	"fmt"
	"net/url"
)

var (
	errMissingScheme = errors.New("missing scheme")
	errMissingHost   = errors.New("missing host")
	errMissingPath   = errors.New("missing path")
)

// URLParseError reports a built URL that is not well formed.
type URLParseError struct {
	URL string
	Err error
}

func (e *URLParseError) Error() string {
	return fmt.Sprintf("parse url %q: %v", e.URL, e.Err)
}

func (e *URLParseError) Unwrap() error {
	return e.Err
}

// Parse parses a resolved URL. It must have a scheme; file URLs must carry a
// path and every other URL a host.
func Parse(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, &URLParseError{URL: raw, Err: err}
	}

	switch {
	case u.Scheme == "":
		return nil, &URLParseError{URL: raw, Err: errMissingScheme}
	case u.Scheme == FileScheme:
		if u.Path == "" && u.Opaque == "" {
			return nil, &URLParseError{URL: raw, Err: errMissingPath}
		}
	case u.Host == "":
		return nil, &URLParseError{URL: raw, Err: errMissingHost}
	}

	return u, nil
}

// Render builds the URL for one binary: substitution, relative file
// resolution against cwd, then parsing.
func Render(pattern string, ctx Context, cwd string) (*url.URL, error) {
	built, err := Build(pattern, ctx)
	if err != nil {
		return nil, err
	}
	return Parse(ResolveRelative(built, cwd))
}
