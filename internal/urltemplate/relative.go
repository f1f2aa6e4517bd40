package urltemplate

import (
	"net/url"
	"strings"
)

const (
	// FileScheme is the scheme token for local file references.
	FileScheme = "file"

	// lookahead is the shortest input that can carry a relative file
	// reference: the scheme, ':' and room for a "//" separator.
	lookahead = len(FileScheme) + len(":") + len("//")
)

// ResolveRelative rewrites a file URL whose path starts with ./ or ../ so
// that it points below cwd, e.g. "file:../x" in "/a/b" becomes
// "file:/a/b/../x". Both the "file:" and "file://" forms are understood and
// kept. Any other input, including anything too short to inspect, is
// returned unchanged.
//
// cwd is percent-escaped so that characters such as #, ? and % in a
// directory name survive URL parsing. The pattern path is joined as written.
// Dot segments are left in place and resolved by the filesystem when the file
// is opened.
func ResolveRelative(raw, cwd string) string {
	if len(raw) < lookahead || !strings.HasPrefix(raw, FileScheme+":") {
		return raw
	}

	separator := ":"
	if raw[len(FileScheme)+1:lookahead] == "//" {
		separator = "://"
	}

	path := raw[len(FileScheme)+len(separator):]
	if !isRelative(path) {
		return raw
	}

	return FileScheme + separator + escapePath(cwd) + "/" + path
}

func isRelative(path string) bool {
	return strings.HasPrefix(path, "./") || strings.HasPrefix(path, "../")
}

// escapePath percent-encodes a filesystem path for use as a URL path.
func escapePath(p string) string {
	return (&url.URL{Path: p}).EscapedPath()
}
