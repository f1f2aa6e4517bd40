// Package urltemplate turns a download URL pattern into the URL for one
// binary.
//
// A pattern is plain text with placeholders in braces:
//
//	https://github.com/owner/repo/releases/download/v{version}/{bin}-{triple}
//
// Exactly four placeholders exist: bin, name, triple and version. Values are
// inserted verbatim with no escaping. A literal brace is written as \{ or \}.
package urltemplate

import (
	"fmt"
	"strings"

	"github.com/ZebulonRouseFrantzich/nirb/internal/version"
)

// Placeholder names.
const (
	PlaceholderBin     = "bin"
	PlaceholderName    = "name"
	PlaceholderTriple  = "triple"
	PlaceholderVersion = "version"
)

// Context holds the values substituted into a pattern for one binary.
type Context struct {
	Bin     string
	Name    string
	Triple  string
	Version version.Version
}

// lookup returns the value for a placeholder name.
func (c Context) lookup(name string) (string, bool) {
	switch name {
	case PlaceholderBin:
		return c.Bin, true
	case PlaceholderName:
		return c.Name, true
	case PlaceholderTriple:
		return c.Triple, true
	case PlaceholderVersion:
		return c.Version.String(), true
	default:
		return "", false
	}
}

// TemplateError reports a pattern that cannot be rendered.
type TemplateError struct {
	Pattern string
	Offset  int // byte offset of the offending brace
	Reason  string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template %q at offset %d: %s", e.Pattern, e.Offset, e.Reason)
}

// Build substitutes the context into pattern.
func Build(pattern string, ctx Context) (string, error) {
	var b strings.Builder
	b.Grow(len(pattern))

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch c {
		case '\\':
			if i+1 < len(pattern) && (pattern[i+1] == '{' || pattern[i+1] == '}') {
				b.WriteByte(pattern[i+1])
				i++
				continue
			}
			b.WriteByte(c)

		case '{':
			end := strings.IndexAny(pattern[i+1:], "{}")
			if end < 0 || pattern[i+1+end] == '{' {
				return "", &TemplateError{Pattern: pattern, Offset: i, Reason: "unterminated placeholder"}
			}

			name := strings.TrimSpace(pattern[i+1 : i+1+end])
			if name == "" {
				return "", &TemplateError{Pattern: pattern, Offset: i, Reason: "empty placeholder"}
			}

			value, ok := ctx.lookup(name)
			if !ok {
				return "", &TemplateError{
					Pattern: pattern,
					Offset:  i,
					Reason:  fmt.Sprintf("unknown placeholder %q (known: %s)", name, strings.Join(Placeholders(), ", ")),
				}
			}
			b.WriteString(value)
			i += end + 1

		case '}':
			return "", &TemplateError{Pattern: pattern, Offset: i, Reason: "unmatched closing brace"}

		default:
			b.WriteByte(c)
		}
	}

	return b.String(), nil
}

// Placeholders lists the recognised placeholder names.
func Placeholders() []string {
	return []string{PlaceholderBin, PlaceholderName, PlaceholderTriple, PlaceholderVersion}
}
