package beacon

import (
	"fmt"
	"regexp"
	"strings"
)

// RegexpPrefix marks a page path as a regular expression.
const RegexpPrefix = "re:"

// MatchPath reports whether current matches pattern. Patterns are exact
// paths, paths containing "*" wildcards that match any run of characters,
// or regular expressions prefixed with "re:". A pattern that fails to
// compile never matches.
func MatchPath(current, pattern string) bool {
	ok, err := matchPath(current, pattern)
	return err == nil && ok
}

func matchPath(current, pattern string) (bool, error) {
	if expr, ok := strings.CutPrefix(pattern, RegexpPrefix); ok {
		re, err := regexp.Compile(expr)
		if err != nil {
			return false, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, pattern, err)
		}
		return re.MatchString(current), nil
	}

	if pattern == current {
		return true, nil
	}
	if !strings.Contains(pattern, "*") {
		return false, nil
	}

	parts := strings.Split(pattern, "*")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	re, err := regexp.Compile("^" + strings.Join(parts, ".*") + "$")
	if err != nil {
		return false, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, pattern, err)
	}
	return re.MatchString(current), nil
}

// ValidatePattern returns an error if pattern cannot be compiled.
func ValidatePattern(pattern string) error {
	_, err := matchPath("", pattern)
	return err
}

// NormalizePath trims whitespace, drops a trailing slash except on the
// root path and ensures a leading slash.
func NormalizePath(path string) string {
	p := strings.TrimSpace(path)
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = p[:len(p)-1]
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}
