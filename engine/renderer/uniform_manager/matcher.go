package uniform_manager

import (
	"regexp"
	"strings"
)

// Matcher selects registered materials by id for UpdateUniformsByPattern.
type Matcher interface {
	// Match reports whether the material id is selected.
	//
	// Parameters:
	//   - id: the material registration id
	//
	// Returns:
	//   - bool: true when the id matches
	Match(id string) bool
}

// Substring matches ids containing the string.
type Substring string

func (s Substring) Match(id string) bool {
	return strings.Contains(id, string(s))
}

// MatchFunc adapts a predicate to Matcher.
type MatchFunc func(id string) bool

func (f MatchFunc) Match(id string) bool {
	return f(id)
}

type regexpMatcher struct {
	re *regexp.Regexp
}

func (m regexpMatcher) Match(id string) bool {
	return m.re != nil && m.re.MatchString(id)
}

// Regexp matches ids against a compiled regular expression.
//
// Parameters:
//   - re: the expression, nil matches nothing
//
// Returns:
//   - Matcher: the matcher
func Regexp(re *regexp.Regexp) Matcher {
	return regexpMatcher{re: re}
}
