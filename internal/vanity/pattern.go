package vanity

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var ErrInvalidPattern = errors.New("invalid address pattern")

// Matcher tests addresses against a compiled regular expression.
type Matcher struct {
	re *regexp.Regexp
}

// Compile builds a Matcher. An empty expression is rejected.
func Compile(expr string, caseSensitive bool) (*Matcher, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidPattern)
	}
	if !caseSensitive && !strings.HasPrefix(expr, "(?i)") {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	return &Matcher{re: re}, nil
}

func (m *Matcher) Match(address string) bool { return m.re.MatchString(address) }

func (m *Matcher) String() string { return m.re.String() }
