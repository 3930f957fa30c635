package vanity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidChoice = errors.New("invalid choice")

// Choose picks a result by its 1-based position as typed by the operator.
func Choose(results []Result, input string) (Result, error) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %q is not a number", ErrInvalidChoice, input)
	}
	if n < 1 || n > len(results) {
		return Result{}, fmt.Errorf("%w: pick 1 to %d", ErrInvalidChoice, len(results))
	}
	return results[n-1], nil
}
