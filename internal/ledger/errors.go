package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork marks transport failures and non-200 responses; these are retried.
	ErrNetwork = errors.New("ledger node unreachable")
	ErrClosed  = errors.New("ledger client closed")
)

// RPCError is an error result from the node, such as actNotFound. It is
// never retried.
type RPCError struct {
	Command string
	Code    string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("%s: %s", e.Command, e.Code)
}

// IsNotFound reports whether err is the node saying the account or object does not exist.
func IsNotFound(err error) bool {
	var re *RPCError
	if !errors.As(err, &re) {
		return false
	}
	return re.Code == "actNotFound" || re.Code == "entryNotFound" || re.Code == "objectNotFound"
}

// RetryError wraps the last failure after retries ran out.
type RetryError struct {
	Op       string
	Attempts int
	Err      error
}

func (e *RetryError) Error() string {
	return fmt.Sprintf("%s failed after %d attempt(s): %v", e.Op, e.Attempts, e.Err)
}

func (e *RetryError) Unwrap() error { return e.Err }
