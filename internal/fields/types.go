// Package fields validates and parses operator input for transaction fields.
package fields

import (
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"LedgerTools/internal/crypto"
)

// Type is the closed set of field types a transaction schema may use.
type Type int

const (
	AccountID Type = iota + 1
	UInt8
	UInt16
	UInt32
	Hash128
	Hash256
	Blob
	Amount
	STIssue

	typeCount = int(STIssue) + 1
)

// Rejection is a human-readable reason an input was refused. Empty means accepted.
type Rejection string

func (r Rejection) Accepted() bool { return r == "" }

var ErrRejected = errors.New("input rejected")

type behavior struct {
	name     string
	validate func(string) Rejection
	parse    func(string) any
}

var behaviors [typeCount]behavior

var (
	digitsRe  = regexp.MustCompile(`^[0-9]+$`)
	hexRe     = regexp.MustCompile(`^[0-9A-Fa-f]+$`)
	hash128Re = regexp.MustCompile(`^[0-9A-Fa-f]{32}$`)
	hash256Re = regexp.MustCompile(`^[0-9A-Fa-f]{64}$`)
)

func init() {
	behaviors[AccountID] = behavior{"AccountID", validateAccount, parseString}
	behaviors[UInt8] = behavior{"UInt8", validateUInt, parseUInt}
	behaviors[UInt16] = behavior{"UInt16", validateUInt, parseUInt}
	behaviors[UInt32] = behavior{"UInt32", validateUInt, parseUInt}
	behaviors[Hash128] = behavior{"Hash128", validateHash(hash128Re, 32), parseUpper}
	behaviors[Hash256] = behavior{"Hash256", validateHash(hash256Re, 64), parseUpper}
	behaviors[Blob] = behavior{"Blob", validateBlob, parseBlob}
	behaviors[Amount] = behavior{"Amount", validateAmount, parseAmount}
	behaviors[STIssue] = behavior{"STIssue", validateIssue, parseIssue}

	for t := AccountID; int(t) < typeCount; t++ {
		if behaviors[t].validate == nil || behaviors[t].parse == nil {
			panic(fmt.Sprintf("fields: type %d has no codec", t))
		}
	}
}

func (t Type) Valid() bool { return t >= AccountID && int(t) < typeCount }

func (t Type) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return behaviors[t].name
}

// Validate checks raw operator input. It never panics on malformed input.
func (t Type) Validate(input string) Rejection {
	if !t.Valid() {
		return Rejection("unsupported field type " + t.String())
	}
	return behaviors[t].validate(strings.TrimSpace(input))
}

// Parse converts accepted input into the value stored in a draft.
func (t Type) Parse(input string) (any, error) {
	if r := t.Validate(input); !r.Accepted() {
		return nil, fmt.Errorf("%w: %s", ErrRejected, r)
	}
	return behaviors[t].parse(strings.TrimSpace(input)), nil
}

func validateAccount(s string) Rejection {
	if !crypto.IsValidClassicAddress(s) {
		return "not a valid address"
	}
	return ""
}

func validateUInt(s string) Rejection {
	if !digitsRe.MatchString(s) {
		return "not a valid integer number"
	}
	return ""
}

func validateHash(re *regexp.Regexp, n int) func(string) Rejection {
	return func(s string) Rejection {
		if !re.MatchString(s) {
			return Rejection(fmt.Sprintf("not a valid %d-character hex string", n))
		}
		return ""
	}
}

func validateBlob(s string) Rejection {
	if s == "" {
		return "empty blob"
	}
	return ""
}

func parseString(s string) any { return s }

func parseUpper(s string) any { return strings.ToUpper(s) }

// parseUInt has no width check; the binary codec enforces field widths.
func parseUInt(s string) any {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return s
	}
	return v
}

// parseBlob passes even-length hex through uppercased and hex-encodes anything else.
func parseBlob(s string) any {
	if len(s)%2 == 0 && hexRe.MatchString(s) {
		return strings.ToUpper(s)
	}
	return strings.ToUpper(hex.EncodeToString([]byte(s)))
}
