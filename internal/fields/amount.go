package fields

import (
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"LedgerTools/internal/crypto"
)

// NativeCurrency is the ledger's native unit. It never has an issuer.
const NativeCurrency = "XRP"

const (
	nativeDecimals = 6
	maxCodeLen     = 20
)

var (
	decimalRe = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)
	isoCodeRe = regexp.MustCompile(`^[A-Za-z0-9?!@#$%^&*<>(){}\[\]|]{3}$`)
	hexCodeRe = regexp.MustCompile(`^[0-9A-Fa-f]{40}$`)
)

// Issue is a currency and its issuer. Issuer is empty for the native unit.
type Issue struct {
	Currency string
	Issuer   string
}

func (i Issue) Map() map[string]any {
	m := map[string]any{"currency": i.Currency}
	if i.Issuer != "" {
		m["issuer"] = i.Issuer
	}
	return m
}

// IssuedAmount is a non-native amount.
type IssuedAmount struct {
	Issue
	Value string
}

func (a IssuedAmount) Map() map[string]any {
	m := a.Issue.Map()
	m["value"] = a.Value
	return m
}

// ParseIssue reads "<currency>:<issuer>", or the bare native currency.
func ParseIssue(s string) (Issue, Rejection) {
	currency, issuer, _ := strings.Cut(strings.TrimSpace(s), ":")
	if currency == "" {
		return Issue{}, "currency must not be empty"
	}
	if strings.EqualFold(currency, NativeCurrency) {
		if issuer != "" {
			return Issue{}, "XRP cannot have an issuer"
		}
		return Issue{Currency: NativeCurrency}, ""
	}
	if issuer == "" {
		return Issue{}, "iou must be specified as [CURRENCY]:[ISSUER]"
	}
	if !crypto.IsValidClassicAddress(issuer) {
		return Issue{}, "malformed token issuing address"
	}
	code, r := currencyCode(currency)
	if !r.Accepted() {
		return Issue{}, r
	}
	return Issue{Currency: code, Issuer: issuer}, ""
}

// currencyCode keeps standard 3-character and 40-hex codes and hex-encodes
// longer names into the 160-bit form.
func currencyCode(c string) (string, Rejection) {
	switch {
	case isoCodeRe.MatchString(c):
		return c, ""
	case hexCodeRe.MatchString(c):
		return strings.ToUpper(c), ""
	case len(c) > maxCodeLen:
		return "", Rejection(fmt.Sprintf("currency code longer than %d bytes", maxCodeLen))
	}
	raw := make([]byte, maxCodeLen)
	copy(raw, c)
	return strings.ToUpper(hex.EncodeToString(raw)), ""
}

// ParseAmount reads either a bare positive drops integer, or
// "<value> <currency>[:<issuer>]". The native unit becomes a drops string.
func ParseAmount(s string) (any, Rejection) {
	parts := strings.Fields(s)
	switch len(parts) {
	case 0:
		return nil, "empty value cannot be an amount"
	case 1:
		if !digitsRe.MatchString(parts[0]) || strings.Trim(parts[0], "0") == "" {
			return nil, "drop amount must be positive integer"
		}
		return strings.TrimLeft(parts[0], "0"), ""
	case 2:
	default:
		return nil, "amount must be [VALUE] [CURRENCY]:[ISSUER]"
	}

	value := parts[0]
	if !decimalRe.MatchString(value) {
		return nil, "not a valid amount value"
	}
	issue, r := ParseIssue(parts[1])
	if !r.Accepted() {
		return nil, r
	}
	if issue.Currency == NativeCurrency {
		drops, err := ToDrops(value)
		if err != nil {
			return nil, Rejection(err.Error())
		}
		return drops, ""
	}
	return IssuedAmount{Issue: issue, Value: value}, ""
}

// ToDrops converts a decimal XRP value to a drops string without floats.
func ToDrops(value string) (string, error) {
	whole, frac, _ := strings.Cut(value, ".")
	if len(frac) > nativeDecimals {
		return "", fmt.Errorf("XRP supports at most %d decimal places", nativeDecimals)
	}
	frac += strings.Repeat("0", nativeDecimals-len(frac))
	drops := strings.TrimLeft(whole+frac, "0")
	if drops == "" {
		return "", fmt.Errorf("amount must be positive")
	}
	return drops, nil
}

func validateAmount(s string) Rejection {
	_, r := ParseAmount(s)
	return r
}

func parseAmount(s string) any {
	v, _ := ParseAmount(s)
	return v
}

func validateIssue(s string) Rejection {
	_, r := ParseIssue(s)
	return r
}

func parseIssue(s string) any {
	v, _ := ParseIssue(s)
	return v
}
