package logx

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const redacted = "[REDACTED]"

// maskingCore wraps a core and redacts sensitive structured fields and masks patterns in Entry.Message.
// It is intended to be used for console output only.
type maskingCore struct {
	zapcore.Core
	sensitive    map[string]struct{} // lowercased keys to redact
	maskPattern  *regexp.Regexp      // family seeds and 64-hex keys in messages
	replaceValue string
}

func newMaskingCore(inner zapcore.Core) *maskingCore {
	return &maskingCore{
		Core:         inner,
		sensitive:    defaultSensitiveKeys(),
		maskPattern:  defaultMaskPattern(),
		replaceValue: redacted,
	}
}

func (m *maskingCore) redact(fields []zapcore.Field) []zapcore.Field {
	if len(fields) == 0 {
		return fields
	}
	out := make([]zapcore.Field, 0, len(fields))
	for _, f := range fields {
		if _, ok := m.sensitive[strings.ToLower(f.Key)]; ok {
			out = append(out, zap.String(f.Key, m.replaceValue))
			continue
		}
		if f.Type == zapcore.StringType && m.maskPattern.MatchString(f.String) {
			out = append(out, zap.String(f.Key, m.maskPattern.ReplaceAllString(f.String, m.replaceValue)))
			continue
		}
		out = append(out, f)
	}
	return out
}

func (m *maskingCore) With(fields []zapcore.Field) zapcore.Core {
	return &maskingCore{
		Core:         m.Core.With(m.redact(fields)),
		sensitive:    m.sensitive,
		maskPattern:  m.maskPattern,
		replaceValue: m.replaceValue,
	}
}

// Check registers the wrapper itself, otherwise the inner core would be written to directly.
func (m *maskingCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if m.Enabled(entry.Level) {
		return ce.AddCore(entry, m)
	}
	return ce
}

func (m *maskingCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	if entry.Message != "" {
		entry.Message = m.maskPattern.ReplaceAllString(entry.Message, m.replaceValue)
	}
	return m.Core.Write(entry, m.redact(fields))
}

func defaultSensitiveKeys() map[string]struct{} {
	keys := []string{
		"private", "private_key", "privatekey",
		"priv", "secret", "mnemonic", "seed", "passphrase",
		"raw", "raw_key", "raw_private", "key", "entropy",
	}
	m := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		m[strings.ToLower(k)] = struct{}{}
	}
	return m
}

func defaultMaskPattern() *regexp.Regexp {
	// family seeds (s... / sEd... in the ledger alphabet) or 64 hex (raw private key)
	pattern := `\bs[rpshnaf39wBUDNEGHJKLM4PQRST7VWXYZ2bcdeCg65jkm8oFqi1tuvAxyz]{28,30}\b|(?i)[a-f0-9]{64}`
	return regexp.MustCompile(pattern)
}
