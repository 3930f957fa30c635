package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "patterns.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadAndFind(t *testing.T) {
	path := writeYAML(t, "case_sensitive: false\nregexp:\n  - name: Triple\n    pattern: \"^rAAA\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	p, ok := cfg.Find("triple")
	require.True(t, ok)
	assert.Equal(t, "^rAAA", p.Pattern)
	assert.False(t, cfg.CaseSensitive)

	_, ok = cfg.Find("missing")
	assert.False(t, ok)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty", "regexp: []\n"},
		{"no name", "regexp:\n  - pattern: \"^r\"\n"},
		{"bad regexp", "regexp:\n  - name: a\n    pattern: \"([\"\n"},
		{"duplicate", "regexp:\n  - name: a\n    pattern: \"^r\"\n  - name: A\n    pattern: \"^rr\"\n"},
		{"unknown field", "symbols: abc\nregexp:\n  - name: a\n    pattern: \"^r\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeYAML(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestShippedPresetsLoad(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "configs", "patterns.yaml"))
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Regexp)
}
