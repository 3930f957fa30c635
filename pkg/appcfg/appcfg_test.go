package appcfg

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, Default(), c)
	assert.Equal(t, DefaultNodeURL, c.NodeURL)
	assert.Equal(t, DefaultRPCTimeout, c.RPCTimeout)
}

func TestLoadFileThenEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.yaml")
	body := "language: ru\nlog_level: debug\ncores: 3\nrpc_timeout: 5s\nnode_url: https://example.invalid:51234\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	t.Setenv("LEDGERTOOLS_NODE_URL", "http://127.0.0.1:5005")

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ru", c.Language)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, 3, c.Cores)
	assert.Equal(t, 5*time.Second, c.RPCTimeout)
	assert.Equal(t, "http://127.0.0.1:5005", c.NodeURL)
	assert.Equal(t, "logs", c.LogsDir)
}

func TestLoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cores: [not, a, number]\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}
