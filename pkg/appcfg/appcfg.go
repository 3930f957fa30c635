package appcfg

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment overrides, e.g. LEDGERTOOLS_NODE_URL.
const EnvPrefix = "LEDGERTOOLS"

const (
	DefaultNodeURL    = "https://s.devnet.rippletest.net:51234"
	DefaultRPCTimeout = 15 * time.Second
)

type Config struct {
	Language             string        `yaml:"language" envconfig:"LANGUAGE"`   // "ru" | "en"
	LogLevel             string        `yaml:"log_level" envconfig:"LOG_LEVEL"` // "debug"|"info"|"warn"|"error"
	HideSecretsInConsole bool          `yaml:"hide_secrets_in_console" envconfig:"HIDE_SECRETS_IN_CONSOLE"`
	Cores                int           `yaml:"cores" envconfig:"CORES"`                         // vanity workers, 0 = all CPUs
	VanityStopAfter      int           `yaml:"vanity_stop_after" envconfig:"VANITY_STOP_AFTER"` // 0 = search until interrupted
	NodeURL              string        `yaml:"node_url" envconfig:"NODE_URL"`
	RPCTimeout           time.Duration `yaml:"rpc_timeout" envconfig:"RPC_TIMEOUT"`
	LogsDir              string        `yaml:"logs_dir" envconfig:"LOGS_DIR"`
	InputsDir            string        `yaml:"inputs_dir" envconfig:"INPUTS_DIR"`
	PatternsPath         string        `yaml:"patterns_path" envconfig:"PATTERNS_PATH"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads the YAML file at path (a missing file is not an error) and
// then applies LEDGERTOOLS_* environment overrides.
func Load(path string) (*Config, error) {
	var c Config

	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&c); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode app yaml %q: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("open app config %q: %w", path, err)
	}

	if err := envconfig.Process(EnvPrefix, &c); err != nil {
		return nil, fmt.Errorf("process env overrides: %w", err)
	}

	c.applyDefaults()
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Language == "" {
		c.Language = "en"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.NodeURL == "" {
		c.NodeURL = DefaultNodeURL
	}
	if c.RPCTimeout <= 0 {
		c.RPCTimeout = DefaultRPCTimeout
	}
	if c.Cores < 0 {
		c.Cores = 0
	}
	if c.VanityStopAfter < 0 {
		c.VanityStopAfter = 0
	}
	if c.LogsDir == "" {
		c.LogsDir = "logs"
	}
	if c.InputsDir == "" {
		c.InputsDir = "inputs"
	}
	if c.PatternsPath == "" {
		c.PatternsPath = "configs/patterns.yaml"
	}
}
