package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// PatternsConfig holds named vanity address presets.
type PatternsConfig struct {
	CaseSensitive bool            `yaml:"case_sensitive"`
	Regexp        []RegexpPattern `yaml:"regexp"`
}

type RegexpPattern struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
}

func Load(path string) (*PatternsConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config %q: %w", path, err)
	}
	defer f.Close()

	var cfg PatternsConfig
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode yaml %q: %w", path, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation %q: %w", path, err)
	}

	return &cfg, nil
}

// Find returns the preset with the given name (case-insensitive).
func (c *PatternsConfig) Find(name string) (RegexpPattern, bool) {
	for _, p := range c.Regexp {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return RegexpPattern{}, false
}

func validate(c *PatternsConfig) error {
	if c == nil {
		return errors.New("nil config")
	}
	if len(c.Regexp) == 0 {
		return errors.New("no patterns defined")
	}

	seen := make(map[string]struct{}, len(c.Regexp))
	for i, rp := range c.Regexp {
		name := strings.ToLower(strings.TrimSpace(rp.Name))
		if name == "" {
			return fmt.Errorf("regexp[%d].name must not be empty", i)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("regexp[%d].name %q is duplicated", i, rp.Name)
		}
		seen[name] = struct{}{}

		if rp.Pattern == "" {
			return fmt.Errorf("regexp[%d].pattern must not be empty", i)
		}
		if _, err := regexp.Compile(rp.Pattern); err != nil {
			return fmt.Errorf("regexp[%d].pattern: %w", i, err)
		}
	}
	return nil
}
