/*
Package config holds the settings of a webtree browser.

Settings are read from an optional TOML file and may be overridden from
the environment:

    FRAME                 if set (to anything), frame containers with their tag
    WEBTREE_CONFORMANT    use the conformant parser (bool)
    WEBTREE_USER_AGENT    user agent sent when fetching
    WEBTREE_TIMEOUT       fetch timeout, e.g. "10s"

Environment values win over file values.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the complete set of settings.
type Config struct {
	Frame      bool          // outline containers, labelled with their tag
	Conformant bool          // build with the conformant HTML5 parser
	Invisible  []string      // additional tags which are never displayed
	UserAgent  string        // User-Agent header for fetching
	Timeout    time.Duration // per fetch
	MaxDepth   int           // nesting bound for tree construction
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		UserAgent: "webtree/0.1",
		Timeout:   30 * time.Second,
		MaxDepth:  512,
	}
}

type fileConfig struct {
	Frame      bool     `toml:"frame"`
	Conformant bool     `toml:"conformant"`
	Invisible  []string `toml:"invisible"`
	UserAgent  string   `toml:"user_agent"`
	Timeout    string   `toml:"timeout"`
	MaxDepth   int      `toml:"max_depth"`
}

// Load reads settings from the TOML file at path, then applies environment
// overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.decodeFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}
	if meta.IsDefined("frame") {
		c.Frame = raw.Frame
	}
	if meta.IsDefined("conformant") {
		c.Conformant = raw.Conformant
	}
	if meta.IsDefined("invisible") {
		c.Invisible = normalizeTags(raw.Invisible)
	}
	if meta.IsDefined("user_agent") {
		c.UserAgent = strings.TrimSpace(raw.UserAgent)
	}
	if meta.IsDefined("timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Timeout))
		if err != nil {
			return fmt.Errorf("parse timeout: %w", err)
		}
		c.Timeout = d
	}
	if meta.IsDefined("max_depth") {
		c.MaxDepth = raw.MaxDepth
	}
	return nil
}

func (c *Config) applyEnv() error {
	if _, ok := os.LookupEnv("FRAME"); ok {
		c.Frame = true
	}
	if v := os.Getenv("WEBTREE_CONFORMANT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse WEBTREE_CONFORMANT: %w", err)
		}
		c.Conformant = b
	}
	c.UserAgent = envOr("WEBTREE_USER_AGENT", c.UserAgent)
	if v := os.Getenv("WEBTREE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse WEBTREE_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	return nil
}

// Validate checks settings for consistency.
func (c Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, is %s", c.Timeout)
	}
	if c.MaxDepth < 1 {
		return fmt.Errorf("max_depth must be at least 1, is %d", c.MaxDepth)
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
