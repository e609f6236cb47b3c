package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mgomes/treelox/lox"
	"gopkg.in/yaml.v3"
)

const (
	defaultPrompt       = "lox> "
	defaultHistoryLimit = 100
)

// cliConfig is the on-disk YAML configuration accepted by -config.
type cliConfig struct {
	RecursionLimit int        `yaml:"recursion_limit"`
	StepQuota      int        `yaml:"step_quota"`
	REPL           replConfig `yaml:"repl"`
}

type replConfig struct {
	Prompt       string `yaml:"prompt"`
	HistoryLimit int    `yaml:"history_limit"`
}

func defaultCLIConfig() cliConfig {
	return cliConfig{
		REPL: replConfig{
			Prompt:       defaultPrompt,
			HistoryLimit: defaultHistoryLimit,
		},
	}
}

// loadConfig reads path, or returns defaults when path is empty. Unknown keys
// are rejected.
func loadConfig(path string) (cliConfig, error) {
	cfg := defaultCLIConfig()
	if path == "" {
		return cfg, nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return cfg, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return cfg, fmt.Errorf("config: open %s: %w", abs, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("config: parse %s: %w", abs, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", abs, err)
	}
	if cfg.REPL.Prompt == "" {
		cfg.REPL.Prompt = defaultPrompt
	}
	if cfg.REPL.HistoryLimit == 0 {
		cfg.REPL.HistoryLimit = defaultHistoryLimit
	}
	return cfg, nil
}

func (c cliConfig) validate() error {
	if c.RecursionLimit < 0 {
		return fmt.Errorf("recursion_limit must be non-negative, got %d", c.RecursionLimit)
	}
	if c.StepQuota < 0 {
		return fmt.Errorf("step_quota must be non-negative, got %d", c.StepQuota)
	}
	if c.REPL.HistoryLimit < 0 {
		return fmt.Errorf("repl.history_limit must be non-negative, got %d", c.REPL.HistoryLimit)
	}
	return nil
}

func (c cliConfig) engineConfig(stdout io.Writer) lox.Config {
	return lox.Config{
		Stdout:         stdout,
		RecursionLimit: c.RecursionLimit,
		StepQuota:      c.StepQuota,
	}
}
