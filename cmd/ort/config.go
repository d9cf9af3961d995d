package main

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds settings read from the YAML config file. Command-line
// flags override it.
//
//	max_depth: 32
//	field_order: [id, name]
//	verbose: true
type Config struct {
	MaxDepth   int      `yaml:"max_depth"`
	FieldOrder []string `yaml:"field_order"`
	Verbose    bool     `yaml:"verbose"`
}

// loadConfig reads a config file. Unknown keys are rejected.
func loadConfig(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	if cfg.MaxDepth < 0 {
		return cfg, errors.Errorf("config %s: max_depth must not be negative", path)
	}
	return cfg, nil
}

// resolveConfig layers flag values over the config file, if any.
func resolveConfig(path string, verbose bool, fieldOrder string, maxDepth int) (Config, error) {
	var cfg Config
	if path != "" {
		loaded, err := loadConfig(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if verbose {
		cfg.Verbose = true
	}
	if fieldOrder != "" {
		cfg.FieldOrder = splitList(fieldOrder)
	}
	if maxDepth < 0 {
		return cfg, errors.New("--max-depth must not be negative")
	}
	if maxDepth > 0 {
		cfg.MaxDepth = maxDepth
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
