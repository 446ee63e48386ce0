// Package config loads session defaults (serial port, baud, DMA memory
// base, flash block/page size) from an optional YAML file, in the style
// of the teacher repo's tocalls.yaml loading in src/deviceid.go.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the tunables a CLI front end reads before calling
// ccdebugger.Open.
type Config struct {
	Port      string `yaml:"port"`
	Baud      int    `yaml:"baud"`
	MemBase   uint16 `yaml:"mem_base"`
	BlockSize int    `yaml:"block_size"`
	PageSize  int    `yaml:"page_size"`
	Verbose   bool   `yaml:"verbose"`
}

// Default returns the built-in defaults used when no config file is
// given.
func Default() Config {
	return Config{
		Baud:      38400,
		MemBase:   0x1000,
		BlockSize: 2048,
		PageSize:  2048,
	}
}

// Load reads and parses a YAML config file, starting from Default() so
// the file only needs to override what it cares about.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}
