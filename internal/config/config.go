// Package config loads the optional project manifest.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the manifest looked up in the working directory.
const DefaultFile = ".mlnbuild.yaml"

// Config describes the project being driven. The zero manifest is the
// canonical allocators checkout; a manifest file only overrides what it
// sets, which is how the simular variant reuses the same schema with a
// different definition prefix.
type Config struct {
	// Prefix is prepended to every feature definition name, e.g.
	// MALUNAL_ALLOCATORS + BUILD_TESTS -> MALUNAL_ALLOCATORS_BUILD_TESTS.
	Prefix    string            `yaml:"prefix"`
	SourceDir string            `yaml:"source"`
	BuildDir  string            `yaml:"build"`
	Generator string            `yaml:"generator"`
	CMakeMin  string            `yaml:"cmake_min"`
	Defines   map[string]string `yaml:"defines"`
}

// Default returns the configuration for the allocators library checkout.
func Default() *Config {
	return &Config{
		Prefix:    "MALUNAL_ALLOCATORS",
		SourceDir: ".",
		BuildDir:  "build",
		Generator: "Unix Makefiles",
		CMakeMin:  "3.15",
	}
}

// Load reads path and overlays it on the defaults. A missing file is not
// an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}
