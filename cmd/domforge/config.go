package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/domforge/convert"
)

// fileConfig is the YAML configuration. Flags override its values.
type fileConfig struct {
	Target            string `yaml:"target"`
	MinConfidence     int    `yaml:"min_confidence"`
	FallbackToHTML    *bool  `yaml:"fallback_to_html"`
	PreserveCustomCSS bool   `yaml:"preserve_custom_css"`
	IncludeResponsive bool   `yaml:"include_responsive"`

	Validate struct {
		Enabled     bool   `yaml:"enabled"`
		CheckAssets bool   `yaml:"check_assets"`
		ScanCode    bool   `yaml:"scan_code"`
		RemoteURL   string `yaml:"remote_url"` // external Chrome websocket
	} `yaml:"validate"`

	DB       string `yaml:"db"`
	Listen   string `yaml:"listen"`
	LogLevel string `yaml:"log_level"`
}

func (c *fileConfig) applyDefaults() {
	if c.Target == "" {
		c.Target = string(convert.TargetGutenberg)
	}
	if c.MinConfidence == 0 {
		c.MinConfidence = 70
	}
	if c.Listen == "" {
		c.Listen = ":8470"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func loadConfig(path string) (*fileConfig, error) {
	cfg := &fileConfig{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *fileConfig) options() convert.Options {
	opts := convert.Options{
		Target:            convert.Target(c.Target),
		MinConfidence:     c.MinConfidence,
		FallbackToHTML:    true,
		PreserveCustomCSS: c.PreserveCustomCSS,
		IncludeResponsive: c.IncludeResponsive,
	}
	if c.FallbackToHTML != nil {
		opts.FallbackToHTML = *c.FallbackToHTML
	}
	return opts
}
