// Copyright 2026 The Chorography Authors
// SPDX-License-Identifier: Apache-2.0

// Package config holds the settings of the chorography server.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read when no --config flag is given.
const DefaultPath = "chorography.yaml"

// Default reference files, relative to the working directory.
const (
	DefaultCatalog = "愛如生方志庫書目（添加時代和坐標）.xlsx"
	DefaultBaseMap = "省.shp"
	DefaultFont    = "SimHei.ttf"
	DefaultListen  = "localhost:8080"
)

// Config is the server configuration.
type Config struct {
	Catalog     string `yaml:"catalog"`
	BaseMap     string `yaml:"basemap"`
	Font        string `yaml:"font"`
	Listen      string `yaml:"listen"`
	LogLevel    string `yaml:"log_level"`
	MaxUploadMB int    `yaml:"max_upload_mb"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Catalog:     DefaultCatalog,
		BaseMap:     DefaultBaseMap,
		Font:        DefaultFont,
		Listen:      DefaultListen,
		LogLevel:    "info",
		MaxUploadMB: 32,
	}
}

// Load reads path over the defaults, then applies CHOROGRAPHY_* environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	for env, field := range map[string]*string{
		"CHOROGRAPHY_CATALOG":   &c.Catalog,
		"CHOROGRAPHY_BASEMAP":   &c.BaseMap,
		"CHOROGRAPHY_FONT":      &c.Font,
		"CHOROGRAPHY_LISTEN":    &c.Listen,
		"CHOROGRAPHY_LOG_LEVEL": &c.LogLevel,
	} {
		if v := os.Getenv(env); v != "" {
			*field = v
		}
	}

	if v := os.Getenv("CHOROGRAPHY_MAX_UPLOAD_MB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing CHOROGRAPHY_MAX_UPLOAD_MB: %w", err)
		}

		c.MaxUploadMB = n
	}

	return nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	for _, f := range []struct{ name, value string }{
		{"catalog", c.Catalog},
		{"basemap", c.BaseMap},
		{"font", c.Font},
		{"listen", c.Listen},
	} {
		if strings.TrimSpace(f.value) == "" {
			errs = append(errs, fmt.Errorf("%s must not be empty", f.name))
		}
	}

	if c.MaxUploadMB <= 0 {
		errs = append(errs, fmt.Errorf("max_upload_mb must be positive, got %d", c.MaxUploadMB))
	}

	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Level parses LogLevel.
func (c *Config) Level() (zapcore.Level, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("log_level: %w", err)
	}

	return level, nil
}

// MaxUploadBytes is the upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}
