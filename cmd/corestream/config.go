package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the corestream configuration file
// (~/.config/corestream/config.yaml).
type Config struct {
	AssetsDir     string `yaml:"assets_dir"`
	ServerAddress string `yaml:"server_address"`
	LogLevel      string `yaml:"log_level"`
	LogFormat     string `yaml:"log_format"`
	ReportLimit   *int   `yaml:"report_limit"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "corestream", "config.yaml")
}

// LoadConfig reads the config file at path. A missing file yields a zero
// Config; a file that does not parse is an error.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, err
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return c, nil
}

// applyGlobalConfig applies config file defaults to the logging flags when
// they were not explicitly set.
func applyGlobalConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

func applyAssetsConfig(c *cli.Command, cfg Config) {
	if cfg.AssetsDir != "" && !c.IsSet("assets-dir") {
		assetsDir = cfg.AssetsDir
	}
}

func applyInspectConfig(c *cli.Command, cfg Config, limit *int) {
	if cfg.ReportLimit != nil && !c.IsSet("limit") {
		*limit = *cfg.ReportLimit
	}
}

func applyServeConfig(c *cli.Command, cfg Config, addr *string) {
	applyAssetsConfig(c, cfg)
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
}
