// SPDX-License-Identifier: MPL-2.0

// Package config loads palrun configuration from the platform config
// directory and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	rt "github.com/palrun/palrun/internal/runtime"
	"github.com/palrun/palrun/internal/scan"
)

const (
	// AppName is the application name.
	AppName = "palrun"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "yaml"
)

type (
	// Config is the palrun configuration document.
	Config struct {
		Scanner ScannerConfig `mapstructure:"scanner"`
		Search  SearchConfig  `mapstructure:"search"`
		Runner  RunnerConfig  `mapstructure:"runner"`
	}

	// ScannerConfig controls project discovery.
	ScannerConfig struct {
		// Enabled restricts the scanners; empty means all of them.
		Enabled []string `mapstructure:"enabled"`
		// Exclusions are directory names pruned from the walk.
		Exclusions []string `mapstructure:"exclusions"`
		// MaxDepth is the maximum directory depth below the root.
		MaxDepth int `mapstructure:"max_depth"`
		// Recursive false restricts scanning to the root directory.
		Recursive bool `mapstructure:"recursive"`
		// FollowSymlinks enables descending into symlinked directories.
		FollowSymlinks bool `mapstructure:"follow_symlinks"`
	}

	// SearchConfig controls matching and ranking.
	SearchConfig struct {
		// MinScore drops fuzzy matches scoring below the floor.
		MinScore int `mapstructure:"min_score"`
		// CaseMode is "smart_case", "case_sensitive", or
		// "case_insensitive" (short forms without "case" also accepted).
		CaseMode string `mapstructure:"case_mode"`
		// ContextEnabled adds the directory-proximity ranking bonus.
		ContextEnabled bool `mapstructure:"context_enabled"`
	}

	// RunnerConfig controls runbook execution.
	RunnerConfig struct {
		// Runtime selects the execution runtime ("native" or "virtual").
		Runtime string `mapstructure:"runtime"`
	}
)

// Default returns the built-in configuration.
func Default() Config {
	scanDefaults := scan.DefaultConfig()
	return Config{
		Scanner: ScannerConfig{
			Exclusions:     scanDefaults.Exclusions,
			MaxDepth:       scanDefaults.MaxDepth,
			Recursive:      scanDefaults.Recursive,
			FollowSymlinks: scanDefaults.FollowSymlinks,
		},
		Search: SearchConfig{
			MinScore:       0,
			CaseMode:       string(scan.SmartCase),
			ContextEnabled: true,
		},
		Runner: RunnerConfig{
			Runtime: string(rt.TypeNative),
		},
	}
}

// Dir returns the palrun configuration directory using platform
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application
// Support, and Linux/others use $XDG_CONFIG_HOME (defaulting to
// ~/.config).
func Dir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// PluginDir returns the directory holding plugin scanner manifests.
func PluginDir() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "plugins"), nil
}

// Load reads the configuration file from the config directory, applying
// defaults and PALRUN_* environment overrides. A missing file yields the
// defaults.
func Load() (Config, error) {
	dir, err := Dir()
	if err != nil {
		return Config{}, err
	}
	return LoadFrom(dir)
}

// LoadFrom reads the configuration from a specific directory.
func LoadFrom(dir string) (Config, error) {
	v := viper.New()
	v.SetConfigName(ConfigFileName)
	v.SetConfigType(ConfigFileExt)
	v.AddConfigPath(dir)

	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := Default()
	v.SetDefault("scanner.enabled", defaults.Scanner.Enabled)
	v.SetDefault("scanner.exclusions", defaults.Scanner.Exclusions)
	v.SetDefault("scanner.max_depth", defaults.Scanner.MaxDepth)
	v.SetDefault("scanner.recursive", defaults.Scanner.Recursive)
	v.SetDefault("scanner.follow_symlinks", defaults.Scanner.FollowSymlinks)
	v.SetDefault("search.min_score", defaults.Search.MinScore)
	v.SetDefault("search.case_mode", defaults.Search.CaseMode)
	v.SetDefault("search.context_enabled", defaults.Search.ContextEnabled)
	v.SetDefault("runner.runtime", defaults.Runner.Runtime)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// ScanConfig converts the loaded configuration to walker settings.
func (c Config) ScanConfig() scan.Config {
	return scan.Config{
		Exclusions:     c.Scanner.Exclusions,
		MaxDepth:       c.Scanner.MaxDepth,
		Recursive:      c.Scanner.Recursive,
		FollowSymlinks: c.Scanner.FollowSymlinks,
		MinScore:       c.Search.MinScore,
		CaseMode:       scan.ParseCaseMode(c.Search.CaseMode),
	}
}

// RuntimeType returns the configured runtime type.
func (c Config) RuntimeType() rt.Type {
	return rt.Type(c.Runner.Runtime)
}
