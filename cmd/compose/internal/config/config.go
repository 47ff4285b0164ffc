// Package config resolves the optional compose.yaml project file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file looked up in the project root.
const FileName = "compose.yaml"

// Config represents the optional compose.yaml configuration.
type Config struct {
	App     AppConfig     `yaml:"app"`
	Log     LogConfig     `yaml:"log"`
	Engine  EngineConfig  `yaml:"engine"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// AppConfig contains application metadata.
type AppConfig struct {
	Name string `yaml:"name,omitempty"`
}

// LogConfig controls CLI logging.
type LogConfig struct {
	Level   string `yaml:"level,omitempty"`
	Verbose bool   `yaml:"verbose,omitempty"`
}

// EngineConfig contains engine settings.
type EngineConfig struct {
	SyncRebuild bool `yaml:"sync_rebuild,omitempty"`
}

// MetricsConfig controls the metrics summary printed after a replay.
type MetricsConfig struct {
	Disabled bool `yaml:"disabled,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root        string
	ModulePath  string
	AppName     string
	LogLevel    zerolog.Level
	Verbose     bool
	SyncRebuild bool
	Metrics     bool
}

// LoadOptional reads compose.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}

	return &cfg, nil
}

// Resolve loads compose.yaml (if present) and resolves defaults. A
// directory without go.mod is allowed; the app name then falls back to
// the directory name.
func Resolve(dir string) (*Resolved, error) {
	modulePath, err := modulePath(dir)
	if err != nil {
		return nil, err
	}

	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}

	appName := strings.TrimSpace(cfg.App.Name)
	if appName == "" {
		appName = defaultAppName(modulePath, dir)
	}

	level := zerolog.InfoLevel
	if name := strings.TrimSpace(cfg.Log.Level); name != "" {
		level, err = zerolog.ParseLevel(strings.ToLower(name))
		if err != nil {
			return nil, fmt.Errorf("log.level: %w", err)
		}
	}

	return &Resolved{
		Root:        dir,
		ModulePath:  modulePath,
		AppName:     appName,
		LogLevel:    level,
		Verbose:     cfg.Log.Verbose,
		SyncRebuild: cfg.Engine.SyncRebuild,
		Metrics:     !cfg.Metrics.Disabled,
	}, nil
}

// FindProjectRoot walks up from dir to the nearest directory holding
// go.mod or compose.yaml. It returns dir itself when neither is found.
func FindProjectRoot(dir string) string {
	start := dir
	for {
		for _, marker := range []string{"go.mod", FileName} {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return start
		}
		dir = parent
	}
}

func modulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("could not determine module path from go.mod")
	}
	if err := module.CheckImportPath(path); err != nil {
		return "", fmt.Errorf("go.mod: %w", err)
	}
	return path, nil
}

func defaultAppName(modulePath, dir string) string {
	base := filepath.Base(dir)
	if modulePath != "" {
		modName, _, ok := module.SplitPathVersion(modulePath)
		if ok {
			parts := strings.Split(modName, "/")
			base = parts[len(parts)-1]
		}
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "compose_app"
	}
	return base
}
