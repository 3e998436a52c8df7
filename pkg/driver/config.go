package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is looked up from the working directory upwards.
const ConfigFileName = "libinterp.yml"

// Config holds run defaults shared by every program started from a directory.
type Config struct {
	Path               string
	RequireDeclaration bool
	LogLevel           string
	Locale             string
	CacheDir           string
	Arguments          map[string]any
}

type configDisk struct {
	RequireDeclaration bool           `yaml:"require_declaration"`
	LogLevel           string         `yaml:"log_level"`
	Locale             string         `yaml:"locale"`
	CacheDir           string         `yaml:"cache_dir"`
	Arguments          map[string]any `yaml:"arguments"`
}

// LoadConfig parses a run configuration file.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var raw configDisk
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", abs, err)
	}
	level := strings.ToLower(strings.TrimSpace(raw.LogLevel))
	switch level {
	case "", "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("config: %s: unknown log_level %q (expected debug, info, warn or error)", abs, raw.LogLevel)
	}
	cacheDir := strings.TrimSpace(raw.CacheDir)
	if cacheDir != "" && !filepath.IsAbs(cacheDir) {
		cacheDir = filepath.Join(filepath.Dir(abs), cacheDir)
	}
	return &Config{
		Path:               abs,
		RequireDeclaration: raw.RequireDeclaration,
		LogLevel:           level,
		Locale:             strings.TrimSpace(raw.Locale),
		CacheDir:           cacheDir,
		Arguments:          normalizeArguments(raw.Arguments),
	}, nil
}

// FindConfig walks from start towards the filesystem root and returns the
// first libinterp.yml, or "" when there is none.
func FindConfig(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("config: resolve %s: %w", start, err)
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("config: stat %s: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// MergeArguments overlays program and command line arguments on the
// configured defaults. Later maps win.
func MergeArguments(layers ...map[string]any) map[string]any {
	out := map[string]any{}
	for _, layer := range layers {
		for name, value := range layer {
			out[name] = value
		}
	}
	return out
}
