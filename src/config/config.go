package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// FileName is the optional config file looked up next to the executable
	FileName = "icons.yaml"

	// EnvFileName is the optional dotenv file looked up next to the executable
	EnvFileName = ".env"

	EnvSource = "ICONFORGE_SOURCE"
	EnvSizes  = "ICONFORGE_SIZES"
)

// Config represents the application configuration
type Config struct {
	Icons  IconsConfig  `yaml:"icons"`
	Watch  WatchConfig  `yaml:"watch"`
	Deploy DeployConfig `yaml:"deploy"`
}

type IconsConfig struct {
	Source  string        `yaml:"source"`
	Sizes   []int         `yaml:"sizes"`
	Favicon FaviconConfig `yaml:"favicon"`
}

type FaviconConfig struct {
	Enabled bool   `yaml:"enabled"`
	Size    int    `yaml:"size"`
	Name    string `yaml:"name"`
}

type WatchConfig struct {
	DebounceMS int `yaml:"debounce_ms"`
}

type DeployConfig struct {
	Targets []string `yaml:"targets"`
}

// Default returns the configuration used when no icons.yaml is present.
// It produces icon-192x192.png, icon-512x512.png and icon-1024x1024.png
// from icon.png.
func Default() *Config {
	return &Config{
		Icons: IconsConfig{
			Source: "icon.png",
			Sizes:  []int{192, 512, 1024},
			Favicon: FaviconConfig{
				Enabled: false,
				Size:    48,
				Name:    "favicon.ico",
			},
		},
		Watch: WatchConfig{
			DebounceMS: 500,
		},
	}
}

// Load reads and parses the configuration file. A missing file is not an
// error: the defaults are returned instead.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// ApplyEnv loads baseDir/.env (if any) into the process environment without
// overriding variables that are already set, then applies ICONFORGE_SOURCE
// and ICONFORGE_SIZES on top of cfg.
func ApplyEnv(cfg *Config, baseDir string) error {
	envFile := filepath.Join(baseDir, EnvFileName)
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	if source := strings.TrimSpace(os.Getenv(EnvSource)); source != "" {
		cfg.Icons.Source = source
	}

	if raw := strings.TrimSpace(os.Getenv(EnvSizes)); raw != "" {
		sizes, err := ParseSizes(raw)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvSizes, err)
		}
		cfg.Icons.Sizes = sizes
	}

	return cfg.Validate()
}

// ParseSizes parses a comma-separated list such as "192, 512,1024"
func ParseSizes(raw string) ([]int, error) {
	var sizes []int
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("size %q is not a number", field)
		}
		sizes = append(sizes, n)
	}
	if len(sizes) == 0 {
		return nil, fmt.Errorf("no sizes in %q", raw)
	}
	return sizes, nil
}

// Validate checks if required configuration fields are set
func (c *Config) Validate() error {
	if c.Icons.Source == "" {
		return fmt.Errorf("icons.source is required")
	}
	if filepath.Base(c.Icons.Source) != c.Icons.Source {
		return fmt.Errorf("icons.source must be a file name, got %q", c.Icons.Source)
	}
	if len(c.Icons.Sizes) == 0 {
		return fmt.Errorf("icons.sizes must list at least one size")
	}
	for _, size := range c.Icons.Sizes {
		if size <= 0 {
			return fmt.Errorf("icons.sizes: %d is not a positive size", size)
		}
	}
	if c.Icons.Favicon.Enabled {
		if c.Icons.Favicon.Size < 1 || c.Icons.Favicon.Size > 256 {
			return fmt.Errorf("icons.favicon.size must be between 1 and 256, got %d", c.Icons.Favicon.Size)
		}
		if c.Icons.Favicon.Name == "" {
			return fmt.Errorf("icons.favicon.name is required when the favicon is enabled")
		}
	}
	if c.Watch.DebounceMS < 0 {
		return fmt.Errorf("watch.debounce_ms cannot be negative")
	}
	return nil
}
