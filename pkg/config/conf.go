package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mchmarny/bendable/pkg/score"
	"gopkg.in/yaml.v3"
)

const (
	configFileName = "config.yaml"
	dirMode        = 0700
	fileMode       = 0600

	DefaultProfileName = "default"
	DriverSQLite       = "sqlite"
	DriverPostgres     = "postgres"
)

// ErrProfileNotFound is returned for a profile name missing from the config.
var ErrProfileNotFound = errors.New("score profile not found")

// Config represents app config object.
type Config struct {
	LogLevel       string                       `yaml:"log_level"`
	DefaultProfile string                       `yaml:"default_profile"`
	Profiles       map[string]*score.Definition `yaml:"profiles"`
	Store          Store                        `yaml:"store"`
}

// Store selects the score history database.
type Store struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn,omitempty"`
}

func getDefaultConfig() *Config {
	return &Config{
		LogLevel:       "info",
		DefaultProfile: DefaultProfileName,
		Profiles: map[string]*score.Definition{
			DefaultProfileName: {HardLevels: 1, SoftLevels: 1},
		},
		Store: Store{Driver: DriverSQLite},
	}
}

// Validate checks the profiles and the store driver.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config required")
	}
	for name, p := range c.Profiles {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("profile %s: %w", name, err)
		}
	}
	if c.DefaultProfile != "" {
		if _, ok := c.Profiles[c.DefaultProfile]; !ok {
			return fmt.Errorf("default %w: %s", ErrProfileNotFound, c.DefaultProfile)
		}
	}
	switch c.Store.Driver {
	case "", DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported store driver: %s", c.Store.Driver)
	}
	return nil
}

// Profile returns the score definition by name, or the default one when name is empty.
func (c *Config) Profile(name string) (*score.Definition, error) {
	if name == "" {
		name = c.DefaultProfile
	}
	p, ok := c.Profiles[name]
	if !ok || p == nil {
		return nil, fmt.Errorf("%w: %s (available: %s)", ErrProfileNotFound, name, strings.Join(c.ProfileNames(), ", "))
	}
	return p, nil
}

// ProfileNames returns the sorted profile names.
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for n := range c.Profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func Save(dirPath string, c *Config) error {
	if dirPath == "" {
		return errors.New("config directory required")
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	path := filepath.Join(dirPath, configFileName)
	if err := os.WriteFile(path, b, fileMode); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}

// ReadOrCreate reads app config from directory or creates a new one.
func ReadOrCreate(dirPath string) (*Config, error) {
	if dirPath == "" {
		return nil, errors.New("config directory required")
	}

	if _, err := os.Stat(dirPath); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(dirPath, dirMode); err != nil {
			return nil, fmt.Errorf("failed to create dir %s: %w", dirPath, err)
		}
	}

	path := filepath.Join(dirPath, configFileName)

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		slog.Debug("creating default config", "path", path)
		if err := Save(dirPath, getDefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("error unmarshalling config file %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &c, nil
}

// GetOrCreateHomeDir returns the home directory for the current user.
// The create flag is set to true if the directory was created.
func GetOrCreateHomeDir(name string) (path string, created bool, err error) {
	if name == "" {
		return "", false, errors.New("name cannot be empty")
	}

	if !strings.HasPrefix(name, ".") {
		name = "." + name
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", false, fmt.Errorf("failed to get user home dir: %w", err)
	}
	slog.Debug("home dir", "path", home)

	dir := filepath.Join(home, name)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		slog.Debug("creating dir", "path", dir)
		if err := os.Mkdir(dir, dirMode); err != nil {
			return "", false, fmt.Errorf("failed to create dir %s: %w", dir, err)
		}
		created = true
	}
	return dir, created, nil
}
