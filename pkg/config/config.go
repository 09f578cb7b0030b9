// Package config loads the daemon configuration from a YAML file in the XDG
// config directory.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"codeberg.org/miketth/xkbridge/pkg/xkblayouts"
	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const appName = "xkbridge"

type StoreKind string

const (
	StoreMemory StoreKind = "memory"
	StoreJSON   StoreKind = "json"
	StoreSQLite StoreKind = "sqlite"
)

var ErrUnknownStore = errors.New("unknown store kind")

type Config struct {
	// Display overrides $DISPLAY.
	Display      string    `yaml:"display"`
	EvdevXMLPath string    `yaml:"evdev_xml_path"`
	Store        StoreKind `yaml:"store"`
	StateDir     string    `yaml:"state_dir"`
	RestoreGroup bool      `yaml:"restore_group"`
	DBus         bool      `yaml:"dbus"`
	// Scripts are Lua files run once the bridge is up.
	Scripts []string `yaml:"scripts"`
}

func Default() Config {
	return Config{
		EvdevXMLPath: xkblayouts.DefaultPath,
		Store:        StoreSQLite,
		StateDir:     filepath.Join(xdg.StateHome, appName),
	}
}

// DefaultPath is where Load looks when no path is given.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreJSON, StoreSQLite:
		return nil
	}
	return fmt.Errorf("store %q: %w", c.Store, ErrUnknownStore)
}

// StatePath returns name inside the state directory, creating the directory
// if needed.
func (c Config) StatePath(name string) (string, error) {
	if err := os.MkdirAll(c.StateDir, 0755); err != nil {
		return "", fmt.Errorf("create state dir: %w", err)
	}
	return filepath.Join(c.StateDir, name), nil
}
