package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// InputBackend selects where key events come from
type InputBackend string

const (
	InputTerminal InputBackend = "terminal"
	InputEvdev    InputBackend = "evdev"
)

// DefaultPortName is the name of the virtual port created when nothing else
// is configured.
const DefaultPortName = "Software defined accordion"

// DisplayMode selects how note events are shown
type DisplayMode string

const (
	DisplayLines DisplayMode = "lines"
	DisplayTUI   DisplayMode = "tui"
	DisplayOff   DisplayMode = "off"
)

// Config is the main configuration structure
type Config struct {
	// PortName is the virtual output port to create. ConnectTo, when set,
	// sends to an existing port instead.
	PortName  string `json:"portName"`
	ConnectTo string `json:"connectTo,omitempty"`

	Input     InputBackend `json:"input"`
	EvdevPath string       `json:"evdevPath,omitempty"`
	Grab      bool         `json:"grab,omitempty"`

	Display DisplayMode `json:"display"`
	Palette string      `json:"palette,omitempty"`

	Debug bool `json:"debug,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		PortName: DefaultPortName,
		Input:    InputTerminal,
		Display:  DisplayLines,
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "keyaccordion"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path. Fields missing from the file keep
// their defaults.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

func (c *Config) SaveTo(path string) error {
	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	switch c.Input {
	case InputTerminal:
	case InputEvdev:
	default:
		return fmt.Errorf("unknown input backend %q (want terminal or evdev)", c.Input)
	}

	switch c.Display {
	case DisplayLines, DisplayTUI, DisplayOff:
	default:
		return fmt.Errorf("unknown display mode %q (want lines, tui or off)", c.Display)
	}

	if c.PortName == "" && c.ConnectTo == "" {
		return fmt.Errorf("no output port: set portName or connectTo")
	}
	if c.Grab && c.Input != InputEvdev {
		return fmt.Errorf("grab only applies to the evdev input")
	}

	return nil
}
