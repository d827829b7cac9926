// ABOUTME: Decoder settings loaded from ~/.pi-go/keys.yaml with environment overrides
// ABOUTME: PI_KEYS_KITTY and PI_KEYS_LOG take precedence over the file

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	envKitty    = "PI_KEYS_KITTY"
	envLogLevel = "PI_KEYS_LOG"
)

// Settings holds the decoder configuration.
type Settings struct {
	// KittyProtocol requests the Kitty keyboard protocol on startup.
	KittyProtocol bool `yaml:"kitty_protocol"`
	// KittyFlags is the progressive enhancement bitmask pushed with CSI > flags u.
	KittyFlags int `yaml:"kitty_flags"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() Settings {
	return Settings{
		KittyProtocol: true,
		KittyFlags:    1,
		LogLevel:      "info",
	}
}

// LoadSettings reads path over the defaults and then applies environment
// overrides. A missing file is not an error.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return s, fmt.Errorf("loading settings: %w", err)
	default:
		if err := yaml.Unmarshal(data, &s); err != nil {
			return s, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	if err := applyEnv(&s, os.LookupEnv); err != nil {
		return s, err
	}
	return s, nil
}

func applyEnv(s *Settings, lookup func(string) (string, bool)) error {
	if v, ok := lookup(envKitty); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envKitty, err)
		}
		s.KittyProtocol = b
	}
	if v, ok := lookup(envLogLevel); ok && v != "" {
		s.LogLevel = v
	}
	return nil
}
