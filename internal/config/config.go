package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds defaults for the yoke tools. Durations are written as Go
// duration strings in the file, e.g. lead_time = "3s".
type Config struct {
	Library     string   `toml:"library"`
	LeadTime    Duration `toml:"lead_time"`
	FrameRate   int      `toml:"frame_rate"`
	Tick        Duration `toml:"tick"`
	SungColor   string   `toml:"sung_color"`
	UnsungColor string   `toml:"unsung_color"`
}

// Duration lets TOML strings decode into time.Duration.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default is the configuration used when no file exists.
func Default(home string) *Config {
	return &Config{
		Library:     filepath.Join(home, ".config", "yoke", "library.db"),
		LeadTime:    Duration{3 * time.Second},
		FrameRate:   12,
		Tick:        Duration{50 * time.Millisecond},
		SungColor:   "#FFFFFF",
		UnsungColor: "#808080",
	}
}

// Load reads ~/.config/yoke/config.toml over the defaults.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return LoadFile(filepath.Join(home, ".config", "yoke", "config.toml"), home)
}

// LoadFile reads cfgPath over the defaults. A missing file is not an error.
func LoadFile(cfgPath, home string) (*Config, error) {
	cfg := Default(home)

	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	cfg.Library = expandHome(cfg.Library, home)

	if cfg.FrameRate <= 0 {
		return nil, fmt.Errorf("parse config %s: frame_rate must be positive", cfgPath)
	}
	if cfg.Tick.Duration <= 0 {
		return nil, fmt.Errorf("parse config %s: tick must be positive", cfgPath)
	}

	return cfg, nil
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
