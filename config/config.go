// Package config loads the bus and logging settings of ledwalk from YAML.
//
// The animation itself (strip length, period, palette) is fixed at build time
// and has no entry here.
package config

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/coreman2200/ledwalk/spi"
)

type SPI struct {
	Port string `yaml:"port"` // spireg name, e.g. "/dev/spidev0.0"; empty picks the first port
}

type Log struct {
	Level string `yaml:"level"` // zerolog level name
}

type Config struct {
	Driver spi.Driver `yaml:"driver"` // "ws2812" | "nrzled" | "sim"
	SPI    SPI        `yaml:"spi,omitempty"`
	Log    Log        `yaml:"log"`
}

func Default() *Config {
	return &Config{
		Driver: spi.WS2812,
		Log:    Log{Level: zerolog.InfoLevel.String()},
	}
}

// Load reads path over the defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

func (c *Config) Validate() error {
	if !c.Driver.Valid() {
		return fmt.Errorf("unknown driver %q (want one of %v)", c.Driver, spi.Drivers())
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses Log.Level, info when empty.
func (c *Config) Level() (zerolog.Level, error) {
	if c.Log.Level == "" {
		return zerolog.InfoLevel, nil
	}
	l, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log level: %w", err)
	}
	return l, nil
}
