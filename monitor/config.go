package monitor

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"
)

// Environment variables overriding the built-in defaults.
const (
	EnvPort = "SERIALMON_PORT"
	EnvBaud = "SERIALMON_BAUD"
)

// Config defines the configurations of the reader.
type Config struct {
	PortName      string
	BaudRate      int
	ReadTimeout   time.Duration
	SettleDelay   time.Duration
	SkipMalformed bool
	MaxLineLen    int
}

var defaultConfig = Config{
	BaudRate:    DefaultBaudRate,
	ReadTimeout: 2 * time.Second,
	SettleDelay: 2 * time.Second,
	MaxLineLen:  64 * 1024,
}

// LoadEnv applies the environment overrides to the default config.
func LoadEnv() error {
	if val := os.Getenv(EnvPort); val != "" {
		defaultConfig.PortName = val
	}
	if val := os.Getenv(EnvBaud); val != "" {
		baud, err := parseBaudRate(val)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvBaud, err)
		}
		defaultConfig.BaudRate = baud
	}
	return nil
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.PortName, "port", defaultConfig.PortName, "Serial port, empty for auto detection.")
	flag.IntVar(&defaultConfig.BaudRate, "baud", defaultConfig.BaudRate, "Baud rate, must match the device.")
	flag.DurationVar(&defaultConfig.ReadTimeout, "timeout", defaultConfig.ReadTimeout, "Read timeout.")
	flag.DurationVar(&defaultConfig.SettleDelay, "settle", defaultConfig.SettleDelay, "Delay after opening the port before reading.")
	flag.BoolVar(&defaultConfig.SkipMalformed, "skip-malformed", defaultConfig.SkipMalformed, "Skip lines which are not valid UTF-8 instead of stopping.")
	flag.IntVar(&defaultConfig.MaxLineLen, "max-line", defaultConfig.MaxLineLen, "Maximum line length in bytes.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Validate checks the config values.
func (c *Config) Validate() error {
	switch {
	case c.BaudRate <= 0:
		return fmt.Errorf("invalid baud rate %d", c.BaudRate)
	case c.ReadTimeout <= 0:
		return fmt.Errorf("invalid read timeout %s", c.ReadTimeout)
	case c.SettleDelay < 0:
		return fmt.Errorf("invalid settle delay %s", c.SettleDelay)
	case c.MaxLineLen <= 0:
		return fmt.Errorf("invalid maximum line length %d", c.MaxLineLen)
	case c.PortName == "":
		return errors.New("no port configured")
	}
	return nil
}
