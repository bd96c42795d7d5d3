package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	require.Equal(t, DefaultBaudRate, cfg.BaudRate)
	require.Equal(t, 2*time.Second, cfg.ReadTimeout)
	require.Equal(t, 2*time.Second, cfg.SettleDelay)
	require.False(t, cfg.SkipMalformed)

	cfg.BaudRate = 9600
	require.Equal(t, DefaultBaudRate, Default().BaudRate)
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		cfg := NewConfig()
		cfg.PortName = "COM3"
		return cfg
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"Baud", func(c *Config) { c.BaudRate = 0 }},
		{"Timeout", func(c *Config) { c.ReadTimeout = 0 }},
		{"Settle", func(c *Config) { c.SettleDelay = -time.Second }},
		{"MaxLine", func(c *Config) { c.MaxLineLen = 0 }},
		{"Port", func(c *Config) { c.PortName = "" }},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := valid()
			test.modify(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestLoadEnv(t *testing.T) {
	saved := defaultConfig
	t.Cleanup(func() { defaultConfig = saved })

	t.Setenv(EnvPort, "/dev/ttyUSB1")
	t.Setenv(EnvBaud, "57600")
	require.NoError(t, LoadEnv())
	require.Equal(t, "/dev/ttyUSB1", NewConfig().PortName)
	require.Equal(t, 57600, NewConfig().BaudRate)

	t.Setenv(EnvBaud, "fast")
	require.ErrorContains(t, LoadEnv(), EnvBaud)
}
