// Package config loads the um7d daemon configuration from TOML.
package config

import (
	"fmt"
	"os"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// DefaultConfigPath is where um7d looks when no --config flag is given.
const DefaultConfigPath = "um7d.toml"

// Config is the full daemon configuration.
type Config struct {
	Device DeviceConfig `toml:"device"`
	Serve  ServeConfig  `toml:"serve"`
}

// DeviceConfig describes how to reach the sensor.
type DeviceConfig struct {
	Port      string `toml:"port"`
	Baud      int    `toml:"baud"`
	TimeoutMS int    `toml:"timeout_ms"`
}

// Timeout returns the register transaction wait budget.
func (d DeviceConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutMS) * time.Millisecond
}

// ServeConfig describes the broadcast sinks.
type ServeConfig struct {
	JSONLPath string `toml:"jsonl,omitempty"`
	WSAddr    string `toml:"ws_addr,omitempty"`
	MQTTURL   string `toml:"mqtt_url,omitempty"`
	MQTTTopic string `toml:"mqtt_topic,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Device: DeviceConfig{
			Port:      "/dev/ttyUSB0",
			Baud:      115200,
			TimeoutMS: 500,
		},
		Serve: ServeConfig{
			MQTTTopic: "um7",
		},
	}
}

// Load reads and validates a configuration file.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault reads path if it exists, otherwise returns defaults. The
// second result reports whether a file was found.
func LoadOrDefault(path string) (Config, bool, error) {
	if path == "" {
		path = DefaultConfigPath
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), false, nil
	}
	cfg, err := Load(path)
	if err != nil {
		return Config{}, true, err
	}
	return cfg, true, nil
}

func (c Config) validate() error {
	if c.Device.Port == "" {
		return fmt.Errorf("device.port must not be empty")
	}
	if c.Device.Baud <= 0 {
		return fmt.Errorf("device.baud must be positive, got %d", c.Device.Baud)
	}
	if c.Device.TimeoutMS <= 0 {
		return fmt.Errorf("device.timeout_ms must be positive, got %d", c.Device.TimeoutMS)
	}
	return nil
}
