package main

import (
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

type Config struct {
	// Local UDP port the autopilot sends heartbeats to.
	TelemetryPort int `toml:"telemetry_port"`

	RelayHost string `toml:"relay_host"`
	RelayPort int    `toml:"relay_port"`

	LogLevel string `toml:"log_level"`
	// LogFile enables rotating file output in addition to stdout when set.
	LogFile string `toml:"log_file"`
}

func defaultConfig() Config {
	return Config{
		TelemetryPort: 14550,
		RelayHost:     "192.168.2.2",
		RelayPort:     60000,
		LogLevel:      "info",
	}
}

func loadConfig(configReader io.Reader) (Config, error) {
	config := defaultConfig()
	configData, err := io.ReadAll(configReader)
	if err != nil {
		return config, errors.Wrap(err, "unable to read config reader")
	}
	if _, err := toml.Decode(string(configData), &config); err != nil {
		return config, errors.Wrap(err, "unable to load console configuration")
	}
	return config, nil
}

// loadConfigFile reads the config file, falling back to defaults when the
// file does not exist.
func loadConfigFile(fileName string) (Config, error) {
	file, err := os.Open(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return defaultConfig(), errors.Wrapf(err, "unable to open file %s", fileName)
	}
	defer file.Close()
	return loadConfig(file)
}
