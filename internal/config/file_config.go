package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the optional YAML config file. Environment variables
// always win over file values.
type fileConfig struct {
	AppName      string  `yaml:"app_name"`
	APIBaseURL   string  `yaml:"api_base_url"`
	SessionFile  string  `yaml:"session_file"`
	MetricsAddr  string  `yaml:"metrics_addr"`
	RequestRate  float64 `yaml:"request_rate"`
	RequestBurst int     `yaml:"request_burst"`
}

// loadFileConfig reads the file named by CONSOLE_CONFIG. A missing or
// unparseable file yields an empty overlay; configuration must never stop
// the console from starting.
func loadFileConfig() fileConfig {
	path := os.Getenv("CONSOLE_CONFIG")
	if path == "" {
		return fileConfig{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fileConfig{}
	}
	return fc
}

func (fc fileConfig) orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
