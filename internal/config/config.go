package config

type Config interface {
	EnvConfig
	TransportConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetSessionFile() string
	GetMetricsAddr() string
}

type TransportConfig interface {
	GetAPIBaseURL() string
	GetRequestRate() float64
	GetRequestBurst() int
}

type mainConfig struct {
	EnvVars
}

// New builds the runtime configuration: YAML file values (when
// CONSOLE_CONFIG points at one) overridden by environment variables.
func New() Config {
	return mainConfig{EnvVars{file: loadFileConfig()}}
}
