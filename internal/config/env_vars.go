package config

import (
	"os"
	"path/filepath"
	"strconv"
)

const (
	appNameVar      = "APP_NAME"
	apiBaseURLVar   = "API_BASE_URL"
	sessionFileVar  = "SESSION_FILE"
	metricsAddrVar  = "METRICS_ADDR"
	requestRateVar  = "REQUEST_RATE"
	requestBurstVar = "REQUEST_BURST"
)

type EnvVars struct {
	file fileConfig
}

var _ EnvConfig = EnvVars{}
var _ TransportConfig = EnvVars{}

func (e EnvVars) GetAppName() string {
	return GetEnv(appNameVar, e.file.orDefault(e.file.AppName, "Gym Console"))
}

func (e EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

// GetAPIBaseURL returns the REST backend root, e.g.
// "http://localhost:8000/api".
func (e EnvVars) GetAPIBaseURL() string {
	return GetEnv(apiBaseURLVar, e.file.orDefault(e.file.APIBaseURL, "http://localhost:8000/api"))
}

// GetSessionFile is where the single persisted session record lives.
func (e EnvVars) GetSessionFile() string {
	if v := GetEnv(sessionFileVar, e.file.SessionFile); v != "" {
		return v
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ".gym-console-session.json"
	}
	return filepath.Join(configDir, "gym-console", "session.json")
}

// GetMetricsAddr enables the /metrics listener when non-empty.
func (e EnvVars) GetMetricsAddr() string {
	return GetEnv(metricsAddrVar, e.file.MetricsAddr)
}

// GetRequestRate paces outbound API requests per second; 0 disables pacing.
func (e EnvVars) GetRequestRate() float64 {
	raw := GetEnv(requestRateVar, "")
	if raw == "" {
		return e.file.RequestRate
	}
	rate, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return rate
}

func (e EnvVars) GetRequestBurst() int {
	raw := GetEnv(requestBurstVar, "")
	if raw == "" {
		if e.file.RequestBurst > 0 {
			return e.file.RequestBurst
		}
		return 1
	}
	burst, err := strconv.Atoi(raw)
	if err != nil || burst < 1 {
		return 1
	}
	return burst
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
