// Package config provides configuration helpers for form-factor commands.
package config

import (
	"os"
	"strconv"
)

// Default server configuration.
const (
	DefaultPort       = "8090"
	DefaultMQTTBroker = ""
	DefaultMQTTTopic  = "formfactor/coaching"
)

// Port returns the dashboard port from FF_PORT or the default.
func Port() string {
	if p := os.Getenv("FF_PORT"); p != "" {
		return p
	}
	return DefaultPort
}

// MQTTBroker returns the MQTT broker URL from FF_MQTT_BROKER.
// Empty means MQTT telemetry is disabled.
func MQTTBroker() string {
	if b := os.Getenv("FF_MQTT_BROKER"); b != "" {
		return b
	}
	return DefaultMQTTBroker
}

// MQTTTopic returns the MQTT topic from FF_MQTT_TOPIC or the default.
func MQTTTopic() string {
	if t := os.Getenv("FF_MQTT_TOPIC"); t != "" {
		return t
	}
	return DefaultMQTTTopic
}

// HistoryPath returns the set-history file path from FF_HISTORY_PATH.
// Empty means history is kept in memory only.
func HistoryPath() string {
	return os.Getenv("FF_HISTORY_PATH")
}

// LogLevel returns the log level from FF_LOG_LEVEL or "info".
func LogLevel() string {
	if l := os.Getenv("FF_LOG_LEVEL"); l != "" {
		return l
	}
	return "info"
}

// FloatEnv returns a float64 from the named env var or the fallback.
func FloatEnv(name string, fallback float64) float64 {
	if v := os.Getenv(name); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
