package config

import "os"

// File paths used throughout the shim daemon
const (
	// Socket path for daemon communication
	SocketPath = "/run/libnss_shim.sock"

	// Query configuration document
	ConfigPath = "/etc/libnss_shim/config.json"

	// Log file path
	LogPath = "/var/log/libnss_shim.log"
)

// Environment variables overriding the defaults above
const (
	SocketPathEnv = "NSS_SHIM_SOCKET"
	ConfigPathEnv = "NSS_SHIM_CONFIG"
	LogPathEnv    = "NSS_SHIM_LOG"
	LogLevelEnv   = "NSS_SHIM_LOG_LEVEL"
)

// Getenv returns the value of key, or def when it is unset or empty.
func Getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
