package config

const (
	// CLI configuration
	CLIName    = "nss-shim"
	CLIVersion = "1.0.0"

	// EnvPrefix is the prefix of environment variables overriding flags,
	// shared with the daemon (NSS_SHIM_CONFIG, NSS_SHIM_SOCKET).
	EnvPrefix = "NSS_SHIM"
)

// Exit codes reported by getent, one per lookup status
const (
	ExitSuccess     = 0
	ExitUsage       = 1
	ExitNotFound    = 2
	ExitTryAgain    = 3
	ExitUnavailable = 4
)
