package providers

import (
	"os"

	"github.com/xenago/libnss-shim/daemon/logging"
)

var factoryLog = logging.NewLogger("factory")

// InitializeProvider returns the provider serving lookups from the
// configuration at configPath. It cannot fail: every query reads the file
// afresh, so a missing or broken file is only warned about here and the
// queries report it until it is fixed.
func InitializeProvider(configPath string) DataProvider {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		factoryLog.Warn("Config file not found at %s, lookups will be unavailable until it exists", configPath)
		return NewCommandProvider(configPath)
	}

	if _, err := LoadConfig(configPath); err != nil {
		factoryLog.Warn("Config file %s is not usable yet: %v", configPath, err)
	}

	factoryLog.Info("Data provider initialized: command (config %s)", configPath)
	return NewCommandProvider(configPath)
}
