package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/xenago/libnss-shim/daemon/config"
	"github.com/xenago/libnss-shim/daemon/logging"
	"github.com/xenago/libnss-shim/daemon/providers"
	"github.com/xenago/libnss-shim/daemon/socket"
)

var mainLog = logging.NewLogger("main")

func main() {
	if err := logging.SetupDefaultLogging(); err != nil {
		mainLog.Warn("Continuing with stdout logging: %v", err)
	}

	if level := config.Getenv(config.LogLevelEnv, ""); level != "" {
		if !logging.SetGlobalLogLevelFromString(level) {
			mainLog.Warn("Unknown log level %q, keeping %s", level, "info")
		}
	}

	configPath := config.Getenv(config.ConfigPathEnv, config.ConfigPath)
	socketPath := config.Getenv(config.SocketPathEnv, config.SocketPath)

	provider := providers.InitializeProvider(configPath)
	server := socket.NewServer(socketPath, socket.NewHandler(provider, configPath))
	if err := server.Start(); err != nil {
		mainLog.Fatal("Failed to start server: %v", err)
	}

	mainLog.Info("NSS shim daemon listening on %s (config %s)", socketPath, configPath)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		mainLog.Info("Received %v, shutting down", sig)
	case <-server.Dead():
		mainLog.Error("Server stopped unexpectedly: %v", server.Err())
	}

	if err := server.Stop(); err != nil {
		mainLog.Error("Error while stopping server: %v", err)
		os.Exit(1)
	}
	mainLog.Info("Shutdown complete")
}
