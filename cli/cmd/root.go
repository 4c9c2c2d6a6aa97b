package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xenago/libnss-shim/cli/config"
	daemonconfig "github.com/xenago/libnss-shim/daemon/config"
	"github.com/xenago/libnss-shim/daemon/logging"
)

var rootCmd = &cobra.Command{
	Use:     config.CLIName,
	Short:   "Inspect and exercise the NSS command shim",
	Version: config.CLIVersion,
	Long: `nss-shim runs the same lookups the NSS shim performs for group, passwd
and shadow queries, validates the command configuration and reports the
state of the shim daemon.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(viper.GetBool("verbose"))
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", daemonconfig.ConfigPath, "Path to the shim configuration file")
	rootCmd.PersistentFlags().String("socket", daemonconfig.SocketPath, "Path to the shim daemon socket")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Print diagnostic output to stderr")

	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("socket", rootCmd.PersistentFlags().Lookup("socket"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func setupLogging(verbose bool) {
	logging.SetOutput(os.Stderr)
	if verbose {
		logging.SetGlobalLogLevel(logging.LogLevelDebug)
	} else {
		logging.SetGlobalLogLevel(logging.LogLevelWarn)
	}
}

// exitError carries a specific process exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return config.ExitSuccess
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	return config.ExitUsage
}
