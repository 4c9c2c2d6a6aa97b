package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	daemonconfig "github.com/xenago/libnss-shim/daemon/config"
	"github.com/xenago/libnss-shim/daemon/providers"
)

var checkConfigCmd = &cobra.Command{
	Use:   "check-config",
	Short: "Validate the configuration and show the resolved commands",
	Long: `Load the shim configuration and resolve every function of every
configured database, printing the argument vector, environment and working
directory each lookup would use. Placeholders are shown unsubstituted.

Exits non-zero if the document cannot be loaded or any configured
function cannot be resolved.`,
	Args: cobra.NoArgs,
	RunE: runCheckConfig,
}

func init() {
	rootCmd.AddCommand(checkConfigCmd)
}

// functionCheck is the outcome of resolving one (database, function) pair.
type functionCheck struct {
	Database string
	Function string
	Spec     *providers.CommandSpec
	Err      error
}

func runCheckConfig(cmd *cobra.Command, args []string) error {
	configPath := viper.GetString("config")

	cfg, err := providers.LoadConfig(configPath)
	if err != nil {
		return &exitError{code: exitCodeFor(providers.StatusOf(err)), err: fmt.Errorf("failed to load %s: %w", configPath, err)}
	}

	checks := checkFunctions(cfg)
	broken := printChecks(os.Stdout, configPath, cfg, checks)
	if broken > 0 {
		return &exitError{
			code: exitCodeFor(providers.StatusUnavailable),
			err:  fmt.Errorf("%d function(s) cannot be resolved", broken),
		}
	}
	return nil
}

// checkFunctions resolves every configured function of every database.
// Databases that are not configured are skipped, and a database without
// a usable functions object yields a single failed check.
func checkFunctions(cfg *providers.Config) []functionCheck {
	var checks []functionCheck
	for _, database := range daemonconfig.Databases {
		configured := cfg.FunctionsOf(database)
		for _, function := range daemonconfig.Functions[database] {
			if configured != nil && !configured[function] {
				continue
			}
			spec, err := providers.Resolve(cfg, database, function)
			if providers.StatusOf(err) == providers.StatusNotFound {
				break
			}
			checks = append(checks, functionCheck{
				Database: database,
				Function: function,
				Spec:     spec,
				Err:      err,
			})
			if configured == nil {
				break
			}
		}
	}
	return checks
}

func printChecks(w io.Writer, configPath string, cfg *providers.Config, checks []functionCheck) int {
	fmt.Fprintf(w, "Configuration: %s (debug: %t)\n", configPath, cfg.Debug)
	if len(checks) == 0 {
		fmt.Fprintln(w, "No databases configured")
		return 0
	}

	broken := 0
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATABASE\tFUNCTION\tCOMMAND\tENV\tWORKDIR")
	for _, check := range checks {
		if check.Err != nil {
			broken++
			fmt.Fprintf(tw, "%s\t%s\tERROR: %v\t\t\n", check.Database, check.Function, check.Err)
			continue
		}
		var env []string
		for k, v := range check.Spec.Env {
			env = append(env, k+"="+v)
		}
		sort.Strings(env)
		fmt.Fprintf(tw, "%s\t%s\t%q\t%s\t%s\n",
			check.Database, check.Function, check.Spec.Argv, strings.Join(env, " "), check.Spec.Workdir)
	}
	tw.Flush()
	return broken
}
