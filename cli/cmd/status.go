package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xenago/libnss-shim/cli/pkg/daemon"
	daemonconfig "github.com/xenago/libnss-shim/daemon/config"
	"github.com/xenago/libnss-shim/daemon/providers"
)

var (
	statusJSON  bool
	statusQuiet bool
)

type SystemStatus struct {
	Overall   string       `json:"overall"`
	Timestamp time.Time    `json:"timestamp"`
	Config    ConfigStatus `json:"config"`
	Socket    SocketStatus `json:"socket"`
}

type ConfigStatus struct {
	Path      string              `json:"path"`
	Valid     bool                `json:"valid"`
	Debug     bool                `json:"debug"`
	Databases map[string][]string `json:"databases,omitempty"`
	Error     string              `json:"error,omitempty"`
}

type SocketStatus struct {
	Path       string `json:"path"`
	Active     bool   `json:"active"`
	ConfigPath string `json:"config_path,omitempty"`
	Error      string `json:"error,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and daemon state",
	Long: `Display status information about the NSS shim:

- Whether the configuration loads, and which functions it defines
- Whether the daemon answers on its socket

Use --json for machine-readable output.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output status in JSON format")
	statusCmd.Flags().BoolVar(&statusQuiet, "quiet", false, "Only show overall status")
}

func runStatus(cmd *cobra.Command, args []string) error {
	status := collectStatus(cmd.Context(), viper.GetString("config"), viper.GetString("socket"))

	if statusJSON {
		return outputStatusJSON(os.Stdout, status)
	}
	return outputStatusHuman(os.Stdout, status)
}

func collectStatus(ctx context.Context, configPath, socketPath string) *SystemStatus {
	if ctx == nil {
		ctx = context.Background()
	}
	status := &SystemStatus{
		Timestamp: time.Now(),
		Config:    checkConfigStatus(configPath),
		Socket:    checkSocket(ctx, socketPath),
	}
	status.Overall = determineOverallStatus(status)
	return status
}

func checkConfigStatus(configPath string) ConfigStatus {
	status := ConfigStatus{Path: configPath}

	cfg, err := providers.LoadConfig(configPath)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.Valid = true
	status.Debug = cfg.Debug
	status.Databases = map[string][]string{}

	for _, check := range checkFunctions(cfg) {
		if check.Err != nil {
			status.Valid = false
			status.Error = check.Err.Error()
			continue
		}
		status.Databases[check.Database] = append(status.Databases[check.Database], check.Function)
	}
	return status
}

func checkSocket(ctx context.Context, socketPath string) SocketStatus {
	status := SocketStatus{Path: socketPath}

	client := daemon.NewSocketClient(socketPath)
	client.SetTimeout(2 * time.Second)
	resp, err := client.CheckLive(ctx)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.Active = true
	status.ConfigPath = resp.ConfigPath
	return status
}

func determineOverallStatus(status *SystemStatus) string {
	if !status.Config.Valid {
		return "misconfigured"
	}
	if !status.Socket.Active {
		return "stopped"
	}
	return "healthy"
}

func outputStatusJSON(w io.Writer, status *SystemStatus) error {
	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func outputStatusHuman(w io.Writer, status *SystemStatus) error {
	if statusQuiet {
		fmt.Fprintln(w, status.Overall)
		return nil
	}

	statusEmoji := map[string]string{
		"healthy":       "✅",
		"stopped":       "🛑",
		"misconfigured": "❌",
	}

	emoji := statusEmoji[status.Overall]
	if emoji == "" {
		emoji = "❓"
	}

	fmt.Fprintf(w, "%s NSS Shim Status: %s\n", emoji, strings.ToUpper(status.Overall))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "📄 Configuration:")
	if status.Config.Valid {
		fmt.Fprintf(w, "  ✅ %s", status.Config.Path)
		if status.Config.Debug {
			fmt.Fprintf(w, " (debug)")
		}
		fmt.Fprintln(w)
	} else {
		fmt.Fprintf(w, "  ❌ %s: %s\n", status.Config.Path, status.Config.Error)
	}
	for _, database := range daemonconfig.Databases {
		if functions, ok := status.Config.Databases[database]; ok {
			fmt.Fprintf(w, "     %s: %s\n", database, strings.Join(functions, ", "))
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "🔧 Daemon:")
	if status.Socket.Active {
		fmt.Fprintf(w, "  ✅ Socket: %s", status.Socket.Path)
		if status.Socket.ConfigPath != "" {
			fmt.Fprintf(w, " (config %s)", status.Socket.ConfigPath)
		}
		fmt.Fprintln(w)
	} else {
		fmt.Fprintf(w, "  ❌ Socket: %s\n", status.Socket.Path)
		if viper.GetBool("verbose") && status.Socket.Error != "" {
			fmt.Fprintf(w, "     %s\n", status.Socket.Error)
		}
	}

	return nil
}
