package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/xenago/libnss-shim/cli/config"
	"github.com/xenago/libnss-shim/cli/pkg/daemon"
	daemonconfig "github.com/xenago/libnss-shim/daemon/config"
	"github.com/xenago/libnss-shim/daemon/providers"
)

// Output formats accepted by --format
const (
	formatFlat = "flat"
	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	getentFormat string
	getentDaemon bool
)

var getentCmd = &cobra.Command{
	Use:   "getent <group|passwd|shadow> [key]",
	Short: "Look up entries through the configured commands",
	Long: `Run a group, passwd or shadow lookup the way the NSS shim does.

With no key every entry is listed. A numeric key looks up a group by GID or
a user by UID; any other key looks up by name. Shadow entries are always
looked up by name.

The exit code reports the lookup status: 0 success, 2 not found,
3 try again, 4 unavailable, 1 usage error.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runGetent,
}

func init() {
	rootCmd.AddCommand(getentCmd)

	getentCmd.Flags().StringVarP(&getentFormat, "format", "f", formatFlat, "Output format: flat, json or yaml")
	getentCmd.Flags().BoolVar(&getentDaemon, "daemon", false, "Query the running daemon instead of running commands directly")
}

func runGetent(cmd *cobra.Command, args []string) error {
	database := args[0]
	if _, ok := daemonconfig.Functions[database]; !ok {
		return fmt.Errorf("unknown database %q, expected one of %v", database, daemonconfig.Databases)
	}
	switch getentFormat {
	case formatFlat, formatJSON, formatYAML:
	default:
		return fmt.Errorf("unknown format %q", getentFormat)
	}

	var provider providers.DataProvider
	if getentDaemon {
		provider = daemon.NewSocketClient(viper.GetString("socket"))
	} else {
		provider = providers.NewCommandProvider(viper.GetString("config"))
	}

	var key *string
	if len(args) == 2 {
		key = &args[1]
	}

	result, err := lookup(cmd.Context(), provider, database, key)
	if err != nil {
		status := providers.StatusOf(err)
		return &exitError{code: exitCodeFor(status), err: fmt.Errorf("%s lookup: %w", database, err)}
	}

	return result.render(os.Stdout, getentFormat)
}

func exitCodeFor(status providers.Status) int {
	switch status {
	case providers.StatusSuccess:
		return config.ExitSuccess
	case providers.StatusNotFound:
		return config.ExitNotFound
	case providers.StatusUnavailable:
		return config.ExitUnavailable
	}
	return config.ExitTryAgain
}

// lookupResult holds the records of one database.
type lookupResult struct {
	groups  []*providers.Group
	users   []*providers.User
	shadows []*providers.Shadow
}

// lookup runs the query getent would make for database and key; a nil
// key lists every entry.
func lookup(ctx context.Context, p providers.DataProvider, database string, key *string) (*lookupResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var id uint32
	byID := false
	if key != nil && database != daemonconfig.DatabaseShadow {
		if n, err := strconv.ParseUint(*key, 10, 32); err == nil {
			id, byID = uint32(n), true
		}
	}

	res := &lookupResult{}
	switch database {
	case daemonconfig.DatabaseGroup:
		var g *providers.Group
		var err error
		switch {
		case key == nil:
			res.groups, err = p.ListGroups(ctx)
		case byID:
			g, err = p.GetGroupByGID(ctx, id)
		default:
			g, err = p.GetGroup(ctx, *key)
		}
		if err != nil {
			return nil, err
		}
		if g != nil {
			res.groups = []*providers.Group{g}
		}

	case daemonconfig.DatabasePasswd:
		var u *providers.User
		var err error
		switch {
		case key == nil:
			res.users, err = p.ListUsers(ctx)
		case byID:
			u, err = p.GetUserByUID(ctx, id)
		default:
			u, err = p.GetUser(ctx, *key)
		}
		if err != nil {
			return nil, err
		}
		if u != nil {
			res.users = []*providers.User{u}
		}

	case daemonconfig.DatabaseShadow:
		var s *providers.Shadow
		var err error
		if key == nil {
			res.shadows, err = p.ListShadows(ctx)
		} else {
			s, err = p.GetShadow(ctx, *key)
		}
		if err != nil {
			return nil, err
		}
		if s != nil {
			res.shadows = []*providers.Shadow{s}
		}

	default:
		return nil, fmt.Errorf("unknown database %q", database)
	}
	return res, nil
}

// flat returns one passwd(5)-style line per record.
func (r *lookupResult) flat() []string {
	var lines []string
	for _, g := range r.groups {
		lines = append(lines, providers.FormatGroup(g))
	}
	for _, u := range r.users {
		lines = append(lines, providers.FormatUser(u))
	}
	for _, s := range r.shadows {
		lines = append(lines, providers.FormatShadow(s))
	}
	return lines
}

type groupEntry struct {
	Passwd  string   `json:"passwd" yaml:"passwd"`
	GID     uint32   `json:"gid" yaml:"gid"`
	Members []string `json:"members" yaml:"members"`
}

type userEntry struct {
	Passwd string `json:"passwd" yaml:"passwd"`
	UID    uint32 `json:"uid" yaml:"uid"`
	GID    uint32 `json:"gid" yaml:"gid"`
	Gecos  string `json:"gecos" yaml:"gecos"`
	Dir    string `json:"dir" yaml:"dir"`
	Shell  string `json:"shell" yaml:"shell"`
}

// shadowEntry omits fields left at their defaults.
type shadowEntry struct {
	Passwd             string  `json:"passwd" yaml:"passwd"`
	LastChange         *int64  `json:"last_change,omitempty" yaml:"last_change,omitempty"`
	ChangeMinDays      *int64  `json:"change_min_days,omitempty" yaml:"change_min_days,omitempty"`
	ChangeMaxDays      *int64  `json:"change_max_days,omitempty" yaml:"change_max_days,omitempty"`
	ChangeWarnDays     *int64  `json:"change_warn_days,omitempty" yaml:"change_warn_days,omitempty"`
	ChangeInactiveDays *int64  `json:"change_inactive_days,omitempty" yaml:"change_inactive_days,omitempty"`
	ExpireDate         *int64  `json:"expire_date,omitempty" yaml:"expire_date,omitempty"`
	Reserved           *uint64 `json:"reserved,omitempty" yaml:"reserved,omitempty"`
}

func optional(v int64) *int64 {
	if v == -1 {
		return nil
	}
	return &v
}

// structured returns the records keyed by name, in the shape a
// structured command response uses. The first record for a name wins.
func (r *lookupResult) structured() map[string]interface{} {
	out := map[string]interface{}{}
	add := func(name string, entry interface{}) {
		if _, exists := out[name]; !exists {
			out[name] = entry
		}
	}
	for _, g := range r.groups {
		add(g.Name, groupEntry{Passwd: g.Passwd, GID: g.GID, Members: g.Members})
	}
	for _, u := range r.users {
		add(u.Name, userEntry{Passwd: u.Passwd, UID: u.UID, GID: u.GID, Gecos: u.Gecos, Dir: u.Dir, Shell: u.Shell})
	}
	for _, s := range r.shadows {
		e := shadowEntry{
			Passwd:             s.Passwd,
			LastChange:         optional(s.LastChange),
			ChangeMinDays:      optional(s.MinDays),
			ChangeMaxDays:      optional(s.MaxDays),
			ChangeWarnDays:     optional(s.WarnDays),
			ChangeInactiveDays: optional(s.InactiveDays),
			ExpireDate:         optional(s.ExpireDate),
		}
		if s.Reserved != math.MaxUint64 {
			reserved := s.Reserved
			e.Reserved = &reserved
		}
		add(s.Name, e)
	}
	return out
}

func (r *lookupResult) render(w io.Writer, format string) error {
	switch format {
	case formatJSON:
		data, err := json.MarshalIndent(r.structured(), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal entries: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r.structured()); err != nil {
			return fmt.Errorf("failed to marshal entries: %w", err)
		}
		return enc.Close()
	default:
		for _, line := range r.flat() {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil
	}
}
