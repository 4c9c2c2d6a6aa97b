package providers

import (
	"context"
	"strconv"

	"github.com/google/uuid"

	"github.com/xenago/libnss-shim/daemon/config"
	"github.com/xenago/libnss-shim/daemon/logging"
)

// CommandProvider answers lookups by running the commands configured in
// the file at ConfigPath. The configuration is read again for every
// query, so edits take effect without a restart and no state is shared
// between queries.
type CommandProvider struct {
	ConfigPath string
	Runner     Runner
}

// Command provider logger
var commandLog = logging.NewLogger("command-provider")

func NewCommandProvider(configPath string) *CommandProvider {
	return &CommandProvider{
		ConfigPath: configPath,
		Runner:     ExecRunner{},
	}
}

// query is the state of one lookup.
type query struct {
	database string
	function string
	log      *logging.Logger
}

func (q *query) fail(err error) error {
	q.log.Debug("%s %s failed: %v", q.database, q.function, err)
	return err
}

// run loads the configuration, resolves and runs the command for
// database/function with value substituted, and classifies its output.
func (cp *CommandProvider) run(ctx context.Context, database, function, value string) (*query, *Response, error) {
	q := &query{
		database: database,
		function: function,
		log:      commandLog.WithRequestID(uuid.NewString()),
	}

	cfg, err := LoadConfig(cp.ConfigPath)
	if err != nil {
		return q, nil, q.fail(err)
	}
	q.log = q.log.WithDebug(cfg.Debug)

	spec, err := Resolve(cfg, database, function)
	if err != nil {
		return q, nil, q.fail(err)
	}
	spec = spec.Substitute(config.PlaceholderFor(function), value)
	q.log.Debug("Running %q for %s %s", spec.Argv, database, function)

	out, err := cp.Runner.Run(logging.NewContext(ctx, q.log), spec)
	if err != nil {
		return q, nil, q.fail(err)
	}
	q.log.Trace("Command output: %s", out)

	resp, err := ParseResponse(out)
	if err != nil {
		if function == config.FunctionGetAllEntries && StatusOf(err) == StatusNotFound {
			err = tryAgain("no %s entries returned: %v", database, err)
		}
		return q, nil, q.fail(err)
	}
	return q, resp, nil
}

func queryAll[T any](ctx context.Context, cp *CommandProvider, c codec[T]) ([]*T, error) {
	q, resp, err := cp.run(ctx, c.database, config.FunctionGetAllEntries, "")
	if err != nil {
		return nil, err
	}
	recs, err := c.all(resp)
	if err != nil {
		return nil, q.fail(err)
	}
	q.log.Debug("Returned %d %s entries", len(recs), c.database)
	return recs, nil
}

func queryOne[T any](ctx context.Context, cp *CommandProvider, c codec[T], function, value string, m matcher[T]) (*T, error) {
	q, resp, err := cp.run(ctx, c.database, function, value)
	if err != nil {
		return nil, err
	}
	rec, err := c.one(resp, m)
	if err != nil {
		return nil, q.fail(err)
	}
	return rec, nil
}

func (cp *CommandProvider) ListGroups(ctx context.Context) ([]*Group, error) {
	return queryAll(ctx, cp, groupCodec)
}

func (cp *CommandProvider) GetGroupByGID(ctx context.Context, gid uint32) (*Group, error) {
	return queryOne(ctx, cp, groupCodec, config.FunctionGetEntryByGID, strconv.FormatUint(uint64(gid), 10),
		byID(config.DatabaseGroup, "gid", gid, groupGID))
}

func (cp *CommandProvider) GetGroup(ctx context.Context, groupname string) (*Group, error) {
	return queryOne(ctx, cp, groupCodec, config.FunctionGetEntryByName, groupname,
		byName(config.DatabaseGroup, groupname, groupName))
}

func (cp *CommandProvider) ListUsers(ctx context.Context) ([]*User, error) {
	return queryAll(ctx, cp, passwdCodec)
}

func (cp *CommandProvider) GetUserByUID(ctx context.Context, uid uint32) (*User, error) {
	return queryOne(ctx, cp, passwdCodec, config.FunctionGetEntryByUID, strconv.FormatUint(uint64(uid), 10),
		byID(config.DatabasePasswd, "uid", uid, userUID))
}

func (cp *CommandProvider) GetUser(ctx context.Context, username string) (*User, error) {
	return queryOne(ctx, cp, passwdCodec, config.FunctionGetEntryByName, username,
		byName(config.DatabasePasswd, username, userName))
}

func (cp *CommandProvider) ListShadows(ctx context.Context) ([]*Shadow, error) {
	return queryAll(ctx, cp, shadowCodec)
}

func (cp *CommandProvider) GetShadow(ctx context.Context, username string) (*Shadow, error) {
	return queryOne(ctx, cp, shadowCodec, config.FunctionGetEntryByName, username,
		byName(config.DatabaseShadow, username, shadowName))
}
