package providers

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xenago/libnss-shim/daemon/logging"
)

// Runner runs a resolved command and returns its trimmed standard output.
type Runner interface {
	Run(ctx context.Context, cmd *CommandSpec) (string, error)
}

// ExecRunner runs commands as local subprocesses. No timeout is applied
// unless ctx carries one.
type ExecRunner struct{}

// waitDelay bounds how long Run waits for output pipes once ctx is done.
const waitDelay = 5 * time.Second

// Executor logger
var execLog = logging.NewLogger("executor")

func (ExecRunner) Run(ctx context.Context, spec *CommandSpec) (string, error) {
	if len(spec.Argv) == 0 {
		return "", unavailable("no command to run")
	}

	cmd := exec.CommandContext(ctx, spec.Argv[0], spec.Argv[1:]...)
	cmd.Env = os.Environ()
	for _, key := range sortedKeys(spec.Env) {
		cmd.Env = append(cmd.Env, key+"="+spec.Env[key])
	}
	if spec.Workdir != "" {
		cmd.Dir = spec.Workdir
	}
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return "", tryAgain("runtime error for command %s: %w", spec.Argv[0], err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", tryAgain("command %s interrupted: %w", spec.Argv[0], ctxErr)
		}
		logging.FromContext(ctx, execLog).Debug("Command %s exited with %v, parsing output anyway: %s",
			spec.Argv[0], err, strings.TrimSpace(stderr.String()))
	}

	out := stdout.Bytes()
	if !utf8.Valid(out) {
		return "", tryAgain("unable to capture output from command %s as text", spec.Argv[0])
	}
	return strings.TrimSpace(string(out)), nil
}
