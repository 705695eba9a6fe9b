// Package git wraps the git executable for syncgit.
//
// Every invocation runs with an explicit working directory (the repository
// root) and discrete arguments; user-supplied pathspecs always follow a "--"
// terminator. Nothing here holds state beyond a single call.
package git

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	syncerrors "github.com/mrz1836/syncgit/internal/errors"
)

// CommandOutcome is the immutable result of one git invocation.
// Success is true iff the process exited with status 0.
type CommandOutcome struct {
	Success  bool
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Out returns stdout with surrounding whitespace trimmed.
func (o CommandOutcome) Out() string {
	return strings.TrimSpace(string(o.Stdout))
}

// ErrOut returns stderr with surrounding whitespace trimmed.
func (o CommandOutcome) ErrOut() string {
	return strings.TrimSpace(string(o.Stderr))
}

// Err returns nil for a successful outcome and a *CommandError otherwise.
func (o CommandOutcome) Err(args []string) error {
	if o.Success {
		return nil
	}
	return &syncerrors.CommandError{
		Command:  commandLine(args),
		Stderr:   o.ErrOut(),
		ExitCode: o.ExitCode,
	}
}

// CommandRunner executes git in a fixed working directory.
//
// Run returns an error only when the process could not be started or the
// context ended; a non-zero exit is reported through CommandOutcome.Success.
type CommandRunner interface {
	// Run executes git with args. env entries (KEY=VALUE) are added to the
	// environment of this invocation only.
	Run(ctx context.Context, env []string, args ...string) (CommandOutcome, error)

	// Dir returns the working directory every invocation uses.
	Dir() string
}

// ExecRunner runs the real git executable.
type ExecRunner struct {
	dir    string
	binary string
	logger zerolog.Logger
}

// ExecOption configures an ExecRunner.
type ExecOption func(*ExecRunner)

// WithLogger sets the logger used for per-invocation debug output.
func WithLogger(logger zerolog.Logger) ExecOption {
	return func(r *ExecRunner) {
		r.logger = logger
	}
}

// WithBinary overrides the git executable path.
func WithBinary(path string) ExecOption {
	return func(r *ExecRunner) {
		r.binary = path
	}
}

// NewExecRunner creates a runner bound to dir.
func NewExecRunner(dir string, opts ...ExecOption) *ExecRunner {
	r := &ExecRunner{
		dir:    dir,
		binary: "git",
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Dir implements CommandRunner.
func (r *ExecRunner) Dir() string {
	return r.dir
}

// Run implements CommandRunner.
func (r *ExecRunner) Run(ctx context.Context, env []string, args ...string) (CommandOutcome, error) {
	if err := ctx.Err(); err != nil {
		return CommandOutcome{}, err
	}

	cmd := exec.CommandContext(ctx, r.binary, args...) //#nosec G204 -- discrete args, pathspecs follow "--"
	cmd.Dir = r.dir
	// Never let git block on an interactive credential prompt; the
	// credential helper supplies the token when one is needed. Pathspecs
	// are taken literally so directory names cannot carry magic or globs.
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0", "GIT_LITERAL_PATHSPECS=1")
	cmd.Env = append(cmd.Env, env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	outcome := CommandOutcome{
		Success:  err == nil,
		ExitCode: cmd.ProcessState.ExitCode(),
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
	}

	r.logger.Debug().
		Str("cmd", commandLine(args)).
		Bool("authenticated", len(env) > 0).
		Int("exit_code", outcome.ExitCode).
		Msg("git invocation finished")

	if err != nil {
		if ctx.Err() != nil {
			return outcome, ctx.Err()
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return outcome, &syncerrors.CommandError{
				Command:  commandLine(args),
				ExitCode: -1,
				Cause:    err,
			}
		}
	}

	return outcome, nil
}

// run executes args and converts a non-zero exit into a *CommandError.
func run(ctx context.Context, r CommandRunner, args ...string) (CommandOutcome, error) {
	return runEnv(ctx, r, nil, args...)
}

// runEnv is run with extra environment entries.
func runEnv(ctx context.Context, r CommandRunner, env []string, args ...string) (CommandOutcome, error) {
	outcome, err := r.Run(ctx, env, args...)
	if err != nil {
		return outcome, err
	}
	return outcome, outcome.Err(args)
}

// commandLine renders args for logs and error messages.
func commandLine(args []string) string {
	return "git " + strings.Join(args, " ")
}
