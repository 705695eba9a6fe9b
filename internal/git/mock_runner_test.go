package git

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// errTestUnexpected is returned by scriptedRunner for commands with no response.
var errTestUnexpected = errors.New("unexpected command")

// scriptedRunner is a CommandRunner fake. Responses are keyed by the
// space-joined argument list; RunFunc, when set, takes precedence.
type scriptedRunner struct {
	dir       string
	responses map[string]CommandOutcome
	RunFunc   func(ctx context.Context, env []string, args ...string) (CommandOutcome, error)

	mu    sync.Mutex
	calls []string
	envs  [][]string
}

func newScriptedRunner(responses map[string]CommandOutcome) *scriptedRunner {
	return &scriptedRunner{dir: "/repo", responses: responses}
}

func (r *scriptedRunner) Dir() string { return r.dir }

func (r *scriptedRunner) Run(ctx context.Context, env []string, args ...string) (CommandOutcome, error) {
	key := strings.Join(args, " ")
	r.mu.Lock()
	r.calls = append(r.calls, key)
	r.envs = append(r.envs, env)
	r.mu.Unlock()

	if r.RunFunc != nil {
		return r.RunFunc(ctx, env, args...)
	}
	if out, ok := r.responses[key]; ok {
		return out, nil
	}
	return CommandOutcome{}, errTestUnexpected
}

func (r *scriptedRunner) called(prefix string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.calls {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}

func okOut(stdout string) CommandOutcome {
	return CommandOutcome{Success: true, Stdout: []byte(stdout)}
}

func failOut(code int, stderr string) CommandOutcome {
	return CommandOutcome{Success: false, ExitCode: code, Stderr: []byte(stderr)}
}
