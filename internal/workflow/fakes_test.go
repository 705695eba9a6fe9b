package workflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/syncgit/internal/auth"
	"github.com/mrz1836/syncgit/internal/config"
	"github.com/mrz1836/syncgit/internal/git"
	"github.com/mrz1836/syncgit/internal/hosting"
	"github.com/mrz1836/syncgit/internal/network"
	"github.com/mrz1836/syncgit/internal/testutil"
)

const testToken = "ghp_workflowTestToken000000000"

// fakeRunner answers git invocations from a script keyed by the space-joined
// arguments. Each key holds a queue; the last entry repeats. Unscripted
// commands fail with exit 128.
type fakeRunner struct {
	dir    string
	script map[string][]git.CommandOutcome

	mu    sync.Mutex
	calls []string
	envs  map[string][]string
}

func newFakeRunner(dir string) *fakeRunner {
	return &fakeRunner{
		dir:    dir,
		script: map[string][]git.CommandOutcome{},
		envs:   map[string][]string{},
	}
}

func (r *fakeRunner) on(cmd string, outcomes ...git.CommandOutcome) *fakeRunner {
	r.script[cmd] = outcomes
	return r
}

func (r *fakeRunner) Dir() string { return r.dir }

func (r *fakeRunner) Run(ctx context.Context, env []string, args ...string) (git.CommandOutcome, error) {
	if err := ctx.Err(); err != nil {
		return git.CommandOutcome{}, err
	}
	key := strings.Join(args, " ")

	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, key)
	r.envs[key] = env

	queue, ok := r.script[key]
	if !ok || len(queue) == 0 {
		return failed(128, "unscripted: git "+key), nil
	}
	out := queue[0]
	if len(queue) > 1 {
		r.script[key] = queue[1:]
	}
	return out, nil
}

func (r *fakeRunner) called(prefix string) bool {
	return r.count(prefix) > 0
}

func (r *fakeRunner) count(prefix string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (r *fakeRunner) callsWith(prefix string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, c := range r.calls {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

func ok(stdout string) git.CommandOutcome {
	return git.CommandOutcome{Success: true, Stdout: []byte(stdout)}
}

func failed(code int, stderr string) git.CommandOutcome {
	return git.CommandOutcome{ExitCode: code, Stderr: []byte(stderr)}
}

// scriptRepo scripts a repository on branch main tracking origin/main with
// the given divergence and a clean preflight.
func scriptRepo(r *fakeRunner, ahead, behind int) *fakeRunner {
	return r.
		on("config --get remote.origin.url", ok("https://github.com/octo/notes.git\n")).
		on("remote get-url origin", ok("https://github.com/octo/notes.git\n")).
		on("status -sb", ok("## main...origin/main\n")).
		on("diff --name-only --diff-filter=U", ok("")).
		on("rev-parse --git-dir", ok(".git\n")).
		on("stash list", ok("")).
		on("symbolic-ref --quiet --short HEAD", ok("main\n")).
		on("rev-parse --abbrev-ref --symbolic-full-name @{u}", ok("origin/main\n")).
		on("rev-list --left-right --count main...main@{u}", ok(fmt.Sprintf("%d\t%d\n", ahead, behind))).
		on("pull --rebase --autostash", ok(""))
}

// captureOutput records every message it is given.
type captureOutput struct {
	mu    sync.Mutex
	lines []string
}

func (o *captureOutput) add(kind, msg string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lines = append(o.lines, kind+": "+msg)
}

func (o *captureOutput) Success(msg string) { o.add("success", msg) }
func (o *captureOutput) Error(err error) { o.add("error", err.Error()) }
func (o *captureOutput) Warning(msg string) { o.add("warning", msg) }
func (o *captureOutput) Info(msg string) { o.add("info", msg) }
func (o *captureOutput) Heading(title string) { o.add("heading", title) }
func (o *captureOutput) Block(text string) { o.add("block", text) }
func (o *captureOutput) Markdown(md string) { o.add("markdown", md) }
func (o *captureOutput) Table(_ []string, _ [][]string) { o.add("table", "") }
func (o *captureOutput) JSON(_ any) error { o.add("json", ""); return nil }

func (o *captureOutput) text() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return strings.Join(o.lines, "\n")
}

// stubCredentials hands back a fixed environment.
type stubCredentials struct {
	mu     sync.Mutex
	calls  int
	tokens []string
	err    error
}

func (s *stubCredentials) Configure(_ context.Context, _ *git.Client, token string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.tokens = append(s.tokens, token)
	if s.err != nil {
		return nil, s.err
	}
	return auth.Env(token), nil
}

// fakeHosting is a hosting.Service with canned answers.
type fakeHosting struct {
	repo      *hosting.Repo
	createErr error
	user      string
	userErr   error

	requests  []hosting.CreateRequest
	userCalls int
}

func (f *fakeHosting) CreateRepo(_ context.Context, req hosting.CreateRequest) (*hosting.Repo, error) {
	f.requests = append(f.requests, req)
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.repo, nil
}

func (f *fakeHosting) CurrentUser(context.Context) (string, error) {
	f.userCalls++
	return f.user, f.userErr
}

type harness struct {
	svc      *Services
	runner   *fakeRunner
	prompter *testutil.ScriptedPrompter
	out      *captureOutput
	creds    *stubCredentials
	host     *fakeHosting
}

// newHarness builds Services around fakes. root receives a .git directory.
func newHarness(t *testing.T, root string) *harness {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o750))

	h := &harness{
		runner:   newFakeRunner(root),
		prompter: &testutil.ScriptedPrompter{},
		out:      &captureOutput{},
		creds:    &stubCredentials{},
		host:     &fakeHosting{},
	}
	h.svc = &Services{
		Config:      config.DefaultConfig(),
		NewRunner:   func(string) git.CommandRunner { return h.runner },
		Tokens:      auth.StaticTokenSource(testToken),
		Prober:      network.StaticProber{},
		Credentials: h.creds,
		Hosting: func(token string) (hosting.Service, error) {
			if token != testToken {
				return nil, fmt.Errorf("unexpected token %q: %w", token, testutil.ErrMockAPIError)
			}
			return h.host, nil
		},
		Prompter: h.prompter,
		Out:      h.out,
		Logger:   zerolog.Nop(),
	}
	return h
}

func (h *harness) client() *git.Client {
	return git.NewClient(h.runner, h.svc.Config.Remote)
}
