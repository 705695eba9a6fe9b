package workflow

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mrz1836/syncgit/internal/constants"
	syncerrors "github.com/mrz1836/syncgit/internal/errors"
	"github.com/mrz1836/syncgit/internal/flock"
	"github.com/mrz1836/syncgit/internal/git"
)

// Outcome is how a run ended when it ended without error.
type Outcome int

// Run outcomes.
const (
	// OutcomeCompleted means changes were committed and published.
	OutcomeCompleted Outcome = iota
	// OutcomeNothingToDo means the working tree had nothing to commit.
	OutcomeNothingToDo
	// OutcomeScopedNoOp means changes exist, but none under the pathspec.
	OutcomeScopedNoOp
	// OutcomeCanceled means the operator stopped the run at a prompt.
	OutcomeCanceled
	// OutcomePublishDeferred means the commit was made but stays local.
	OutcomePublishDeferred
	// OutcomeDryRun means the run stopped before staging as requested.
	OutcomeDryRun
	// OutcomeNoRepository means the directory is not inside a repository
	// and its child repositories were listed instead.
	OutcomeNoRepository
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeNothingToDo:
		return "nothing_to_do"
	case OutcomeScopedNoOp:
		return "scoped_no_op"
	case OutcomeCanceled:
		return "canceled"
	case OutcomePublishDeferred:
		return "publish_deferred"
	case OutcomeDryRun:
		return "dry_run"
	case OutcomeNoRepository:
		return "no_repository"
	default:
		return "unknown"
	}
}

// MarshalText renders the outcome by name in JSON output.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Options are the per-run inputs from the command line.
type Options struct {
	// WorkDir is where the operator invoked syncgit.
	WorkDir string
	// Message is the commit message; blank means ask.
	Message string
	// DryRun stops after showing the grouped status, before any mutation.
	DryRun bool
}

// Result summarizes a run.
type Result struct {
	Outcome        Outcome           `json:"outcome"`
	Repository     string            `json:"repository,omitempty"`
	Root           string            `json:"root,omitempty"`
	Pathspec       string            `json:"pathspec,omitempty"`
	Ahead          uint              `json:"ahead"`
	Behind         uint              `json:"behind"`
	Groups         []git.StatusGroup `json:"groups,omitempty"`
	PendingFolders []string          `json:"pending_folders,omitempty"`
	Existing       *PublishResult    `json:"existing_publish,omitempty"`
	Publish        *PublishResult    `json:"publish,omitempty"`
	Children       []ChildSummary    `json:"children,omitempty"`
}

// Orchestrator runs one sync session. It holds no state between runs.
type Orchestrator struct {
	svc    *Services
	logger zerolog.Logger
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(svc *Services) *Orchestrator {
	return &Orchestrator{
		svc:    svc,
		logger: svc.Logger.With().Str("component", "orchestrator").Logger(),
	}
}

// Run executes the session. Clean stops (nothing to do, scoped no-op,
// cancellation, deferred publish) return a Result and a nil error.
func (o *Orchestrator) Run(ctx context.Context, opts Options) (*Result, error) {
	root, err := git.FindRoot(opts.WorkDir)
	if errors.Is(err, syncerrors.ErrNotGitRepo) {
		return o.listChildren(ctx, opts.WorkDir)
	}
	if err != nil {
		return nil, err
	}

	pathspec, err := git.ComputePathspec(root, opts.WorkDir)
	if err != nil {
		return nil, err
	}
	pathspec = git.NormalizePathspec(pathspec)
	if err := git.ValidatePathspec(pathspec); err != nil {
		return nil, err
	}

	remote := o.svc.Config.Remote
	runner := o.svc.NewRunner(root)
	client := git.NewClient(runner, remote)
	res := &Result{
		Repository: git.DeriveName(ctx, runner, remote),
		Root:       root,
		Pathspec:   pathspec,
	}
	logger := o.logger.With().Str("repo", res.Repository).Str("pathspec", pathspec).Logger()
	logger.Info().Msg("sync started")

	release, err := o.lockSession(ctx, runner)
	if err != nil {
		return nil, err
	}
	defer release()

	o.svc.Out.Heading(res.Repository)
	o.svc.Out.Info("Scope: " + pathspec)
	if status, err := client.ShortStatus(ctx); err == nil {
		o.svc.Out.Block(status)
	}

	if err := o.preflight(ctx, runner); err != nil {
		if syncerrors.IsCancellation(err) {
			res.Outcome = OutcomeCanceled
			return res, nil
		}
		return nil, err
	}

	tracker := git.NewDivergenceTracker(runner)
	div := tracker.Count(ctx)
	res.Ahead, res.Behind = div.Ahead, div.Behind
	publisher := NewPublisher(o.svc, client, root)

	if div.Ahead > 0 && !opts.DryRun {
		existing, err := publisher.PublishExisting(ctx, div.Ahead)
		if err != nil {
			return nil, err
		}
		res.Existing = &existing
	}
	shouldPull := true
	if div.Behind > 0 {
		o.svc.Out.Info(fmt.Sprintf("Behind %s by %d commit(s)", remote, div.Behind))
		if branch, ok := tracker.Branch(ctx); ok {
			if incoming, err := client.Incoming(ctx, branch, constants.IncomingPreviewLimit); err == nil && incoming != "" {
				o.svc.Out.Block(incoming)
			}
		}
		if !opts.DryRun {
			if shouldPull, err = o.confirmPull(ctx); err != nil {
				return nil, err
			}
		}
	}

	if _, ok := tracker.Upstream(ctx); ok && shouldPull && !opts.DryRun {
		if err := o.pull(ctx, client); err != nil {
			return nil, err
		}
	}

	detector := git.NewChangeDetector(runner)
	anyChange, err := detector.HasAnyChanges(ctx)
	if err != nil {
		return nil, err
	}
	if !anyChange {
		o.svc.Out.Success("Working tree clean, nothing to commit")
		res.Outcome = OutcomeNothingToDo
		return res, nil
	}

	inScope, err := detector.HasChanges(ctx, pathspec)
	if err != nil {
		return nil, err
	}
	if !inScope {
		folders, err := detector.PendingFolders(ctx)
		if err != nil {
			return nil, err
		}
		res.PendingFolders = folders
		res.Outcome = OutcomeScopedNoOp
		o.svc.Out.Info(fmt.Sprintf("No changes under %s. Pending changes live in: %s",
			pathspec, strings.Join(folders, ", ")))
		return res, nil
	}

	groups, err := detector.GroupedStatus(ctx, pathspec)
	if err != nil {
		return nil, err
	}
	res.Groups = groups
	o.showGroups(groups)

	if opts.DryRun {
		o.svc.Out.Info("Dry run: stopping before staging")
		res.Outcome = OutcomeDryRun
		return res, nil
	}

	stage := NewStageCommit(client, o.svc.Prompter, o.svc.Out, o.svc.Logger)
	if err := stage.Run(ctx, pathspec, opts.Message); err != nil {
		switch {
		case syncerrors.IsCancellation(err):
			o.svc.Out.Info("Canceled, nothing was committed")
			res.Outcome = OutcomeCanceled
			return res, nil
		case errors.Is(err, syncerrors.ErrNoChanges):
			o.svc.Out.Info("Nothing to commit in " + pathspec)
			res.Outcome = OutcomeNothingToDo
			return res, nil
		default:
			return nil, err
		}
	}

	published, err := publisher.Publish(ctx)
	if syncerrors.IsCancellation(err) {
		logger.Info().Err(err).Msg("publish canceled at a prompt")
		o.svc.Out.Info("Publish canceled, the commit is kept locally")
		published = PublishResult{Status: PublishDeferred, Remote: remote}
		err = nil
	}
	if err != nil {
		return nil, err
	}
	res.Publish = &published
	if published.Status == PublishPushed {
		res.Outcome = OutcomeCompleted
	} else {
		res.Outcome = OutcomePublishDeferred
	}
	logger.Info().Stringer("outcome", res.Outcome).Msg("sync finished")
	return res, nil
}

// lockSession takes the repository's session lock. The returned func
// releases it.
func (o *Orchestrator) lockSession(ctx context.Context, runner git.CommandRunner) (func(), error) {
	gitDir, err := git.GitDir(ctx, runner)
	if err != nil {
		return nil, err
	}
	lock, err := flock.Acquire(filepath.Join(gitDir, constants.SessionLockName))
	if errors.Is(err, flock.ErrLocked) {
		return nil, syncerrors.Wrap(syncerrors.ErrRepositoryBusy, err.Error())
	}
	if err != nil {
		return nil, syncerrors.Wrap(err, "failed to take the session lock")
	}
	o.logger.Debug().Str("lock", lock.Path()).Msg("session lock acquired")
	return func() {
		if err := lock.Release(); err != nil {
			o.logger.Warn().Err(err).Str("lock", lock.Path()).Msg("failed to release session lock")
		}
	}, nil
}

// preflight stops the run on conflicts or an in-progress merge and asks
// before continuing over stashed work.
func (o *Orchestrator) preflight(ctx context.Context, runner git.CommandRunner) error {
	verdict, err := git.NewPreflightGuard(runner).Check(ctx)
	if err != nil {
		return err
	}

	switch verdict.Kind {
	case git.VerdictOK:
		return nil
	case git.VerdictBlocked:
		return syncerrors.Wrap(syncerrors.ErrPreflightBlocked, verdict.Reason)
	case git.VerdictNeedsConfirmation:
		o.svc.Out.Warning(verdict.Reason)
		ok, err := o.svc.Prompter.Confirm(ctx, "Continue anyway?", false)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return syncerrors.Wrap(syncerrors.ErrOperationCanceled, "preflight confirmation")
		}
		if !ok {
			return syncerrors.Wrapf(syncerrors.ErrPreflightBlocked, "%s; declined to continue", verdict.Reason)
		}
		return nil
	default:
		return syncerrors.Wrapf(syncerrors.ErrOther, "unknown preflight verdict %s", verdict.Kind)
	}
}

// pull reconciles with the upstream using the configured strategy. A token,
// when one is available, is wired in so private HTTPS remotes work; without
// one the pull runs unauthenticated.
// confirmPull asks before merging incoming commits. A prompt that fails
// for any reason other than cancellation of ctx counts as a decline.
func (o *Orchestrator) confirmPull(ctx context.Context) (bool, error) {
	ok, err := o.svc.Prompter.Confirm(ctx, "Pull them now?", true)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		ok = false
	}
	if !ok {
		o.logger.Info().Msg("pull declined")
		o.svc.Out.Info("Skipping pull, the working tree stays on the local history")
	}
	return ok, nil
}

func (o *Orchestrator) pull(ctx context.Context, client *git.Client) error {
	var env []string
	if token, _, err := o.svc.Tokens.Token(); err == nil {
		if env, err = o.svc.Credentials.Configure(ctx, client, token); err != nil {
			return err
		}
	}

	strategy := o.svc.Config.Sync.PullStrategy
	if strategy == "" {
		strategy = constants.PullRebase
	}
	o.svc.Out.Info(fmt.Sprintf("Pulling from %s (%s)", client.Remote(), strategy))
	if err := client.Pull(ctx, strategy, env); err != nil {
		o.logger.Error().Err(err).Stringer("kind", git.Classify(err)).Msg("pull failed")
		return syncerrors.Wrap(err, "pull failed")
	}
	return nil
}

func (o *Orchestrator) showGroups(groups []git.StatusGroup) {
	for _, g := range groups {
		o.svc.Out.Heading(g.Label())
		lines := make([]string, 0, len(g.Entries))
		for _, e := range g.Entries {
			lines = append(lines, e.Line)
		}
		o.svc.Out.Block(strings.Join(lines, "\n"))
	}
}

// listChildren handles a run started outside any repository.
func (o *Orchestrator) listChildren(ctx context.Context, dir string) (*Result, error) {
	children, err := git.ScanChildren(ctx, dir, o.svc.Config.Scan.Concurrency, o.svc.NewRunner)
	if err != nil {
		return nil, err
	}
	if len(children) == 0 {
		return nil, syncerrors.Wrapf(syncerrors.ErrNotGitRepo, "%s holds no repositories either", dir)
	}

	o.svc.Out.Info("Not inside a git repository. Repositories here:")
	RenderChildren(o.svc.Out, children)
	return &Result{Outcome: OutcomeNoRepository, Children: SummarizeChildren(children)}, nil
}
