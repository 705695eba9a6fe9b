package workflow

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	syncerrors "github.com/mrz1836/syncgit/internal/errors"
	"github.com/mrz1836/syncgit/internal/git"
	"github.com/mrz1836/syncgit/internal/hosting"
)

// PublishStatus is how a publish attempt ended.
type PublishStatus int

// Publish statuses.
const (
	// PublishPushed means the branch reached the remote.
	PublishPushed PublishStatus = iota
	// PublishSkipped means the operator chose not to push.
	PublishSkipped
	// PublishFailed means the recovery ladder ran out; commits stay local.
	PublishFailed
	// PublishDeferred means no remote exists and none was created.
	PublishDeferred
)

// String returns the status name.
func (s PublishStatus) String() string {
	switch s {
	case PublishPushed:
		return "pushed"
	case PublishSkipped:
		return "skipped"
	case PublishFailed:
		return "failed"
	case PublishDeferred:
		return "deferred"
	default:
		return "unknown"
	}
}

// MarshalText renders the status by name in JSON output.
func (s PublishStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// PublishResult describes a publish attempt.
type PublishResult struct {
	Status PublishStatus `json:"status"`
	Remote string        `json:"remote,omitempty"`
	Branch string        `json:"branch,omitempty"`
	// URL is the web address of a repository created or adopted on the way.
	URL string `json:"url,omitempty"`
	// Manual holds the commands to finish by hand after PublishFailed.
	Manual string `json:"manual,omitempty"`
}

// Publisher gets local commits onto the remote: it authenticates, pushes
// with a recovery ladder and can create the remote repository first.
type Publisher struct {
	svc     *Services
	client  *git.Client
	tracker *git.DivergenceTracker
	root    string
	logger  zerolog.Logger
}

// NewPublisher creates a Publisher for the repository at root.
func NewPublisher(svc *Services, client *git.Client, root string) *Publisher {
	return &Publisher{
		svc:     svc,
		client:  client,
		tracker: git.NewDivergenceTracker(client.Runner()),
		root:    root,
		logger:  svc.Logger.With().Str("component", "publish").Logger(),
	}
}

// PublishExisting offers to push commits that were already ahead of the
// upstream before this run. Declining yields PublishSkipped.
func (p *Publisher) PublishExisting(ctx context.Context, ahead uint) (PublishResult, error) {
	p.svc.Out.Warning(fmt.Sprintf("%d local commit(s) have not been pushed yet", ahead))

	ok, err := p.svc.Prompter.Confirm(ctx, "Push them before continuing?", true)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return PublishResult{}, ctxErr
		}
		ok = false
	}
	if !ok {
		p.svc.Out.Info("Leaving existing commits unpushed")
		return PublishResult{Status: PublishSkipped, Remote: p.client.Remote()}, nil
	}

	env, err := p.authenticate(ctx)
	if err != nil {
		return PublishResult{}, err
	}
	return p.pushWithRecovery(ctx, env)
}

// Publish pushes the current branch after a commit. Without a remote it
// falls through to CreateRemoteAndPublish.
func (p *Publisher) Publish(ctx context.Context) (PublishResult, error) {
	if _, ok := p.client.RemoteURL(ctx); !ok {
		return p.CreateRemoteAndPublish(ctx)
	}

	env, err := p.authenticate(ctx)
	if err != nil {
		return PublishResult{}, err
	}
	return p.pushWithRecovery(ctx, env)
}

// CreateRemoteAndPublish creates a repository on the hosting service, points
// the remote at it and pushes. When the name is taken the operator may adopt
// the existing repository instead.
func (p *Publisher) CreateRemoteAndPublish(ctx context.Context) (PublishResult, error) {
	remote := p.client.Remote()
	ok, err := p.svc.Prompter.Confirm(ctx,
		fmt.Sprintf("Remote %q is not configured. Create a repository on the hosting service?", remote), true)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return PublishResult{}, ctxErr
		}
		ok = false
	}
	if !ok {
		p.svc.Out.Info("Commit kept locally; add a remote and run syncgit again to publish")
		return PublishResult{Status: PublishDeferred, Remote: remote}, nil
	}

	token, _, err := p.svc.Tokens.Token()
	if err != nil {
		return PublishResult{}, err
	}
	if err := p.svc.Prober.Probe(ctx); err != nil {
		return PublishResult{}, err
	}

	req, err := p.askRepository(ctx)
	if err != nil {
		return PublishResult{}, err
	}

	host, err := p.svc.Hosting(token)
	if err != nil {
		return PublishResult{}, err
	}

	var webURL, remoteURL string
	created, err := host.CreateRepo(ctx, req)
	switch {
	case err == nil:
		webURL, remoteURL = created.HTMLURL, created.CloneURL
		p.svc.Out.Success("Created " + created.HTMLURL)
	case errors.Is(err, syncerrors.ErrRepoNameConflict):
		webURL, remoteURL, err = p.adopt(ctx, host, req.Name)
		if err != nil {
			return PublishResult{}, err
		}
		if remoteURL == "" {
			return PublishResult{Status: PublishDeferred, Remote: remote}, nil
		}
	default:
		return PublishResult{}, err
	}

	if err := p.client.PointRemoteAt(ctx, remoteURL); err != nil {
		return PublishResult{}, syncerrors.Wrap(err, "failed to configure remote")
	}
	p.logger.Info().Str("remote", remote).Str("url", remoteURL).Msg("remote configured")

	if written, err := EnsureIgnoreFile(p.root, p.svc.Config.Ignore.Patterns); err != nil {
		p.logger.Warn().Err(err).Msg("could not write default ignore file")
	} else if written {
		p.svc.Out.Info("Wrote a default .gitignore")
	}

	env, err := p.svc.Credentials.Configure(ctx, p.client, token)
	if err != nil {
		return PublishResult{}, err
	}

	result, err := p.pushWithRecovery(ctx, env)
	result.URL = webURL
	return result, err
}

// askRepository collects the name, description and visibility.
func (p *Publisher) askRepository(ctx context.Context) (hosting.CreateRequest, error) {
	defaultName := filepath.Base(p.root)

	name, err := p.svc.Prompter.ReadLine(ctx, fmt.Sprintf("Repository name [%s]:", defaultName))
	if err != nil {
		return hosting.CreateRequest{}, syncerrors.Wrap(syncerrors.ErrOperationCanceled, "no repository name read")
	}
	if name = strings.TrimSpace(name); name == "" {
		name = defaultName
	}
	if err := hosting.ValidateRepoName(name); err != nil {
		return hosting.CreateRequest{}, err
	}

	description, err := p.svc.Prompter.ReadLine(ctx, "Description (optional):")
	if err != nil {
		return hosting.CreateRequest{}, syncerrors.Wrap(syncerrors.ErrOperationCanceled, "no description read")
	}

	private, err := p.svc.Prompter.Confirm(ctx, "Make the repository private?", p.svc.Config.Hosting.DefaultPrivate)
	if err != nil {
		return hosting.CreateRequest{}, syncerrors.Wrap(syncerrors.ErrOperationCanceled, "no visibility chosen")
	}

	return hosting.CreateRequest{
		Name:        name,
		Description: strings.TrimSpace(description),
		Private:     private,
	}, nil
}

// adopt offers to use an existing repository of the same name. An empty
// remoteURL with a nil error means the operator declined.
func (p *Publisher) adopt(ctx context.Context, host hosting.Service, name string) (webURL, remoteURL string, err error) {
	ok, err := p.svc.Prompter.Confirm(ctx,
		fmt.Sprintf("A repository named %q already exists on your account. Use it as the remote?", name), true)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", "", ctxErr
		}
		ok = false
	}
	if !ok {
		p.svc.Out.Info("Commit kept locally; choose another name or add a remote by hand")
		return "", "", nil
	}

	owner, err := host.CurrentUser(ctx)
	if err != nil {
		return "", "", err
	}
	remoteURL = hosting.AdoptionURL(p.svc.Config.Hosting.WebURL, owner, name)
	webURL = strings.TrimSuffix(remoteURL, ".git")
	p.svc.Out.Info("Using existing repository " + webURL)
	return webURL, remoteURL, nil
}

// authenticate requires a token and a network, then configures credentials.
// Nothing is pushed when either check fails.
func (p *Publisher) authenticate(ctx context.Context) ([]string, error) {
	token, source, err := p.svc.Tokens.Token()
	if err != nil {
		return nil, err
	}
	p.logger.Debug().Str("token_source", source).Msg("access token found")

	if err := p.svc.Prober.Probe(ctx); err != nil {
		return nil, err
	}
	return p.svc.Credentials.Configure(ctx, p.client, token)
}

// pushWithRecovery pushes the current branch. On failure it fetches,
// re-links the upstream, asks once to retry and, if that fails too, prints
// the commands to finish by hand. Local commits are never touched.
func (p *Publisher) pushWithRecovery(ctx context.Context, env []string) (PublishResult, error) {
	remote := p.client.Remote()
	branch, ok := p.tracker.Branch(ctx)
	if !ok {
		return PublishResult{}, syncerrors.Wrap(syncerrors.ErrOther, "HEAD is detached; check out a branch to publish")
	}
	result := PublishResult{Remote: remote, Branch: branch}

	_, hasUpstream := p.tracker.Upstream(ctx)
	err := p.client.Push(ctx, branch, !hasUpstream, env)
	if err == nil {
		p.svc.Out.Success(fmt.Sprintf("Pushed %s to %s", branch, remote))
		result.Status = PublishPushed
		return result, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, ctxErr
	}

	kind := git.Classify(err)
	p.logger.Warn().Err(err).Stringer("kind", kind).Msg("push failed")
	p.svc.Out.Warning("Push failed: " + firstNonEmpty(kind.Hint(), err.Error()))

	if fetchErr := p.client.Fetch(ctx, env); fetchErr != nil {
		p.logger.Warn().Err(fetchErr).Msg("fetch during recovery failed")
	}
	if linkErr := p.client.SetUpstreamTo(ctx, branch); linkErr != nil {
		p.logger.Debug().Err(linkErr).Msg("could not set upstream during recovery")
	}

	retry, promptErr := p.svc.Prompter.Confirm(ctx, "Retry the push?", true)
	if promptErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, ctxErr
		}
		retry = false
	}
	if retry {
		if err = p.client.Push(ctx, branch, !hasUpstream, env); err == nil {
			p.svc.Out.Success(fmt.Sprintf("Pushed %s to %s", branch, remote))
			result.Status = PublishPushed
			return result, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, ctxErr
		}
		kind = git.Classify(err)
		p.logger.Warn().Err(err).Stringer("kind", kind).Msg("retried push failed")
	}

	result.Status = PublishFailed
	result.Manual = ManualPushSteps(remote, branch, kind)
	p.svc.Out.Markdown(result.Manual)
	return result, nil
}

// ManualPushSteps is the markdown shown when the recovery ladder gives up.
func ManualPushSteps(remote, branch string, kind git.ErrorType) string {
	var b strings.Builder
	b.WriteString("## Finish publishing by hand\n\n")
	b.WriteString("Your commits are safe locally. ")
	if hint := kind.Hint(); hint != "" {
		b.WriteString(hint)
		b.WriteString(" ")
	}
	b.WriteString("Then run:\n\n```sh\n")
	fmt.Fprintf(&b, "git fetch %s\n", remote)
	fmt.Fprintf(&b, "git pull --rebase %s %s\n", remote, branch)
	fmt.Fprintf(&b, "git push --set-upstream %s %s\n", remote, branch)
	b.WriteString("```\n")
	return b.String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
