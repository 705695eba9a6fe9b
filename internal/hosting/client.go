// Package hosting talks to the GitHub REST API on behalf of syncgit: it
// creates repositories and resolves the authenticated account.
package hosting

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/google/go-github/v72/github"
	"github.com/rs/zerolog"

	"github.com/mrz1836/syncgit/internal/constants"
	syncerrors "github.com/mrz1836/syncgit/internal/errors"
)

// repoNamePattern is the set of names the hosting service accepts.
var repoNamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,100}$`) //nolint:gochecknoglobals // compiled once

// CreateRequest describes a repository to create under the authenticated user.
type CreateRequest struct {
	Name        string
	Description string
	Private     bool
}

// Repo is the subset of the hosting response syncgit needs.
type Repo struct {
	Name     string
	Owner    string
	HTMLURL  string
	CloneURL string
}

// Service is the hosting surface used by the publish workflow.
type Service interface {
	CreateRepo(ctx context.Context, req CreateRequest) (*Repo, error)
	CurrentUser(ctx context.Context) (string, error)
}

// Client is a Service backed by go-github.
type Client struct {
	gh     *github.Client
	logger zerolog.Logger
}

type clientOptions struct {
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*clientOptions)

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = hc
	}
}

// NewClient creates a client for apiURL (for example https://api.github.com/)
// that authenticates with token as a bearer credential.
func NewClient(apiURL, token string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, syncerrors.ErrNoToken
	}
	if apiURL == "" {
		apiURL = constants.DefaultHostingAPIURL
	}
	if !strings.HasSuffix(apiURL, "/") {
		apiURL += "/"
	}
	base, err := url.Parse(apiURL)
	if err != nil {
		return nil, syncerrors.Wrapf(syncerrors.ErrConfigInvalidHosting, "api url %q: %v", apiURL, err)
	}

	o := clientOptions{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	gh := github.NewClient(o.httpClient).WithAuthToken(token)
	gh.BaseURL = base

	return &Client{
		gh:     gh,
		logger: o.logger.With().Str("component", "hosting").Logger(),
	}, nil
}

// CreateRepo creates a repository owned by the authenticated user.
func (c *Client) CreateRepo(ctx context.Context, req CreateRequest) (*Repo, error) {
	if err := ValidateRepoName(req.Name); err != nil {
		return nil, err
	}

	body := &github.Repository{
		Name:    github.Ptr(req.Name),
		Private: github.Ptr(req.Private),
	}
	if d := strings.TrimSpace(req.Description); d != "" {
		body.Description = github.Ptr(d)
	}

	c.logger.Debug().Str("name", req.Name).Bool("private", req.Private).Msg("creating repository")
	created, _, err := c.gh.Repositories.Create(ctx, "", body)
	if err != nil {
		return nil, classify(err, "create repository "+req.Name)
	}

	repo := &Repo{
		Name:     created.GetName(),
		Owner:    created.GetOwner().GetLogin(),
		HTMLURL:  created.GetHTMLURL(),
		CloneURL: created.GetCloneURL(),
	}
	c.logger.Info().Str("html_url", repo.HTMLURL).Msg("repository created")
	return repo, nil
}

// CurrentUser returns the login of the token's owner.
func (c *Client) CurrentUser(ctx context.Context) (string, error) {
	user, _, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return "", classify(err, "get authenticated user")
	}
	login := user.GetLogin()
	if login == "" {
		return "", syncerrors.Wrap(syncerrors.ErrHostingAPI, "authenticated user has no login")
	}
	return login, nil
}

// ValidateRepoName checks name against the characters and length the hosting
// service accepts. "." and ".." are rejected.
func ValidateRepoName(name string) error {
	if name == "." || name == ".." || !repoNamePattern.MatchString(name) {
		return syncerrors.Wrapf(syncerrors.ErrInvalidRepoName,
			"%q: use 1-%d letters, digits, '.', '-' or '_'", name, constants.MaxRepoNameLength)
	}
	return nil
}

// AdoptionURL is the remote URL for an existing repository owned by owner.
func AdoptionURL(webURL, owner, name string) string {
	if webURL == "" {
		webURL = constants.DefaultHostingWebURL
	}
	return strings.TrimSuffix(webURL, "/") + "/" + owner + "/" + name + ".git"
}

// classify maps an API failure to a syncgit sentinel.
func classify(err error, action string) error {
	var ghErr *github.ErrorResponse
	if !errors.As(err, &ghErr) || ghErr.Response == nil {
		return syncerrors.Wrapf(syncerrors.ErrHostingAPI, "%s: %v", action, err)
	}

	switch ghErr.Response.StatusCode {
	case http.StatusUnauthorized:
		return syncerrors.Wrapf(syncerrors.ErrBadCredential, "%s: %s", action, ghErr.Message)
	case http.StatusForbidden:
		return syncerrors.Wrapf(syncerrors.ErrInsufficientScope, "%s: %s", action, ghErr.Message)
	case http.StatusUnprocessableEntity:
		if alreadyExists(ghErr) {
			return syncerrors.Wrapf(syncerrors.ErrRepoNameConflict, "%s", action)
		}
		return syncerrors.Wrapf(syncerrors.ErrInvalidRepoName, "%s: %s", action, ghErr.Message)
	default:
		return syncerrors.Wrapf(syncerrors.ErrHostingAPI, "%s: status %d: %s",
			action, ghErr.Response.StatusCode, ghErr.Message)
	}
}

func alreadyExists(e *github.ErrorResponse) bool {
	if strings.Contains(strings.ToLower(e.Message), "already exists") {
		return true
	}
	for _, detail := range e.Errors {
		if strings.Contains(strings.ToLower(detail.Message), "already exists") {
			return true
		}
	}
	return false
}
