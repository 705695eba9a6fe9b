// Package workflow runs a syncgit session: preflight, divergence, pull,
// scoped staging and commit, then publish.
package workflow

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mrz1836/syncgit/internal/auth"
	"github.com/mrz1836/syncgit/internal/config"
	"github.com/mrz1836/syncgit/internal/git"
	"github.com/mrz1836/syncgit/internal/hosting"
	"github.com/mrz1836/syncgit/internal/network"
	"github.com/mrz1836/syncgit/internal/tui"
)

// CredentialConfigurer prepares a repository for authenticated invocations
// and returns the environment entries those invocations need.
type CredentialConfigurer interface {
	Configure(ctx context.Context, client *git.Client, token string) ([]string, error)
}

// HostingFactory builds a hosting client for token.
type HostingFactory func(token string) (hosting.Service, error)

// Services holds every collaborator a run needs. Tests build it by hand with
// fakes; NewServices wires the real implementations.
type Services struct {
	Config      *config.Config
	NewRunner   git.RunnerFactory
	Tokens      auth.TokenSource
	Prober      network.Prober
	Credentials CredentialConfigurer
	Hosting     HostingFactory
	Prompter    tui.Prompter
	Out         tui.Output
	Logger      zerolog.Logger
}

// NewServices wires the production implementations for cfg.
func NewServices(cfg *config.Config, logger zerolog.Logger, out tui.Output, prompter tui.Prompter) *Services {
	return &Services{
		Config: cfg,
		NewRunner: func(dir string) git.CommandRunner {
			return git.NewExecRunner(dir, git.WithLogger(logger))
		},
		Tokens: auth.NewEnvTokenSource(cfg.Auth.TokenEnvVars),
		Prober: network.NewTCPProber(cfg.Network.ProbeAddress, cfg.Network.ProbeTimeout,
			network.WithLogger(logger)),
		Credentials: auth.NewConfigurer(logger),
		Hosting: func(token string) (hosting.Service, error) {
			return hosting.NewClient(cfg.Hosting.APIURL, token, hosting.WithLogger(logger))
		},
		Prompter: prompter,
		Out:      out,
		Logger:   logger,
	}
}
