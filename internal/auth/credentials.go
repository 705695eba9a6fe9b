package auth

import (
	"context"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mrz1836/syncgit/internal/constants"
	syncerrors "github.com/mrz1836/syncgit/internal/errors"
	"github.com/mrz1836/syncgit/internal/git"
)

// HelperScript is the credential helper syncgit installs. It answers "get"
// requests from the SYNCGIT_AUTH_TOKEN variable and stays silent when the
// variable is unset, so plain git invocations fall through to whatever
// helpers the user already has.
const HelperScript = `!f() { test "$1" = get && test -n "$` + constants.AuthTokenEnv + `" && ` +
	`printf 'username=%s\npassword=%s\n' ` + constants.CredentialUsername + ` "$` + constants.AuthTokenEnv + `"; }; f`

// RemoteKind classifies a remote URL by transport.
type RemoteKind int

const (
	// RemoteHTTPS is an http(s) remote that needs the credential helper.
	RemoteHTTPS RemoteKind = iota
	// RemoteSSH is an ssh or scp-like remote authenticated by ssh keys.
	RemoteSSH
	// RemoteLocal is a filesystem path or file:// URL.
	RemoteLocal
)

// ClassifyRemote returns the transport kind of a remote URL.
func ClassifyRemote(remoteURL string) RemoteKind {
	lower := strings.ToLower(strings.TrimSpace(remoteURL))
	switch {
	case strings.HasPrefix(lower, "https://"), strings.HasPrefix(lower, "http://"):
		return RemoteHTTPS
	case strings.HasPrefix(lower, "ssh://"), strings.HasPrefix(lower, "git+ssh://"):
		return RemoteSSH
	case strings.HasPrefix(lower, "file://"), strings.HasPrefix(lower, "/"), strings.HasPrefix(lower, "."):
		return RemoteLocal
	case strings.Contains(lower, "@") && strings.Contains(lower, ":"):
		// scp-like: user@host:path
		return RemoteSSH
	default:
		return RemoteLocal
	}
}

// Configurer prepares a repository for authenticated git invocations.
type Configurer struct {
	logger zerolog.Logger
}

// NewConfigurer creates a Configurer.
func NewConfigurer(logger zerolog.Logger) *Configurer {
	return &Configurer{logger: logger.With().Str("component", "auth").Logger()}
}

// Configure makes the configured remote usable with token and returns the
// environment entries to attach to authenticated invocations only.
//
// For HTTPS remotes it strips credentials embedded in the URL and installs
// HelperScript for the remote's scheme and host. Repeating the call leaves
// the configuration unchanged. SSH and local remotes need no helper and get
// no environment.
func (c *Configurer) Configure(ctx context.Context, client *git.Client, token string) ([]string, error) {
	if strings.TrimSpace(token) == "" {
		return nil, syncerrors.ErrNoToken
	}

	remoteURL, ok := client.RemoteURL(ctx)
	if !ok {
		return nil, syncerrors.Wrapf(syncerrors.ErrNoRemote, "remote %q", client.Remote())
	}

	if ClassifyRemote(remoteURL) != RemoteHTTPS {
		c.logger.Debug().Str("remote", client.Remote()).Msg("remote does not use https, no credential helper needed")
		return nil, nil
	}

	u, err := url.Parse(remoteURL)
	if err != nil {
		return nil, syncerrors.Wrapf(syncerrors.ErrOther, "parse remote url: %v", err)
	}

	if u.User != nil {
		u.User = nil
		if err := client.SetRemoteURL(ctx, u.String()); err != nil {
			return nil, syncerrors.Wrap(err, "failed to strip credentials from remote url")
		}
		c.logger.Info().Str("remote", client.Remote()).Msg("removed credentials embedded in remote url")
	}

	key := HelperKey(u)
	if current, ok := client.ConfigGet(ctx, key); !ok || current != HelperScript {
		if err := client.ConfigReplaceAll(ctx, key, HelperScript); err != nil {
			return nil, syncerrors.Wrap(err, "failed to configure credential helper")
		}
		c.logger.Debug().Str("key", key).Msg("credential helper configured")
	}

	return Env(token), nil
}

// HelperKey returns the git config key scoping the helper to u's scheme and host.
func HelperKey(u *url.URL) string {
	return "credential." + u.Scheme + "://" + u.Host + ".helper"
}

// Env returns the environment entries that hand token to HelperScript.
func Env(token string) []string {
	return []string{constants.AuthTokenEnv + "=" + token}
}
