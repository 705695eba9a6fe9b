package cli

import (
	"bytes"
	"context"
	"net"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// isolateEnv points every syncgit and git lookup at test-owned locations.
func isolateEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("SYNCGIT_HOME", home)
	t.Setenv("HOME", home)
	t.Setenv("GIT_CONFIG_GLOBAL", os.DevNull)
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv("NO_COLOR", "1")
	for _, name := range []string{"GITHUB_TOKEN", "GH_TOKEN", "GIT_TOKEN", "SYNCGIT_OUTPUT", "SYNCGIT_VERBOSE", "SYNCGIT_QUIET"} {
		t.Setenv(name, "")
	}
	return home
}

// reachable starts a listener and makes it the network probe target.
func reachable(t *testing.T) {
	t.Helper()
	ln, err := (&net.ListenConfig{}).Listen(context.Background(), "tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			_ = conn.Close()
		}
	}()
	t.Setenv("SYNCGIT_NETWORK_PROBE_ADDRESS", ln.Addr().String())
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	cmd := newRootCmd(&GlobalFlags{}, BuildInfo{Version: "1.2.3", Commit: "abc1234", Date: "2026-01-01"})
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetIn(bytes.NewReader(nil))
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(context.Background())
	CloseLogFile()
	return outBuf.String(), errBuf.String(), err
}
