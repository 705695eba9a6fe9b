// Package main provides the entry point for the syncgit CLI.
package main

import (
	"context"
	"os"

	"github.com/mrz1836/syncgit/internal/cli"
)

// Set via -ldflags "-X main.version=... -X main.commit=... -X main.date=...".
//
//nolint:gochecknoglobals // build metadata injected by the linker
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx := context.Background()
	err := cli.Execute(ctx, cli.BuildInfo{Version: version, Commit: commit, Date: date})
	os.Exit(cli.ExitCodeForError(err))
}
