package workflow

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	syncerrors "github.com/mrz1836/syncgit/internal/errors"
	"github.com/mrz1836/syncgit/internal/git"
	"github.com/mrz1836/syncgit/internal/tui"
)

// StageState is a position in the stage and commit pipeline.
type StageState int

// Pipeline states. Aborted is terminal and reachable from any state before
// Committed.
const (
	StateIdle StageState = iota
	StateStaged
	StateStagedVerified
	StateMessageCollected
	StateCommitted
	StateAborted
)

// String returns the state name.
func (s StageState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStaged:
		return "staged"
	case StateStagedVerified:
		return "staged_verified"
	case StateMessageCollected:
		return "message_collected"
	case StateCommitted:
		return "committed"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// StageCommit stages the changes under one pathspec and commits them. Every
// mutating step is preceded by the operator's acknowledgment.
type StageCommit struct {
	client   *git.Client
	prompter tui.Prompter
	out      tui.Output
	logger   zerolog.Logger
	state    StageState
}

// NewStageCommit creates a pipeline in the Idle state.
func NewStageCommit(client *git.Client, prompter tui.Prompter, out tui.Output, logger zerolog.Logger) *StageCommit {
	return &StageCommit{
		client:   client,
		prompter: prompter,
		out:      out,
		logger:   logger.With().Str("component", "stage_commit").Logger(),
		state:    StateIdle,
	}
}

// State returns the current state.
func (s *StageCommit) State() StageState {
	return s.state
}

// Run drives the pipeline to Committed. message, when non-blank, is used
// instead of asking. There are no retries and no rollback: a failed commit
// leaves the staged changes in place.
func (s *StageCommit) Run(ctx context.Context, pathspec, message string) error {
	if err := s.acknowledge(ctx, "Press Enter to stage changes in "+pathspec+" (type anything to cancel)"); err != nil {
		return err
	}

	if err := s.client.Add(ctx, pathspec); err != nil {
		if noMatch(err) {
			return s.abort(syncerrors.Wrapf(syncerrors.ErrNoChanges, "nothing to stage in %s", pathspec))
		}
		return s.abort(syncerrors.Wrap(err, "failed to stage changes"))
	}
	s.transition(StateStaged)

	empty, err := s.client.StagedDiffEmpty(ctx, pathspec)
	if err != nil {
		return s.abort(syncerrors.Wrap(err, "failed to verify staged changes"))
	}
	if empty {
		return s.abort(syncerrors.Wrapf(syncerrors.ErrNoChanges, "no net change staged in %s", pathspec))
	}
	s.transition(StateStagedVerified)

	if stat, err := s.client.StagedStat(ctx, pathspec); err == nil {
		s.out.Heading("Staged")
		s.out.Block(stat)
	} else {
		s.logger.Warn().Err(err).Msg("could not summarize staged changes")
	}

	if err := s.acknowledge(ctx, "Press Enter to commit (type anything to cancel)"); err != nil {
		return err
	}

	message, err = s.collectMessage(ctx, message)
	if err != nil {
		return s.abort(err)
	}
	s.transition(StateMessageCollected)

	if err := s.client.Commit(ctx, message, pathspec); err != nil {
		return s.abort(syncerrors.Wrap(err, "commit failed, staged changes were kept"))
	}
	s.transition(StateCommitted)
	s.out.Success("Committed changes in " + pathspec)
	return nil
}

// acknowledge blocks until the operator answers. Only an empty line lets the
// pipeline continue.
func (s *StageCommit) acknowledge(ctx context.Context, prompt string) error {
	answer, err := s.prompter.ReadLine(ctx, prompt)
	if err != nil {
		s.logger.Debug().Err(err).Msg("acknowledgment read failed")
		return s.abort(syncerrors.Wrap(syncerrors.ErrOperationCanceled, "no acknowledgment"))
	}
	if answer != "" {
		return s.abort(syncerrors.ErrOperationCanceled)
	}
	return nil
}

func (s *StageCommit) collectMessage(ctx context.Context, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		line, err := s.prompter.ReadLine(ctx, "Commit message:")
		if err != nil {
			return "", syncerrors.Wrap(syncerrors.ErrOperationCanceled, "no commit message read")
		}
		message = line
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return "", syncerrors.ErrNoCommitMessage
	}
	return message, nil
}

func (s *StageCommit) transition(next StageState) {
	s.logger.Debug().Stringer("from", s.state).Stringer("to", next).Msg("stage transition")
	s.state = next
}

func (s *StageCommit) abort(err error) error {
	s.transition(StateAborted)
	return err
}

// noMatch reports whether git rejected the pathspec because it names nothing.
func noMatch(err error) bool {
	var cmdErr *syncerrors.CommandError
	return errors.As(err, &cmdErr) && strings.Contains(cmdErr.Stderr, "did not match any files")
}
