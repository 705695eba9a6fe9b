package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

// errorEntry pairs a sentinel error with its user-facing info.
type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries maps sentinel errors to their user-facing messages.
// Using a slice (not a map) because errors.Is() requires chain traversal
// and the first match wins.
//
//nolint:gochecknoglobals // Pre-built mapping for efficiency
var errorInfoEntries = []errorEntry{
	// ===================
	// Workflow
	// ===================
	{
		err: ErrNoChanges,
		info: ErrorInfo{
			Message: "There is nothing to commit in the current folder.",
			Action:  "",
		},
	},
	{
		err: ErrNoCommitMessage,
		info: ErrorInfo{
			Message: "Commit canceled: no message was provided.",
			Action:  "Run syncgit again and enter a commit message, or pass --message.",
		},
	},
	{
		err: ErrOperationCanceled,
		info: ErrorInfo{
			Message: "Operation canceled.",
			Action:  "",
		},
	},
	{
		err: ErrMenuCanceled,
		info: ErrorInfo{
			Message: "Prompt canceled.",
			Action:  "",
		},
	},
	{
		err: ErrPreflightBlocked,
		info: ErrorInfo{
			Message: "The repository has unresolved conflicts or an in-progress merge.",
			Action:  "Resolve the conflicts or finish/abort the merge, then run syncgit again.",
		},
	},
	{
		err: ErrRepositoryBusy,
		info: ErrorInfo{
			Message: "Another syncgit session is already running in this repository.",
			Action:  "Wait for it to finish, then run syncgit again.",
		},
	},
	{
		err: ErrNotGitRepo,
		info: ErrorInfo{
			Message: "You are not inside a Git repository.",
			Action:  "Change into a repository or run 'syncgit repos' to list child repositories.",
		},
	},
	{
		err: ErrInvalidPathspec,
		info: ErrorInfo{
			Message: "The current folder cannot be used as a pathspec.",
			Action:  "Run syncgit from a folder inside the repository.",
		},
	},

	// ===================
	// Publishing
	// ===================
	{
		err: ErrNoToken,
		info: ErrorInfo{
			Message: "No GitHub token found in the environment.",
			Action:  "Create a token with 'repo' scope and export it, e.g. export GITHUB_TOKEN=<token>.",
		},
	},
	{
		err: ErrNoInternet,
		info: ErrorInfo{
			Message: "No internet connection. Local commits are kept.",
			Action:  "Run 'git push' manually once you are back online.",
		},
	},
	{
		err: ErrNoRemote,
		info: ErrorInfo{
			Message: "The repository has no remote configured.",
			Action:  "Add one with 'git remote add origin <url>' or let syncgit create it.",
		},
	},
	{
		err: ErrBadCredential,
		info: ErrorInfo{
			Message: "GitHub rejected the access token.",
			Action:  "Check that the token is valid and has not expired.",
		},
	},
	{
		err: ErrInsufficientScope,
		info: ErrorInfo{
			Message: "The access token lacks the permissions needed for this operation.",
			Action:  "Regenerate the token with the 'repo' scope.",
		},
	},
	{
		err: ErrRepoNameConflict,
		info: ErrorInfo{
			Message: "A repository with that name already exists on GitHub.",
			Action:  "Choose another name or adopt the existing repository.",
		},
	},
	{
		err: ErrInvalidRepoName,
		info: ErrorInfo{
			Message: "The repository name is not valid.",
			Action:  "Use only letters, digits, '.', '-' and '_'.",
		},
	},
	{
		err: ErrHostingAPI,
		info: ErrorInfo{
			Message: "The GitHub API request failed.",
			Action:  "Check your network connection and try again.",
		},
	},
	{
		err: ErrCommandFailed,
		info: ErrorInfo{
			Message: "A git command failed. See the output above for details.",
			Action:  "",
		},
	},

	// ===================
	// Configuration
	// ===================
	{
		err: ErrConfigNil,
		info: ErrorInfo{
			Message: "Configuration is not loaded.",
			Action:  "Ensure config.yaml exists and is valid YAML.",
		},
	},
	{
		err: ErrConfigInvalidAuth,
		info: ErrorInfo{
			Message: "Invalid auth configuration.",
			Action:  "Check the 'auth' section of your syncgit config.",
		},
	},
	{
		err: ErrConfigInvalidNetwork,
		info: ErrorInfo{
			Message: "Invalid network configuration.",
			Action:  "Check the 'network' section of your syncgit config.",
		},
	},
	{
		err: ErrConfigInvalidHosting,
		info: ErrorInfo{
			Message: "Invalid hosting configuration.",
			Action:  "Check the 'hosting' section of your syncgit config.",
		},
	},
	{
		err: ErrConfigInvalidSync,
		info: ErrorInfo{
			Message: "Invalid sync configuration.",
			Action:  "Check the 'sync' section of your syncgit config.",
		},
	},
	{
		err: ErrConfigInvalidScan,
		info: ErrorInfo{
			Message: "Invalid scan configuration.",
			Action:  "Check the 'scan' section of your syncgit config.",
		},
	},
	{
		err: ErrInvalidOutputFormat,
		info: ErrorInfo{
			Message: "Invalid output format.",
			Action:  "Use --output text or --output json.",
		},
	},
	{
		err: ErrNotDirectory,
		info: ErrorInfo{
			Message: "The path given is not a directory.",
			Action:  "Pass a directory that exists, or omit it to use the current one.",
		},
	},
	{
		err: ErrEmptyValue,
		info: ErrorInfo{
			Message: "A required value was not provided.",
			Action:  "Provide the required value and try again.",
		},
	},
}

//nolint:gochecknoglobals // Built once from errorInfoEntries
var errorInfoMap = buildErrorInfoMap()

// buildErrorInfoMap creates a map from the errorInfoEntries slice.
func buildErrorInfoMap() map[error]ErrorInfo {
	m := make(map[error]ErrorInfo, len(errorInfoEntries))
	for _, entry := range errorInfoEntries {
		m[entry.err] = entry.info
	}
	return m
}

// getErrorInfo looks up the ErrorInfo for a given error.
// It first tries a direct map lookup for unwrapped sentinel errors,
// then falls back to errors.Is() traversal for wrapped errors.
func getErrorInfo(err error) ErrorInfo {
	if info, ok := errorInfoMap[err]; ok {
		return info
	}
	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}
	return ErrorInfo{Message: err.Error()}
}

// UserMessage returns a user-friendly message for common errors.
// For unrecognized errors, it returns the error's original message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return getErrorInfo(err).Message
}

// Actionable returns a user-friendly error message along with a suggested
// action the user can take to resolve or work around the issue.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}
