package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrz1836/syncgit/internal/constants"
	"github.com/mrz1836/syncgit/internal/errors"
)

// GlobalConfigDir returns the path to the global syncgit directory: the
// value of SYNCGIT_HOME when set, otherwise ~/.syncgit.
//
// Returns an error if the home directory cannot be determined.
func GlobalConfigDir() (string, error) {
	if dir := os.Getenv(constants.HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, constants.SyncgitHome), nil
}

// GlobalConfigPath returns the full path to the global configuration file.
func GlobalConfigPath() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", fmt.Errorf("get global config path: %w", err)
	}
	return filepath.Join(dir, constants.GlobalConfigName), nil
}

// ProjectConfigPath returns the repository-level configuration file for root.
func ProjectConfigPath(root string) string {
	return filepath.Join(root, constants.ProjectConfigName)
}
