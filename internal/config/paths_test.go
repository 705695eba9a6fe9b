package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalConfigPath(t *testing.T) {
	t.Run("home directory", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		t.Setenv("SYNCGIT_HOME", "")

		path, err := GlobalConfigPath()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".syncgit", "config.yaml"), path)
	})

	t.Run("override", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("SYNCGIT_HOME", dir)

		path, err := GlobalConfigPath()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "config.yaml"), path)
	})
}

func TestProjectConfigPath(t *testing.T) {
	assert.Equal(t, filepath.Join("repo", ".syncgit.yaml"), ProjectConfigPath("repo"))
}
