package gitsource

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
		_, err := wt.Add(name)
		require.NoError(t, err)
	}
	_, err = wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return dir
}

func TestSync_CloneThenPull(t *testing.T) {
	ctx := context.Background()
	origin := initRepo(t, map[string]string{"week1.md": "Name: Two Sum\n"})
	dest := filepath.Join(t.TempDir(), "clone")

	require.NoError(t, Sync(ctx, origin, dest, io.Discard))
	data, err := os.ReadFile(filepath.Join(dest, "week1.md"))
	require.NoError(t, err)
	assert.Equal(t, "Name: Two Sum\n", string(data))

	// Second sync pulls and finds nothing new.
	assert.NoError(t, Sync(ctx, origin, dest, io.Discard))
}

func TestSync_BadURL(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "clone")
	err := Sync(context.Background(), filepath.Join(t.TempDir(), "does-not-exist"), dest, io.Discard)
	assert.Error(t, err)
}
