package hwtbuild

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureWorkspaceCreatesDirAndRecipeLink(t *testing.T) {
	outDir := t.TempDir()
	workDir := t.TempDir()

	path, err := EnsureWorkspace(outDir, workDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, DepsDirName), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	target, err := os.Readlink(filepath.Join(path, DepsMakefile))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(workDir, DepsMakefile), target)
}

func TestEnsureWorkspaceIsIdempotent(t *testing.T) {
	outDir := t.TempDir()
	workDir := t.TempDir()

	first, err := EnsureWorkspace(outDir, workDir)
	require.NoError(t, err)

	// Drop the link: a second call must not recreate it, proving that
	// nothing is created once the directory exists.
	link := filepath.Join(first, DepsMakefile)
	require.NoError(t, os.Remove(link))

	second, err := EnsureWorkspace(outDir, workDir)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	_, err = os.Lstat(link)
	assert.True(t, errors.Is(err, os.ErrNotExist), "recipe link was recreated: %v", err)
}

func TestEnsureWorkspaceDoesNotVerifyExistingContents(t *testing.T) {
	outDir := t.TempDir()
	stale := filepath.Join(outDir, DepsDirName)
	require.NoError(t, os.Mkdir(stale, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(stale, "leftover"), []byte("x"), 0o600))

	path, err := EnsureWorkspace(outDir, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, stale, path)
	assert.FileExists(t, filepath.Join(stale, "leftover"))
}

func TestEnsureWorkspaceMissingBaseDir(t *testing.T) {
	base := filepath.Join(t.TempDir(), "does", "not", "exist")

	_, err := EnsureWorkspace(base, t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWorkspaceCreation)

	var opErr *Error
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "create workspace", opErr.Op)
}

func TestEnsureWorkspaceReadOnlyBaseDir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}
	base := t.TempDir()
	require.NoError(t, os.Chmod(base, 0o500))
	t.Cleanup(func() { _ = os.Chmod(base, 0o700) })

	_, err := EnsureWorkspace(base, t.TempDir())
	assert.ErrorIs(t, err, ErrWorkspaceCreation)
}

func TestEnsureWorkspaceRemovesDirWhenLinkFails(t *testing.T) {
	orig := osSymlink
	t.Cleanup(func() { osSymlink = orig })
	osSymlink = func(string, string) error { return errors.New("operation not permitted") }

	outDir := t.TempDir()
	_, err := EnsureWorkspace(outDir, t.TempDir())
	require.ErrorIs(t, err, ErrWorkspaceCreation)
	assert.ErrorContains(t, err, "link recipe")
	assert.NoDirExists(t, filepath.Join(outDir, DepsDirName))

	osSymlink = orig
	workDir := t.TempDir()
	path, err := EnsureWorkspace(outDir, workDir)
	require.NoError(t, err)
	target, err := os.Readlink(filepath.Join(path, DepsMakefile))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(workDir, DepsMakefile), target)
}
