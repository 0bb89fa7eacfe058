package hwtbuild

import (
	"errors"
	"os"
	"path/filepath"
)

// osSymlink is swapped out by tests.
var osSymlink = os.Symlink

// EnsureWorkspace returns the dependency workspace under baseDir, creating it
// on first use.
//
// A new workspace is a directory named DepsDirName holding a symlink to the
// DepsMakefile found in workDir. If the directory already exists nothing is
// done and its contents are not inspected; a workspace outlives the run that
// created it and later runs reuse whatever make left behind. A directory
// whose recipe link could not be created is removed again, so the next run
// starts over.
//
// Concurrent runs against the same baseDir are not supported.
func EnsureWorkspace(baseDir, workDir string) (string, error) {
	path := filepath.Join(baseDir, DepsDirName)

	if _, err := os.Lstat(path); err == nil {
		return path, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", opError("stat workspace", path, ErrWorkspaceCreation, err)
	}

	if err := os.Mkdir(path, 0o755); err != nil {
		return "", opError("create workspace", path, ErrWorkspaceCreation, err)
	}

	src := filepath.Join(workDir, DepsMakefile)
	dest := filepath.Join(path, DepsMakefile)
	if err := osSymlink(src, dest); err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			err = errors.Join(err, rmErr)
		}
		return "", opError("link recipe", dest, ErrWorkspaceCreation, err)
	}

	Logger().Debug().Str("workspace", path).Str("recipe", src).Msg("created dependency workspace")
	return path, nil
}
