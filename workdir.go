package hwtbuild

import (
	"errors"
	"fmt"
	"os"
	"sync"
)

// chdirMu serializes changes to the process working directory, which is
// shared by every goroutine.
var chdirMu sync.Mutex

// WithWorkingDir runs fn with the process working directory set to dir and
// restores the previous directory afterwards, whether fn returns an error,
// succeeds, or panics.
//
// Code running inside fn must not call WithWorkingDir again.
func WithWorkingDir(dir string, fn func() error) (err error) {
	chdirMu.Lock()
	defer chdirMu.Unlock()

	prev, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("failed to enter %s: %w", dir, err)
	}
	defer func() {
		if restoreErr := os.Chdir(prev); restoreErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to restore working directory %s: %w", prev, restoreErr))
		}
	}()

	return fn()
}
