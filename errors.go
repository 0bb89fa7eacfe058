package hwtbuild

import (
	"errors"
	"fmt"
)

var (
	// ErrProbeFailed indicates a feature probe did not compile. It is never
	// returned to callers of FeatureProbe.Check; it only appears in debug logs.
	ErrProbeFailed = errors.New("feature probe failed")

	// ErrWorkspaceCreation indicates the dependency workspace could not be created
	ErrWorkspaceCreation = errors.New("workspace creation failed")

	// ErrSpawn indicates an external tool could not be launched
	ErrSpawn = errors.New("could not start build tool")

	// ErrBuildTool indicates an external tool ran and exited nonzero
	ErrBuildTool = errors.New("build tool failed")

	// ErrCompile indicates the final static library could not be produced
	ErrCompile = errors.New("static library compile failed")

	// ErrDirectiveEmission indicates directives could not be written to the host
	ErrDirectiveEmission = errors.New("directive emission failed")

	// ErrRerun indicates the rebuild triggers could not be registered
	ErrRerun = errors.New("rebuild trigger registration failed")

	// ErrToolMissing indicates a required tool is not in PATH
	ErrToolMissing = errors.New("required tool missing")
)

// Error wraps an error with the orchestration step that produced it.
type Error struct {
	Op   string // Operation that failed
	Path string // Path involved, if any
	Err  error  // Underlying error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// opError joins a taxonomy sentinel with its cause so that both errors.Is
// checks and the cause's message survive.
func opError(op, path string, kind, cause error) error {
	if cause == nil {
		return &Error{Op: op, Path: path, Err: kind}
	}
	return &Error{Op: op, Path: path, Err: fmt.Errorf("%w: %w", kind, cause)}
}
