package hwtbuild

import "context"

// Builder builds an external native dependency inside a workspace.
//
// # Builder Lifecycle
//
//  1. EnsureWorkspace() - the orchestrator provisions the workspace
//  2. Build() - compiles the dependency in place
//  3. Clean() - optional removal of build artifacts
//
// Build is fail-fast: a tool that cannot be started yields an error wrapping
// ErrSpawn, a tool that exits nonzero yields a *ToolFailure wrapping
// ErrBuildTool. Neither is retried.
type Builder interface {
	// Name returns the human-readable name of the dependency being built.
	//
	// This name is used in error messages and logs.
	Name() string

	// Build compiles the dependency inside workspace and returns the
	// captured output of the build tool.
	Build(ctx context.Context, workspace string) (*BuildResult, error)

	// Clean removes build artifacts from workspace.
	//
	// Returns nil if cleaning is not supported or completes successfully.
	Clean(ctx context.Context, workspace string) error
}
