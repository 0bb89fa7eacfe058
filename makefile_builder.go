package hwtbuild

import (
	"bytes"
	"context"
	"errors"

	"github.com/magefile/mage/sh"
)

// MakefileBuilder builds libxdc and capstone from the workspace's recipe.
//
// The recipe is run as `<make> -f c_deps.mk` with the process working
// directory set to the workspace, so the recipe's relative paths resolve
// inside it. Artifacts are expected under inst/lib and inst/include.
type MakefileBuilder struct {
	Program string            // make program; defaults to make
	Recipe  string            // recipe file name; defaults to c_deps.mk
	Env     map[string]string // extra environment for the tool
}

// NewMakefileBuilder creates a builder using the configured make program.
func NewMakefileBuilder(config *BuildConfig) *MakefileBuilder {
	return &MakefileBuilder{Program: config.Make, Recipe: DepsMakefile}
}

// Name returns the builder name
func (b *MakefileBuilder) Name() string {
	return "libxdc"
}

// RequiredTools returns the tools needed to run the recipe
func (b *MakefileBuilder) RequiredTools() []ToolRequirement {
	return []ToolRequirement{
		{
			Name:         b.program(),
			Alternatives: []string{makeProgram, gmakeProgram},
			Purpose:      "Build automation tool",
		},
	}
}

// CheckTools verifies that make is available
func (b *MakefileBuilder) CheckTools() error {
	return CheckRequiredTools(b.RequiredTools())
}

// Build runs the recipe inside workspace.
func (b *MakefileBuilder) Build(ctx context.Context, workspace string) (*BuildResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	Logger().Info().Str("workspace", workspace).Msgf("Building %s...", b.Name())

	result := &BuildResult{}
	err := WithWorkingDir(workspace, func() error {
		return b.runMake(result)
	})
	if err != nil {
		if !errors.Is(err, ErrSpawn) && !errors.Is(err, ErrBuildTool) {
			err = opError("enter workspace", workspace, ErrSpawn, err)
		}
		result.Error = err
		return result, err
	}
	return result, nil
}

// runMake must be called with the working directory set to the workspace.
func (b *MakefileBuilder) runMake(result *BuildResult) error {
	program := b.program()
	args := []string{"-f", b.recipe()}

	var stdout, stderr bytes.Buffer
	ran, err := sh.Exec(b.Env, &stdout, &stderr, program, args...)
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()
	result.ExitCode = sh.ExitStatus(err)

	if !ran {
		return opError("run "+program, b.recipe(), ErrSpawn, err)
	}
	if err != nil {
		return BuildError(b.Name(), result, err)
	}

	result.Success = true
	return nil
}

// Clean removes build artifacts
func (b *MakefileBuilder) Clean(ctx context.Context, workspace string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Ignore errors - the recipe may not have a clean target
	_ = WithWorkingDir(workspace, func() error {
		_, err := sh.Exec(b.Env, nil, nil, b.program(), "-f", b.recipe(), "clean")
		return err
	})
	return nil
}

func (b *MakefileBuilder) program() string {
	if b.Program != "" {
		return b.Program
	}
	return makeProgram
}

func (b *MakefileBuilder) recipe() string {
	if b.Recipe != "" {
		return b.Recipe
	}
	return DepsMakefile
}
