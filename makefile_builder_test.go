package hwtbuild

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorkspace(t *testing.T) string {
	t.Helper()
	ws, err := EnsureWorkspace(t.TempDir(), t.TempDir())
	require.NoError(t, err)
	return ws
}

func TestMakefileBuilderSuccessRestoresWorkingDir(t *testing.T) {
	before := mustGetwd(t)
	ws := newTestWorkspace(t)
	pwdFile := filepath.Join(t.TempDir(), "pwd")

	builder := &MakefileBuilder{Program: fakeTool(t, 0)}
	t.Setenv(fakePwdEnv, pwdFile)
	t.Setenv(fakeStdoutEnv, "built libxdc\n")

	result, err := builder.Build(context.Background(), ws)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, "built libxdc\n", result.Stdout)

	ranIn, err := os.ReadFile(pwdFile)
	require.NoError(t, err)
	sameDir(t, ws, string(ranIn))

	assert.Equal(t, before, mustGetwd(t))
}

func TestMakefileBuilderFailureCapturesStreams(t *testing.T) {
	before := mustGetwd(t)
	ws := newTestWorkspace(t)

	builder := &MakefileBuilder{Program: fakeTool(t, 2)}
	t.Setenv(fakeStdoutEnv, "cc -c decoder.c\n")
	t.Setenv(fakeStderrEnv, "decoder.c:1: error: boom\n")

	result, err := builder.Build(context.Background(), ws)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBuildTool)
	assert.NotErrorIs(t, err, ErrSpawn)

	var failure *ToolFailure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, "libxdc", failure.Tool)
	assert.Equal(t, 2, failure.ExitStatus())

	require.NotNil(t, result)
	assert.False(t, result.Success)
	assert.Equal(t, 2, result.ExitCode)
	assert.Equal(t, "cc -c decoder.c\n", result.Stdout)
	assert.Equal(t, "decoder.c:1: error: boom\n", result.Stderr)

	assert.Equal(t, before, mustGetwd(t))
}

func TestMakefileBuilderSpawnFailure(t *testing.T) {
	before := mustGetwd(t)
	ws := newTestWorkspace(t)

	builder := &MakefileBuilder{Program: filepath.Join(t.TempDir(), "no-such-make")}
	result, err := builder.Build(context.Background(), ws)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSpawn)
	assert.NotErrorIs(t, err, ErrBuildTool)
	require.NotNil(t, result)
	assert.False(t, result.Success)

	assert.Equal(t, before, mustGetwd(t))
}

func TestMakefileBuilderMissingWorkspace(t *testing.T) {
	before := mustGetwd(t)
	builder := &MakefileBuilder{Program: fakeTool(t, 0)}

	_, err := builder.Build(context.Background(), filepath.Join(t.TempDir(), "gone"))

	assert.ErrorIs(t, err, ErrSpawn)
	assert.Equal(t, before, mustGetwd(t))
}

func TestMakefileBuilderCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&MakefileBuilder{}).Build(ctx, t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMakefileBuilderCleanIgnoresFailures(t *testing.T) {
	before := mustGetwd(t)
	ws := newTestWorkspace(t)

	builder := &MakefileBuilder{Program: fakeTool(t, 1)}
	assert.NoError(t, builder.Clean(context.Background(), ws))
	assert.Equal(t, before, mustGetwd(t))
}

func TestMakefileBuilderDefaults(t *testing.T) {
	builder := NewMakefileBuilder(&BuildConfig{Make: "gmake"})
	assert.Equal(t, "libxdc", builder.Name())
	assert.Equal(t, "gmake", builder.program())
	assert.Equal(t, DepsMakefile, builder.recipe())

	empty := &MakefileBuilder{}
	assert.Equal(t, makeProgram, empty.program())
	assert.Equal(t, DepsMakefile, empty.recipe())
}
