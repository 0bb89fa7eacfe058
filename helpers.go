package hwtbuild

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/fatih/color"
)

// Section labels used when echoing a failed build's captured streams.
const (
	stdoutLabel = ">>> stdout"
	stderrLabel = ">>> stderr"
)

var labelColor = color.New(color.FgYellow, color.Bold)

// MatchesExtension checks if a filename has any of the given extensions.
//
// The comparison is case-insensitive; extensions may be given with or
// without the leading dot.
//
//	if MatchesExtension(src, ".c", ".S") {
//	    // hand it to the C compiler
//	}
func MatchesExtension(filename string, extensions ...string) bool {
	lower := strings.ToLower(filename)
	for _, ext := range extensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// runTool runs name with args passed through verbatim and captures both
// streams into a BuildResult. The returned bool is false when the process
// could not be started at all.
func runTool(ctx context.Context, name string, args ...string) (*BuildResult, bool, error) {
	var stdout, stderr bytes.Buffer
	cmd := execCommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &BuildResult{
		Success: err == nil,
		Stdout:  stdout.String(),
		Stderr:  stderr.String(),
	}
	if err == nil {
		return result, true, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		result.ExitCode = -1
		return result, false, err
	}
	result.ExitCode = exitErr.ExitCode()
	return result, true, err
}

// ToolFailure is returned when an external tool ran and exited nonzero. It
// keeps the captured streams so the caller can show them.
type ToolFailure struct {
	Tool   string
	Result *BuildResult
	Err    error
}

func (e *ToolFailure) Error() string {
	return fmt.Sprintf("%s build failed: %v", e.Tool, e.Err)
}

func (e *ToolFailure) Unwrap() error {
	return e.Err
}

// ExitStatus lets mage's mg.ExitStatus report the tool's own exit code.
func (e *ToolFailure) ExitStatus() int {
	if e.Result != nil && e.Result.ExitCode > 0 {
		return e.Result.ExitCode
	}
	return 1
}

// BuildError creates a ToolFailure for builder from result and the
// underlying error.
//
// The error message carries only the builder name and cause; the streams are
// written by WriteBuildOutput so that long make logs do not end up inside
// a single error string.
func BuildError(builder string, result *BuildResult, err error) error {
	if err == nil {
		err = errors.New("exited with nonzero status")
	}
	return &ToolFailure{
		Tool:   builder,
		Result: result,
		Err:    fmt.Errorf("%w: %w", ErrBuildTool, err),
	}
}

// WriteBuildOutput echoes a failed build's captured streams under labels:
//
//	libxdc build failed
//	>>> stdout
//	cc -c decoder.c ...
//
//	>>> stderr
//	decoder.c:12: error: ...
func WriteBuildOutput(w io.Writer, name string, result *BuildResult) {
	if result == nil {
		return
	}
	fmt.Fprintf(w, "%s build failed\n", name)
	labelColor.Fprintln(w, stdoutLabel)
	fmt.Fprintln(w, strings.TrimRight(result.Stdout, "\n"))
	fmt.Fprintln(w)
	labelColor.Fprintln(w, stderrLabel)
	fmt.Fprintln(w, strings.TrimRight(result.Stderr, "\n"))
}
