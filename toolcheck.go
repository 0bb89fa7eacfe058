package hwtbuild

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Tool name constants
const (
	makeProgram   = "make"
	gmakeProgram  = "gmake"
	ccProgram     = "cc"
	ranlibProgram = "ranlib"
)

// Swapped out by tests.
var (
	execLookPath       = exec.LookPath
	execCommandContext = exec.CommandContext
)

// ToolChecker is an optional interface for builders that require external tools.
//
// The orchestrator calls CheckTools before Build so that a missing tool is
// reported by name instead of as a failed exec.
type ToolChecker interface {
	// RequiredTools returns the list of tools this builder needs.
	RequiredTools() []ToolRequirement

	// CheckTools returns nil if all required tools are found.
	CheckTools() error
}

// ToolRequirement describes a build tool dependency.
//
// Tool with alternatives:
//
//	ToolRequirement{
//	    Name: "cc",
//	    Alternatives: []string{"gcc", "clang"},
//	    Purpose: "C compiler",
//	}
type ToolRequirement struct {
	// Name is the primary tool binary name (e.g., "make", "cc").
	Name string

	// Alternatives are tool names that also satisfy this requirement.
	Alternatives []string

	// Purpose is a human-readable description of why this tool is needed.
	Purpose string
}

// CheckToolAvailable checks if a tool is available in the system PATH.
func CheckToolAvailable(tool string) error {
	if _, err := execLookPath(tool); err != nil {
		return fmt.Errorf("%s not found in PATH", tool)
	}
	return nil
}

// CheckRequiredTools verifies all required tools are available.
//
// The primary name is tried first, then each alternative in order. All
// missing required tools are reported in a single error wrapping
// ErrToolMissing:
//
//	missing required tools: make (Build automation tool), cc (C compiler)
func CheckRequiredTools(requirements []ToolRequirement) error {
	var missingTools []string

	for _, req := range requirements {
		found := CheckToolAvailable(req.Name) == nil

		if !found {
			for _, alt := range req.Alternatives {
				if CheckToolAvailable(alt) == nil {
					found = true
					break
				}
			}
		}

		if !found {
			if req.Purpose != "" {
				missingTools = append(missingTools, fmt.Sprintf("%s (%s)", req.Name, req.Purpose))
			} else {
				missingTools = append(missingTools, req.Name)
			}
		}
	}

	switch len(missingTools) {
	case 0:
		return nil
	case 1:
		return fmt.Errorf("%w: %s not found in PATH", ErrToolMissing, missingTools[0])
	default:
		return fmt.Errorf("%w: missing required tools: %s", ErrToolMissing, strings.Join(missingTools, ", "))
	}
}

// compilerRequirements lists what the final static library compile needs.
func compilerRequirements(config *BuildConfig) []ToolRequirement {
	return []ToolRequirement{
		{Name: config.CC, Purpose: "C compiler"},
		{Name: config.Ranlib, Purpose: "Archive indexer"},
	}
}

// defaultCompiler returns the C compiler, honoring CC.
func defaultCompiler() string {
	if cc := strings.TrimSpace(os.Getenv("CC")); cc != "" {
		return cc
	}
	return ccProgram
}

// defaultRanlib returns the archive indexer, honoring RANLIB.
func defaultRanlib() string {
	if ranlib := strings.TrimSpace(os.Getenv("RANLIB")); ranlib != "" {
		return ranlib
	}
	return ranlibProgram
}

// defaultMakeProgram returns the make program for the platform, honoring MAKE.
func defaultMakeProgram() string {
	if makeEnv := strings.TrimSpace(os.Getenv("MAKE")); makeEnv != "" {
		return makeEnv
	}

	// BSD make does not understand GNU makefiles
	switch runtime.GOOS {
	case "freebsd", "openbsd", "netbsd", "dragonfly":
		return gmakeProgram
	default:
		return makeProgram
	}
}
