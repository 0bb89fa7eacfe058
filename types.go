package hwtbuild

import "path/filepath"

// Fixed layout of the hwtracer source tree and its dependency workspace.
const (
	// FeatureChecksDir holds one C file per feature probe.
	FeatureChecksDir = "feature_checks"

	// DepsDirName is the workspace directory created under OUT_DIR.
	DepsDirName = "c_deps"

	// DepsMakefile is the recipe used to build libxdc and capstone.
	DepsMakefile = "c_deps.mk"

	// LibraryName is the static library produced from the C sources.
	LibraryName = "hwtracer_c"

	// UtilIncludeDir is always on the include path of the C sources.
	UtilIncludeDir = "src/util"
)

// Target platform that enables the perf_pt backend.
const (
	SupportedOS   = "linux"
	SupportedArch = "x86_64"
)

// BuildResult contains the output and status of one external build invocation.
//
// Stdout and Stderr are kept apart so that a failed build can echo them under
// separate labels.
type BuildResult struct {
	Success  bool   // True if the tool exited zero
	ExitCode int    // Exit status reported by the tool
	Stdout   string // Captured standard output
	Stderr   string // Captured standard error
	Error    error  // Error if the build failed, nil otherwise
}

// BuildConfig contains configuration for one orchestration run.
//
// It is read once at startup and never modified afterwards:
//   - TargetOS/TargetArch: the platform being compiled for, in Cargo's naming
//     (linux, x86_64)
//   - OutDir: Cargo's OUT_DIR, where the workspace and the library land
//   - WorkDir: working directory at start; the recipe and probe files live here
//   - ManifestDir: package root walked for rebuild triggers
//
// Tools selects the external programs used by the run.
type BuildConfig struct {
	// Target platform
	TargetOS   string
	TargetArch string

	// Paths
	OutDir      string
	WorkDir     string
	ManifestDir string

	// Tools
	CC     string // C compiler
	Ranlib string // Archive indexer
	Make   string // Recipe runner for the dependency workspace

	// Extra compiler flags applied to every object of the final library
	CFlags []string

	// Jobs bounds concurrent compiler processes; 0 or 1 compiles serially
	Jobs int

	Verbose bool
}

// FeatureChecksPath returns the directory holding the probe sources.
func (c *BuildConfig) FeatureChecksPath() string {
	return filepath.Join(c.WorkDir, FeatureChecksDir)
}

// Features records the boolean outcomes decided during a run.
type Features struct {
	PerfPT     bool // perf_pt backend compiled in
	PerfPTTest bool // CPU supports Intel PT, enabling hardware tests
}
