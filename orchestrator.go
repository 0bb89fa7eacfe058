package hwtbuild

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
)

// PerfPTProbe is the feature check deciding whether the perf_pt backend can
// be compiled.
const PerfPTProbe = "check_perf_pt.c"

// Conditional compilation flags handed to the Rust compiler.
const (
	CfgPerfPT     = "perf_pt"
	CfgPerfPTTest = "perf_pt_test"
)

// PerfPTSources are the backend's C sources, relative to the working directory.
var PerfPTSources = []string{
	"src/backends/perf_pt/collect.c",
	"src/backends/perf_pt/decode.c",
	"src/backends/perf_pt/util.c",
}

// Libraries produced by the dependency recipe, in link order.
var DepsLibraries = []string{"xdc", "capstone"}

// Prober reports whether a named feature probe compiles.
type Prober interface {
	Check(name string) bool
}

// CPU reports processor capabilities.
type CPU interface {
	SupportsProcessorTrace() bool
}

// CompileFunc produces the final static library.
type CompileFunc func(ctx context.Context, config *BuildConfig, unit *CompileUnit, directives *Directives) (string, error)

// RerunFunc registers rebuild triggers.
type RerunFunc func(root string, except []string, directives *Directives) error

// Orchestrator sequences a single build-script run:
//
//  1. Start the compile unit with the utility include path
//  2. Ensure the dependency workspace exists
//  3. Evaluate the linux/x86_64 platform gate
//  4. If the gate and the perf_pt probe pass, add the backend, build libxdc,
//     and record its include, link, and cfg directives
//  5. Compile the static library (always)
//  6. Register rebuild triggers
//
// Each step runs only after the previous one finished; the first error ends
// the run and no directives are emitted.
type Orchestrator struct {
	Config  *BuildConfig
	Probe   Prober
	CPU     CPU
	Builder Builder
	Compile CompileFunc
	Rerun   RerunFunc
}

// RunResult describes what a successful run decided and produced.
type RunResult struct {
	Features   Features
	Workspace  string
	Library    string
	Unit       *CompileUnit
	Directives *Directives
}

// NewOrchestrator wires the real probe, CPU query, make builder, compiler,
// and trigger walker for config.
func NewOrchestrator(config *BuildConfig) *Orchestrator {
	return &Orchestrator{
		Config:  config,
		Probe:   NewFeatureProbe(config),
		CPU:     HostCPU(),
		Builder: NewMakefileBuilder(config),
		Compile: CompileStaticLibrary,
		Rerun:   RerunExcept,
	}
}

// PlatformSupported reports whether the target passes the backend gate.
func (o *Orchestrator) PlatformSupported() bool {
	return o.Config.TargetOS == SupportedOS && o.Config.TargetArch == SupportedArch
}

// Run executes the orchestration and returns the accumulated directives
// without writing them anywhere.
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if o.Config == nil {
		return nil, fmt.Errorf("missing build config")
	}

	log := Logger()
	res := &RunResult{
		Unit:       NewCompileUnit(LibraryName).Include(UtilIncludeDir),
		Directives: &Directives{},
	}

	workspace, err := EnsureWorkspace(o.Config.OutDir, o.Config.WorkDir)
	if err != nil {
		return nil, err
	}
	res.Workspace = workspace

	if !o.PlatformSupported() {
		log.Info().
			Str("os", o.Config.TargetOS).
			Str("arch", o.Config.TargetArch).
			Msg("perf_pt backend not available for target")
	} else if !o.Probe.Check(PerfPTProbe) {
		log.Info().Str("probe", PerfPTProbe).Msg("perf_pt backend not supported by toolchain")
	} else if err := o.enablePerfPT(ctx, res); err != nil {
		return nil, err
	}

	lib, err := o.Compile(ctx, o.Config, res.Unit, res.Directives)
	if err != nil {
		return nil, err
	}
	res.Library = lib

	root := o.Config.ManifestDir
	if root == "" {
		root = o.Config.WorkDir
	}
	if err := o.Rerun(root, AuxiliaryFiles, res.Directives); err != nil {
		return nil, err
	}

	log.Debug().
		Bool(CfgPerfPT, res.Features.PerfPT).
		Bool(CfgPerfPTTest, res.Features.PerfPTTest).
		Int("directives", len(res.Directives.Items())).
		Msg("build configured")
	return res, nil
}

func (o *Orchestrator) enablePerfPT(ctx context.Context, res *RunResult) error {
	for _, src := range PerfPTSources {
		res.Unit.File(src)
	}

	if checker, ok := o.Builder.(ToolChecker); ok {
		if err := checker.CheckTools(); err != nil {
			return opError("build "+o.Builder.Name(), res.Workspace, ErrSpawn, err)
		}
	}
	if _, err := o.Builder.Build(ctx, res.Workspace); err != nil {
		return err
	}

	instLib := filepath.Join(res.Workspace, "inst", "lib")
	res.Unit.Include(filepath.Join(res.Workspace, "inst", "include") + string(filepath.Separator))
	res.Unit.Flag("-L" + instLib)
	res.Directives.LinkSearch(instLib)

	res.Directives.Cfg(CfgPerfPT)
	res.Features.PerfPT = true

	if o.CPU.SupportsProcessorTrace() {
		res.Directives.Cfg(CfgPerfPTTest)
		res.Features.PerfPTTest = true
	}

	for _, lib := range DepsLibraries {
		res.Directives.LinkStatic(lib)
	}
	return nil
}

// Execute runs the orchestration and, only if every step succeeded, writes
// the directives to w.
func (o *Orchestrator) Execute(ctx context.Context, w io.Writer) (*RunResult, error) {
	res, err := o.Run(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := res.Directives.WriteTo(w); err != nil {
		return nil, err
	}
	return res, nil
}
