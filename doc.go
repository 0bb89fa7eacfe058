// Package hwtbuild configures the native side of hwtracer at build time.
//
// It replaces hwtracer's Cargo build script: it decides whether the perf_pt
// backend can be compiled for the target, builds the libxdc decoder and its
// capstone dependency, checks whether the build machine's CPU supports Intel
// Processor Trace, compiles the C sources into a static library, and reports
// the resulting link and cfg settings to Cargo.
//
// # Basic Usage
//
//	config, err := hwtbuild.ConfigFromEnv()
//	if err != nil {
//	    return err
//	}
//	orch := hwtbuild.NewOrchestrator(config)
//	if _, err := orch.Execute(ctx, os.Stdout); err != nil {
//	    return err
//	}
//
// # Architecture
//
//	Orchestrator
//	├── EnsureWorkspace   (OUT_DIR/c_deps with a c_deps.mk symlink)
//	├── FeatureProbe      (feature_checks/*.c compiled with cc)
//	├── MakefileBuilder   (make -f c_deps.mk inside the workspace)
//	├── CPUCapability     (CPUID leaf 7, EBX bit 25)
//	├── CompileStaticLibrary (cc + ar + ranlib)
//	└── RerunExcept       (rerun-if-changed for every non-auxiliary file)
//
// Directives are collected in a Directives value and written only after
// every step has succeeded, so a failed run never hands Cargo a partial
// configuration.
//
// # Platform Support
//
// The perf_pt backend is only considered for linux/x86_64 targets. Every
// other target gets a library built from the portable sources alone.
package hwtbuild
