package hwtbuild

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
)

// ConfigFileEnv names the environment variable pointing at an optional TOML
// file with tool overrides.
const ConfigFileEnv = "HWTRACER_BUILD_CONFIG"

// FileConfig is the optional TOML configuration:
//
//	log_level = "debug"
//	cflags = ["-O2"]
//	jobs = 4
//
//	[tools]
//	cc = "clang"
//	make = "gmake"
type FileConfig struct {
	LogLevel string      `toml:"log_level"`
	CFlags   []string    `toml:"cflags"`
	Jobs     int         `toml:"jobs"`
	Tools    ToolsConfig `toml:"tools"`
}

// ToolsConfig overrides the external programs used by a run.
type ToolsConfig struct {
	CC     string `toml:"cc"`
	Ranlib string `toml:"ranlib"`
	Make   string `toml:"make"`
}

// goArchToCargo maps GOARCH names onto Rust's target_arch names.
var goArchToCargo = map[string]string{
	"amd64":   "x86_64",
	"386":     "x86",
	"arm64":   "aarch64",
	"arm":     "arm",
	"riscv64": "riscv64",
	"ppc64le": "powerpc64",
	"s390x":   "s390x",
}

// HostArch returns the running architecture in Cargo's naming.
func HostArch() string {
	if arch, ok := goArchToCargo[runtime.GOARCH]; ok {
		return arch
	}
	return runtime.GOARCH
}

// ConfigFromEnv reads the run's configuration from the environment Cargo
// provides to build scripts.
//
// OUT_DIR is required. The target platform comes from CARGO_CFG_TARGET_OS
// and CARGO_CFG_TARGET_ARCH, defaulting to the host. The working directory
// is captured once here; later changes of directory do not affect it.
func ConfigFromEnv() (*BuildConfig, error) {
	outDir := strings.TrimSpace(os.Getenv("OUT_DIR"))
	if outDir == "" {
		return nil, fmt.Errorf("OUT_DIR is not set; run under cargo or pass --out-dir")
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	config := &BuildConfig{
		TargetOS:    envOr("CARGO_CFG_TARGET_OS", runtime.GOOS),
		TargetArch:  envOr("CARGO_CFG_TARGET_ARCH", HostArch()),
		OutDir:      outDir,
		WorkDir:     workDir,
		ManifestDir: envOr("CARGO_MANIFEST_DIR", workDir),
		CC:          defaultCompiler(),
		Ranlib:      defaultRanlib(),
		Make:        defaultMakeProgram(),
	}
	if err := config.normalize(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadConfigFile applies the TOML file at path on top of config.
func LoadConfigFile(path string, config *BuildConfig) (*FileConfig, error) {
	var fc FileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}

	if fc.Tools.CC != "" {
		config.CC = fc.Tools.CC
	}
	if fc.Tools.Ranlib != "" {
		config.Ranlib = fc.Tools.Ranlib
	}
	if fc.Tools.Make != "" {
		config.Make = fc.Tools.Make
	}
	config.CFlags = append(config.CFlags, fc.CFlags...)
	if fc.Jobs < 0 {
		return nil, fmt.Errorf("%s: jobs must not be negative", path)
	}
	if fc.Jobs > 0 {
		config.Jobs = fc.Jobs
	}
	return &fc, nil
}

// normalize makes every path absolute so that the scoped directory change
// done while building dependencies cannot change their meaning.
func (c *BuildConfig) normalize() error {
	for _, p := range []*string{&c.OutDir, &c.WorkDir, &c.ManifestDir} {
		if *p == "" {
			continue
		}
		abs, err := filepath.Abs(*p)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", *p, err)
		}
		*p = abs
	}
	return nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
