package hwtbuild

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// FeatureProbe compiles small C programs to find out what the toolchain and
// platform support.
//
// A probe that fails to compile for any reason (syntax error, missing header,
// unsupported flag, missing compiler) means "feature absent", never an error.
// Nothing a probe does is visible to the rest of the build except the object
// file it leaves in OutDir.
type FeatureProbe struct {
	CC        string   // C compiler
	SourceDir string   // Directory holding the probe sources
	OutDir    string   // Where throwaway objects are written
	Flags     []string // Extra compiler flags
}

// NewFeatureProbe returns a probe that reads sources from the configured
// feature_checks directory.
func NewFeatureProbe(config *BuildConfig) *FeatureProbe {
	return &FeatureProbe{
		CC:        config.CC,
		SourceDir: config.FeatureChecksPath(),
		OutDir:    config.OutDir,
		Flags:     targetFlags(config),
	}
}

// Check compiles the probe source called name and reports whether the
// compiler accepted it.
func (p *FeatureProbe) Check(name string) bool {
	src := filepath.Join(p.SourceDir, name)
	if _, err := os.Stat(src); err != nil {
		Logger().Debug().Str("probe", name).Err(err).Msg("probe source unavailable")
		return false
	}

	output := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	obj := filepath.Join(p.OutDir, output+".o")

	args := append([]string{}, p.Flags...)
	args = append(args, "-c", src, "-o", obj)

	result, ran, err := runTool(context.Background(), p.CC, args...)
	if err != nil {
		Logger().Debug().
			Str("probe", name).
			Bool("ran", ran).
			Err(opError("probe", src, ErrProbeFailed, err)).
			Str("output", strings.TrimSpace(result.Stdout+result.Stderr)).
			Msg("feature not available")
		return false
	}

	Logger().Debug().Str("probe", name).Msg("feature available")
	return true
}
