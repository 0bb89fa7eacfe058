package hwtbuild

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/blakesmith/ar"
	"golang.org/x/sync/errgroup"
)

// arNameMax is the longest member name a plain ar header can hold.
const arNameMax = 15

// CompileUnit accumulates the C sources, include paths, and flags that make
// up one static library.
type CompileUnit struct {
	Name     string
	Files    []string
	Includes []string
	Flags    []string
}

// NewCompileUnit starts an empty unit for library name.
func NewCompileUnit(name string) *CompileUnit {
	return &CompileUnit{Name: name}
}

// File adds a source file.
func (u *CompileUnit) File(path string) *CompileUnit {
	u.Files = append(u.Files, path)
	return u
}

// Include adds an include directory.
func (u *CompileUnit) Include(dir string) *CompileUnit {
	u.Includes = append(u.Includes, dir)
	return u
}

// Flag adds a compiler flag.
func (u *CompileUnit) Flag(flag string) *CompileUnit {
	u.Flags = append(u.Flags, flag)
	return u
}

// LibraryPath returns where the archive for u is written.
func (u *CompileUnit) LibraryPath(outDir string) string {
	return filepath.Join(outDir, "lib"+u.Name+".a")
}

// targetFlags returns the flags selecting the target's ABI.
func targetFlags(config *BuildConfig) []string {
	switch config.TargetArch {
	case "x86_64":
		return []string{"-m64"}
	case "x86", "i686":
		return []string{"-m32"}
	default:
		return nil
	}
}

// CompileStaticLibrary compiles every source in unit and archives the objects
// into lib<name>.a under config.OutDir.
//
// The library is produced even when unit has no sources. On success the
// link-lib and link-search directives for the archive are appended to
// directives, as Cargo's C build helpers do.
func CompileStaticLibrary(ctx context.Context, config *BuildConfig, unit *CompileUnit, directives *Directives) (string, error) {
	if err := CheckRequiredTools(compilerRequirements(config)); err != nil {
		return "", opError("compile "+unit.Name, "", ErrCompile, err)
	}

	objDir := filepath.Join(config.OutDir, unit.Name+"-objs")
	if err := os.MkdirAll(objDir, 0o755); err != nil {
		return "", opError("create object dir", objDir, ErrCompile, err)
	}

	objects, err := compileObjects(ctx, config, unit, objDir)
	if err != nil {
		return "", err
	}

	libPath := unit.LibraryPath(config.OutDir)
	if err := writeArchive(libPath, objects); err != nil {
		return "", opError("archive", libPath, ErrCompile, err)
	}

	if err := runCompilerTool(ctx, "index", libPath, config.Ranlib, libPath); err != nil {
		return "", err
	}

	Logger().Debug().Str("library", libPath).Int("objects", len(objects)).Msg("compiled static library")

	directives.LinkStatic(unit.Name)
	directives.LinkSearch("native=" + config.OutDir)
	return libPath, nil
}

// compileObjects compiles one source at a time unless config.Jobs asks for
// more. Objects are returned in source order regardless of completion order.
func compileObjects(ctx context.Context, config *BuildConfig, unit *CompileUnit, objDir string) ([]string, error) {
	jobs := max(config.Jobs, 1)

	objects := make([]string, len(unit.Files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, src := range unit.Files {
		i, src := i, src
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			obj, err := compileObject(gctx, config, unit, objDir, i, src)
			if err != nil {
				return err
			}
			objects[i] = obj
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return objects, nil
}

func compileObject(ctx context.Context, config *BuildConfig, unit *CompileUnit, objDir string, index int, src string) (string, error) {
	if !filepath.IsAbs(src) {
		src = filepath.Join(config.WorkDir, src)
	}
	if !MatchesExtension(src, ".c", ".s", ".S") {
		return "", opError("compile", src, ErrCompile, fmt.Errorf("not a C or assembly source"))
	}

	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	obj := filepath.Join(objDir, fmt.Sprintf("%d-%s.o", index, base))

	args := append([]string{}, targetFlags(config)...)
	args = append(args, "-ffunction-sections", "-fdata-sections", "-fPIC")
	args = append(args, config.CFlags...)
	args = append(args, unit.Flags...)
	for _, inc := range unit.Includes {
		if !filepath.IsAbs(inc) {
			inc = filepath.Join(config.WorkDir, inc)
		}
		args = append(args, "-I", inc)
	}
	args = append(args, "-c", src, "-o", obj)

	if config.Verbose {
		Logger().Info().Msgf("Running: %s %s", config.CC, strings.Join(args, " "))
	}

	if err := runCompilerTool(ctx, "compile", src, config.CC, args...); err != nil {
		return "", err
	}
	return obj, nil
}

// runCompilerTool runs one compiler or indexer step and reports failures as
// ErrCompile, keeping the captured streams on a ToolFailure.
func runCompilerTool(ctx context.Context, op, path, tool string, args ...string) error {
	result, ran, err := runTool(ctx, tool, args...)
	switch {
	case err == nil:
		return nil
	case !ran:
		return opError(op, path, ErrCompile, opError("run "+tool, "", ErrSpawn, err))
	default:
		return opError(op, path, ErrCompile, BuildError(tool, result, err))
	}
}

// writeArchive writes objects into a fresh ar archive at libPath. Member
// times are zeroed so that identical inputs give identical archives.
func writeArchive(libPath string, objects []string) (err error) {
	f, err := os.Create(libPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()

	w := ar.NewWriter(f)
	if err := w.WriteGlobalHeader(); err != nil {
		return err
	}

	for _, obj := range objects {
		data, err := os.ReadFile(obj)
		if err != nil {
			return err
		}
		hdr := &ar.Header{
			Name:    memberName(filepath.Base(obj)),
			ModTime: time.Unix(0, 0),
			Mode:    0o644,
			Size:    int64(len(data)),
		}
		if err := w.WriteHeader(hdr); err != nil {
			return err
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
	}
	return nil
}

// memberName shortens name to fit an ar header, keeping its extension.
func memberName(name string) string {
	if len(name) <= arNameMax {
		return name
	}
	ext := filepath.Ext(name)
	return name[:arNameMax-len(ext)] + ext
}
