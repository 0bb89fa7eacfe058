package hwtbuild

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// AuxiliaryFiles never affect the compiled output, so changing them must not
// rerun the build.
var AuxiliaryFiles = []string{
	"README.md",
	"deny.toml",
	"LICENSE-*",
	"COPYRIGHT",
	"bors.toml",
	".buildbot.sh",
}

// alwaysSkipped are never build inputs.
var alwaysSkipped = []string{"target"}

// RerunExcept registers every file under root as a rebuild trigger except
// those matching the gitignore-style patterns in except.
//
// Hidden files and directories, the top-level target directory, and files
// ignored by the tree's own .gitignore files are skipped as well. Paths are
// emitted relative to root, slash-separated, in lexical order.
func RerunExcept(root string, except []string, directives *Directives) error {
	matcher, err := rerunMatcher(root, except)
	if err != nil {
		return opError("read ignore files", root, ErrRerun, err)
	}

	var paths []string
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if strings.HasPrefix(d.Name(), ".") || matcher.Match(parts, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			paths = append(paths, filepath.ToSlash(rel))
		}
		return nil
	})
	if walkErr != nil {
		return opError("walk", root, ErrRerun, walkErr)
	}

	sort.Strings(paths)
	for _, p := range paths {
		directives.RerunIfChanged(p)
	}
	return nil
}

// rerunMatcher combines the tree's .gitignore files with the fixed skips and
// the caller's exclusions. Later patterns take precedence, so the caller's
// list cannot be re-included by a .gitignore negation.
func rerunMatcher(root string, except []string) (gitignore.Matcher, error) {
	patterns, err := gitignore.ReadPatterns(osfs.New(root), nil)
	if err != nil {
		return nil, err
	}
	for _, p := range alwaysSkipped {
		patterns = append(patterns, gitignore.ParsePattern("/"+p, nil))
	}
	for _, p := range except {
		patterns = append(patterns, gitignore.ParsePattern(p, nil))
	}
	return gitignore.NewMatcher(patterns), nil
}
