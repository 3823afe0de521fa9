// Package projectdir inspects and cleans up the target directory of a
// scaffolding run. IsSafe decides whether the directory may be scaffolded
// into; Rollback removes what a failed run generated.
package projectdir

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/Ihuangmi/hm-cra-template-demo/internal/logging"
	"github.com/Ihuangmi/hm-cra-template-demo/internal/style"
)

// allowedNames may exist in the target directory before scaffolding.
var allowedNames = map[string]bool{
	".DS_Store":      true,
	".git":           true,
	".gitattributes": true,
	".gitignore":     true,
	".gitlab-ci.yml": true,
	".hg":            true,
	".hgcheck":       true,
	".hgignore":      true,
	".idea":          true,
	".npmignore":     true,
	".travis.yml":    true,
	"docs":           true,
	"LICENSE":        true,
	"README.md":      true,
	"mkdocs.yml":     true,
	"Thumbs.db":      true,
}

// allowedPatterns are globs for entries IDEs create before the tool runs.
var allowedPatterns = []string{"*.iml"}

// errorLogPrefixes identify logs left by a previous failed install. They are
// not conflicts and are removed before scaffolding.
var errorLogPrefixes = []string{
	"npm-debug.log",
	"yarn-error.log",
	"yarn-debug.log",
}

// GeneratedNames are created by the package manager and removed on rollback.
var GeneratedNames = []string{"package.json", "node_modules"}

// Ensure creates root if it does not exist.
func Ensure(root string) error {
	if err := os.MkdirAll(root, 0755); err != nil {
		return fmt.Errorf("creating project directory %s: %w", root, err)
	}
	return nil
}

// IsAllowed reports whether an entry name is benign.
func IsAllowed(name string) bool {
	if allowedNames[name] {
		return true
	}
	for _, p := range allowedPatterns {
		if ok, err := doublestar.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}

// IsErrorLog reports whether name is a log file from a previous install.
func IsErrorLog(name string) bool {
	for _, p := range errorLogPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// Conflicts returns the entries of root that would conflict with scaffolding,
// in directory order.
func Conflicts(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", root, err)
	}

	var conflicts []string
	for _, e := range entries {
		name := e.Name()
		if IsAllowed(name) || IsErrorLog(name) {
			continue
		}
		conflicts = append(conflicts, name)
	}
	return conflicts, nil
}

// IsSafe reports whether root can be scaffolded into. Conflicting entries are
// listed on w and false is returned. When root is safe, stale error logs are
// deleted.
func IsSafe(w io.Writer, root, name string) (bool, error) {
	logger := logging.Get("projectdir")

	conflicts, err := Conflicts(root)
	if err != nil {
		return false, err
	}

	if len(conflicts) > 0 {
		fmt.Fprintf(w, "The directory %s contains files that could conflict:\n", style.Name(name))
		fmt.Fprintln(w)
		for _, file := range conflicts {
			info, err := os.Lstat(filepath.Join(root, file))
			if err == nil && info.IsDir() {
				fmt.Fprintf(w, "  %s\n", style.Dir(file+"/"))
			} else {
				fmt.Fprintf(w, "  %s\n", file)
			}
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Either try using a new directory name, or remove the files listed above.")
		logger.Debug().Strs("conflicts", conflicts).Str("root", root).Msg("Directory is not safe")
		return false, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", root, err)
	}
	for _, e := range entries {
		if !IsErrorLog(e.Name()) {
			continue
		}
		path := filepath.Join(root, e.Name())
		if err := os.RemoveAll(path); err != nil {
			return false, fmt.Errorf("removing stale log %s: %w", path, err)
		}
		logger.Debug().Str("path", path).Msg("Removed stale error log")
	}

	return true, nil
}

// Rollback removes generated artifacts from root and, if root is then empty,
// root itself. Missing files are ignored. It never changes the process
// working directory.
func Rollback(w io.Writer, root, appName string) error {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", root, err)
	}

	for _, e := range entries {
		for _, generated := range GeneratedNames {
			if e.Name() != generated {
				continue
			}
			fmt.Fprintf(w, "Deleting generated file... %s\n", style.Command(e.Name()))
			if err := os.RemoveAll(filepath.Join(root, e.Name())); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("removing %s: %w", e.Name(), err)
			}
		}
	}

	remaining, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("reading %s: %w", root, err)
	}
	if len(remaining) == 0 {
		parent := filepath.Dir(root)
		fmt.Fprintf(w, "Deleting %s from %s\n", style.Command(appName+"/"), style.Command(parent))
		if err := os.RemoveAll(root); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %s: %w", root, err)
		}
	}

	return nil
}
