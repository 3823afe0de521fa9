package templatedir

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Ihuangmi/hm-cra-template-demo/internal/branding"
	apperrors "github.com/Ihuangmi/hm-cra-template-demo/internal/errors"
	"github.com/Ihuangmi/hm-cra-template-demo/internal/logging"
	"github.com/Ihuangmi/hm-cra-template-demo/internal/manifest"
	"github.com/Ihuangmi/hm-cra-template-demo/internal/style"
)

// TemplateDirName is the directory inside a template package that is copied.
const TemplateDirName = "template"

// lockFiles are removed before copying so the template's own files win.
var lockFiles = []string{manifest.FileName, "package-lock.json", "yarn.lock"}

// Remover removes a package from a project. *pkgmanager.Installer
// satisfies it.
type Remover interface {
	Remove(ctx context.Context, root, pkg string) error
}

// Materializer copies template files into a project.
type Materializer struct {
	// Out and ErrOut receive user-facing messages; default os.Stdout/os.Stderr.
	Out    io.Writer
	ErrOut io.Writer
	// Remover, when set, uninstalls the template package after its files
	// were copied.
	Remover Remover
}

func (m *Materializer) out() io.Writer {
	if m.Out == nil {
		return os.Stdout
	}
	return m.Out
}

func (m *Materializer) errOut() io.Writer {
	if m.ErrOut == nil {
		return os.Stderr
	}
	return m.ErrOut
}

// Materialize copies <template package>/template into appPath. An empty
// templateName prints a notice and changes nothing. A template package
// without a template/ directory yields an ErrTemplateNotFound error.
func (m *Materializer) Materialize(ctx context.Context, appPath, appName, templateName string) error {
	if templateName == "" {
		fmt.Fprintln(m.out())
		fmt.Fprintf(m.errOut(), "A template was not provided. This is likely because you're using an outdated version of %s.\n",
			style.Command(branding.CLIName()))
		return nil
	}

	logger := logging.Get("templatedir")
	done := logging.LogOperationStart(logger, "materialize "+templateName)
	defer done()

	pkgDir, err := Resolve(appPath, templateName)
	if err != nil {
		return err
	}

	templateDir := filepath.Join(pkgDir, TemplateDirName)
	if info, err := os.Stat(templateDir); err != nil || !info.IsDir() {
		fmt.Fprintf(m.errOut(), "Could not locate supplied template: %s\n", style.Name(templateDir))
		return apperrors.Newf(apperrors.ErrTemplateNotFound, "template directory %s not found", templateDir)
	}
	logger.Debug().Str("from", templateDir).Str("to", appPath).Msg("Copying template")

	for _, name := range lockFiles {
		if err := removeIfExists(filepath.Join(appPath, name)); err != nil {
			return err
		}
	}
	if err := copyDir(templateDir, appPath); err != nil {
		return fmt.Errorf("copying %s to %s: %w", templateDir, appPath, err)
	}

	if m.Remover != nil {
		fmt.Fprintf(m.out(), "Removing template package %s...\n\n", style.Command(templateName))
		if err := m.Remover.Remove(ctx, appPath, templateName); err != nil {
			fmt.Fprintf(m.errOut(), "%s\n", style.Error(fmt.Sprintf("Removing %s failed: %v", templateName, err)))
			return nil
		}
	}

	if err := removeIfExists(filepath.Join(appPath, "node_modules")); err != nil {
		return err
	}

	w := m.out()
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Success! Created %s at %s\n", appName, appPath)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Happy hacking!")
	return nil
}

// Resolve finds the directory of the installed package name by searching
// <dir>/node_modules/<name>/package.json from appPath upward. Symlinks are
// resolved, as Node does.
func Resolve(appPath, name string) (string, error) {
	dir, err := filepath.Abs(appPath)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", appPath, err)
	}

	for {
		candidate := filepath.Join(dir, "node_modules", filepath.FromSlash(name), manifest.FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			pkgDir := filepath.Dir(candidate)
			if resolved, err := filepath.EvalSymlinks(pkgDir); err == nil {
				return resolved, nil
			}
			return pkgDir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("cannot find module '%s/%s' from %s", name, manifest.FileName, appPath)
		}
		dir = parent
	}
}

func removeIfExists(path string) error {
	if err := os.RemoveAll(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	return nil
}
