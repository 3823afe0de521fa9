// Package pkgmanager runs npm or Yarn to add packages to a new project.
//
// Commands always run with an explicit working directory; the process-wide
// working directory is never changed.
package pkgmanager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/Ihuangmi/hm-cra-template-demo/internal/logging"
	"github.com/Ihuangmi/hm-cra-template-demo/internal/style"
)

// Kind selects the package manager.
type Kind int

const (
	Npm Kind = iota
	Yarn
)

// String returns the package manager name.
func (k Kind) String() string {
	if k == Yarn {
		return "yarn"
	}
	return "npm"
}

// Bin returns the executable invoked for k.
func (k Kind) Bin() string {
	if k == Yarn {
		return "yarnpkg"
	}
	return "npm"
}

// Detect picks Yarn when the tool was launched through it, judging by the
// npm_config_user_agent value. A non-empty override ("npm" or "yarn") wins.
func Detect(userAgent, override string) Kind {
	switch strings.ToLower(override) {
	case "yarn":
		return Yarn
	case "npm":
		return Npm
	}
	if strings.HasPrefix(userAgent, "yarn") {
		return Yarn
	}
	return Npm
}

// CommandError reports a package manager run that exited non-zero.
type CommandError struct {
	Command  string
	ExitCode int
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Command, e.ExitCode)
}

// Installer spawns the package manager.
type Installer struct {
	kind   Kind
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// Option configures an Installer.
type Option func(*Installer)

// WithStdio replaces the inherited standard streams.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(i *Installer) {
		i.stdin = stdin
		i.stdout = stdout
		i.stderr = stderr
	}
}

// New creates an Installer for kind.
func New(kind Kind, opts ...Option) *Installer {
	i := &Installer{
		kind:   kind,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Kind returns the package manager this installer runs.
func (i *Installer) Kind() Kind { return i.kind }

// InstallArgs returns the argument list Install passes to Kind().Bin().
func (i *Installer) InstallArgs(root string, deps []string, online bool) []string {
	if i.kind == Yarn {
		args := []string{"add", "--exact"}
		if !online {
			args = append(args, "--offline")
		}
		args = append(args, deps...)
		// Yarn gets the directory as a flag as well as the process cwd.
		return append(args, "--cwd", root)
	}
	args := []string{"install", "--no-audit", "--save", "--save-exact", "--loglevel", "error"}
	return append(args, deps...)
}

// RemoveArgs returns the argument list Remove passes to Kind().Bin().
func (i *Installer) RemoveArgs(root, pkg string) []string {
	if i.kind == Yarn {
		return []string{"remove", pkg, "--cwd", root}
	}
	return []string{"uninstall", "--no-audit", "--save", "--loglevel", "error", pkg}
}

// Install adds deps to the project at root, pinning exact versions. With
// Yarn and online false it installs from the offline cache and says so.
func (i *Installer) Install(ctx context.Context, root string, deps []string, online bool) error {
	if i.kind == Yarn && !online {
		fmt.Fprintln(i.stdout, style.Warning("You appear to be offline."))
		fmt.Fprintln(i.stdout, style.Warning("Falling back to the local Yarn cache."))
		fmt.Fprintln(i.stdout)
	}
	return i.run(ctx, root, i.InstallArgs(root, deps, online))
}

// Remove drops pkg from the project's dependencies.
func (i *Installer) Remove(ctx context.Context, root, pkg string) error {
	return i.run(ctx, root, i.RemoveArgs(root, pkg))
}

func (i *Installer) run(ctx context.Context, root string, args []string) error {
	bin := i.kind.Bin()
	logger := logging.Get("pkgmanager")
	logging.LogCommand(logger, bin, args, root)
	done := logging.LogOperationStart(logger, bin+" "+args[0])
	defer done()

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = root
	cmd.Stdin = i.stdin
	cmd.Stdout = i.stdout
	cmd.Stderr = i.stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &CommandError{
				Command:  bin + " " + strings.Join(args, " "),
				ExitCode: exitErr.ExitCode(),
			}
		}
		return fmt.Errorf("running %s: %w", bin, err)
	}
	return nil
}
