package scaffold

import (
	"context"
	"io"
	"os"

	"github.com/Ihuangmi/hm-cra-template-demo/internal/config"
	"github.com/Ihuangmi/hm-cra-template-demo/internal/netcheck"
	"github.com/Ihuangmi/hm-cra-template-demo/internal/pkginfo"
	"github.com/Ihuangmi/hm-cra-template-demo/internal/pkgmanager"
	"github.com/Ihuangmi/hm-cra-template-demo/internal/runtime"
	"github.com/Ihuangmi/hm-cra-template-demo/internal/templatedir"
	"github.com/Ihuangmi/hm-cra-template-demo/internal/templatespec"
)

// Installer adds packages to a project.
type Installer interface {
	Install(ctx context.Context, root string, deps []string, online bool) error
}

// Extractor determines the installed name of a template specifier.
type Extractor interface {
	Extract(ctx context.Context, spec templatespec.Spec) (pkginfo.Identity, error)
}

// Prober reports whether the package manager can reach the registry.
type Prober interface {
	Online(ctx context.Context, useYarn bool) bool
}

// Materializer copies an installed template into the project.
type Materializer interface {
	Materialize(ctx context.Context, appPath, appName, templateName string) error
}

// Toolchain checks the local Node installation.
type Toolchain interface {
	CheckNode(ctx context.Context) bool
	CheckNpm(ctx context.Context) bool
	CheckNpmCwd(ctx context.Context, dir string) bool
}

// Env holds the collaborators of a scaffold run.
type Env struct {
	Out    io.Writer
	ErrOut io.Writer

	Installer    Installer
	Extractor    Extractor
	Prober       Prober
	Materializer Materializer
	Toolchain    Toolchain

	// WorkDir anchors relative project and file: template paths. Empty
	// means the process working directory.
	WorkDir string
	// DefaultTemplate is installed when no template is requested.
	DefaultTemplate string
}

// NewEnv wires the real collaborators from settings for package manager kind.
func NewEnv(s *config.Settings, kind pkgmanager.Kind) *Env {
	installer := pkgmanager.New(kind)

	m := &templatedir.Materializer{Out: os.Stdout, ErrOut: os.Stderr}
	if s.UninstallTemplate {
		m.Remover = installer
	}

	return &Env{
		Out:       os.Stdout,
		ErrOut:    os.Stderr,
		Installer: installer,
		Extractor: pkginfo.New(),
		Prober: netcheck.New(
			netcheck.WithRegistryHost(s.RegistryHost),
			netcheck.WithHTTPSProxy(s.HTTPSProxy),
		),
		Materializer:    m,
		Toolchain:       &runtime.Toolchain{Stdout: os.Stdout, Stderr: os.Stderr},
		DefaultTemplate: s.DefaultTemplate,
	}
}

func (e *Env) workDir() (string, error) {
	if e.WorkDir != "" {
		return e.WorkDir, nil
	}
	return os.Getwd()
}
