package scaffold

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/Ihuangmi/hm-cra-template-demo/internal/branding"
	apperrors "github.com/Ihuangmi/hm-cra-template-demo/internal/errors"
	"github.com/Ihuangmi/hm-cra-template-demo/internal/logging"
	"github.com/Ihuangmi/hm-cra-template-demo/internal/naming"
	"github.com/Ihuangmi/hm-cra-template-demo/internal/pkgmanager"
	"github.com/Ihuangmi/hm-cra-template-demo/internal/projectdir"
	"github.com/Ihuangmi/hm-cra-template-demo/internal/style"
	"github.com/Ihuangmi/hm-cra-template-demo/internal/templatespec"
)

// Request is what the user asked for on the command line.
type Request struct {
	ProjectName string
	// Template is the --template value; empty when absent.
	Template string
	UseYarn  bool
}

// Options are the inputs of the install pipeline.
type Options struct {
	// Root is the absolute project directory.
	Root    string
	AppName string
	// OriginalDir is where the command was started.
	OriginalDir string
	Template    string
	UseYarn     bool
}

// CreateApp validates the request, prepares the target directory and runs
// the install pipeline.
func CreateApp(ctx context.Context, env *Env, req Request) error {
	logger := logging.Get("scaffold")

	env.Toolchain.CheckNode(ctx)

	wd, err := env.workDir()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}
	root := req.ProjectName
	if !filepath.IsAbs(root) {
		root = filepath.Join(wd, root)
	}
	root = filepath.Clean(root)
	appName := filepath.Base(root)
	logger.Debug().Str("root", root).Str("app", appName).Bool("yarn", req.UseYarn).Msg("Creating app")

	if err := naming.Check(env.ErrOut, appName); err != nil {
		return err
	}

	if err := projectdir.Ensure(root); err != nil {
		return fmt.Errorf("creating %s: %w", root, err)
	}
	safe, err := projectdir.IsSafe(env.Out, root, req.ProjectName)
	if err != nil {
		return err
	}
	if !safe {
		return apperrors.Newf(apperrors.ErrUnsafeDirectory, "directory %s contains conflicting files", root)
	}

	fmt.Fprintln(env.Out)
	fmt.Fprintf(env.Out, "Creating a new app in %s.\n", style.Name(root))
	fmt.Fprintln(env.Out)

	if !req.UseYarn {
		if !env.Toolchain.CheckNpmCwd(ctx, root) {
			return apperrors.Newf(apperrors.ErrNpmCwdMismatch, "npm does not start in %s", root)
		}
		env.Toolchain.CheckNpm(ctx)
	}

	return Run(ctx, env, Options{
		Root:        root,
		AppName:     appName,
		OriginalDir: wd,
		Template:    req.Template,
		UseYarn:     req.UseYarn,
	})
}

// Run installs the template package into opts.Root and copies its files.
// On failure the target directory is rolled back and an ABORTED error
// wrapping the cause is returned.
func Run(ctx context.Context, env *Env, opts Options) error {
	logger := logging.Get("scaffold")
	done := logging.LogOperationStart(logger, "install pipeline")
	defer done()

	defaultName := env.DefaultTemplate
	if defaultName == "" {
		defaultName = branding.DefaultTemplate()
	}

	spec := templatespec.Resolve(opts.Template, opts.OriginalDir, defaultName)
	logger.Debug().Str("spec", spec.Raw).Stringer("kind", spec.Kind).Msg("Resolved template")

	id, err := env.Extractor.Extract(ctx, spec)
	if err != nil {
		return abort(env, opts, err)
	}
	logger.Debug().Str("name", id.Name).Str("version", id.Version).Stringer("confidence", id.Confidence).Msg("Template identity")

	online := env.Prober.Online(ctx, opts.UseYarn)

	if err := env.Installer.Install(ctx, opts.Root, []string{spec.Raw}, online); err != nil {
		return abort(env, opts, err)
	}

	if err := env.Materializer.Materialize(ctx, opts.Root, opts.AppName, id.Name); err != nil {
		return abort(env, opts, err)
	}
	return nil
}

// abort reports cause, rolls back generated files and returns ABORTED.
func abort(env *Env, opts Options, cause error) error {
	w := env.Out
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Aborting installation.")

	var cmdErr *pkgmanager.CommandError
	if errors.As(cause, &cmdErr) {
		fmt.Fprintf(w, "  %s has failed.\n", style.Command(cmdErr.Command))
	} else {
		fmt.Fprintln(w, style.Error("Unexpected error. Please report it as a bug:"))
		fmt.Fprintln(w, cause)
	}
	fmt.Fprintln(w)

	if err := projectdir.Rollback(w, opts.Root, opts.AppName); err != nil {
		logger := logging.Get("scaffold")
		logger.Warn().Err(err).Str("root", opts.Root).Msg("Rollback incomplete")
	}
	fmt.Fprintln(w, "Done.")

	return apperrors.Wrap(cause, apperrors.ErrAborted, "installation aborted")
}
