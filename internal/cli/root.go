package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Ihuangmi/hm-cra-template-demo/internal/branding"
	"github.com/Ihuangmi/hm-cra-template-demo/internal/config"
	apperrors "github.com/Ihuangmi/hm-cra-template-demo/internal/errors"
	"github.com/Ihuangmi/hm-cra-template-demo/internal/logging"
	"github.com/Ihuangmi/hm-cra-template-demo/internal/pkgmanager"
	"github.com/Ihuangmi/hm-cra-template-demo/internal/scaffold"
	"github.com/Ihuangmi/hm-cra-template-demo/internal/style"
)

// rootOptions holds the parsed flags of one invocation.
type rootOptions struct {
	template string
	verbose  int
	noColor  bool
}

// createFunc runs a scaffold request. Tests replace it.
type createFunc func(ctx context.Context, s *config.Settings, req scaffold.Request) error

func defaultCreate(ctx context.Context, s *config.Settings, req scaffold.Request) error {
	env := scaffold.NewEnv(s, pkgmanager.Detect(s.UserAgent, s.PackageManager))
	return scaffold.CreateApp(ctx, env, req)
}

func newRootCmd(version, commit, date string, create createFunc) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   branding.CLIName() + " <project-directory> [options]",
		Short: branding.Description(),
		Long: branding.DisplayName() + ` creates a new app directory, installs a template package into it
with npm or Yarn and copies the package's template/ files into place.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		FParseErrWhitelist: cobra.FParseErrWhitelist{
			UnknownFlags: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.noColor {
				style.DisableColor()
			}
			logging.Setup(opts.verbose, cmd.ErrOrStderr())

			if len(args) == 0 {
				printMissingArgument(cmd.ErrOrStderr(), cmd.OutOrStdout())
				return apperrors.New(apperrors.ErrMissingArgument, "project directory is required")
			}

			settings, err := config.Load()
			if err != nil {
				return err
			}
			logger := logging.Get("cli")
			logger.Debug().
				Str("project", args[0]).
				Str("template", opts.template).
				Str("package_manager", settings.PackageManager).
				Msg("Parsed arguments")

			return create(cmd.Context(), settings, scaffold.Request{
				ProjectName: args[0],
				Template:    opts.template,
				UseYarn:     pkgmanager.Detect(settings.UserAgent, settings.PackageManager) == pkgmanager.Yarn,
			})
		},
	}

	cmd.SetVersionTemplate(branding.CLIName() + " version {{.Version}}\n")
	cmd.Flags().StringVar(&opts.template, "template", "", "specify a template for the created project")
	cmd.Flags().CountVarP(&opts.verbose, "verbose", "v", "Increase log verbosity (-v info, -vv debug, -vvv trace)")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	defaultHelp := cmd.HelpFunc()
	cmd.SetHelpFunc(func(c *cobra.Command, args []string) {
		defaultHelp(c, args)
		printTemplateHelp(c.OutOrStdout())
	})

	return cmd
}

// Execute runs the root command with build info injected via ldflags.
// Interrupts cancel the context, which stops a running package manager.
func Execute(version, commit, date string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(version, commit, date, defaultCreate)
	err := cmd.ExecuteContext(ctx)
	if err != nil && !reported(err) {
		fmt.Fprintln(os.Stderr, style.Error("Error: "+err.Error()))
	}
	return err
}

// reported is true for errors whose details were already printed.
func reported(err error) bool {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		return false
	}
	switch appErr.Code {
	case apperrors.ErrMissingArgument, apperrors.ErrInvalidName, apperrors.ErrUnsafeDirectory,
		apperrors.ErrNpmCwdMismatch, apperrors.ErrAborted:
		return true
	}
	return false
}
