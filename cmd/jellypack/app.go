// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"jellypack-cli/internal/app/pipeline"
	"jellypack-cli/internal/config"
	"jellypack-cli/internal/issue"
	"jellypack-cli/pkg/archive"
	"jellypack-cli/pkg/build"
	"jellypack-cli/pkg/format"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer: every Cobra handler receives an App reference
	// and delegates packaging to a pipeline.Service built per invocation.
	App struct {
		Config   ConfigProvider
		executor build.Executor
		stdout   io.Writer
		stderr   io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		// Executor replaces the os/exec build runner. Tests use it to
		// simulate the native build.
		Executor build.Executor
		Stdout   io.Writer
		Stderr   io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// rootFlags holds the persistent flag values of one invocation.
	rootFlags struct {
		verbose    bool
		configPath string
		dir        string
		format     string
	}

	// session is the per-invocation state shared by the packaging commands.
	session struct {
		cfg     *config.Config
		root    string
		logger  *log.Logger
		service *pipeline.Service
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}

	return &App{
		Config:   deps.Config,
		executor: deps.Executor,
		stdout:   deps.Stdout,
		stderr:   deps.Stderr,
	}
}

// loadConfig loads configuration for the project root named by flags.
func (a *App) loadConfig(ctx context.Context, flags *rootFlags) (*config.Config, error) {
	return a.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: flags.configPath,
		ProjectDir:     flags.projectRoot(),
	})
}

// newSession resolves configuration and flags into a ready pipeline.Service.
func (a *App) newSession(ctx context.Context, flags *rootFlags) (*session, error) {
	cfg, err := a.loadConfig(ctx, flags)
	if err != nil {
		return nil, err
	}

	root := flags.projectRoot()
	logger := newLogger(a.stderr, cfg, flags.verbose)

	opts := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithPackager(archive.NewPackager(
			archive.WithOutputDir(cfg.Output.Dir),
			archive.WithProjectRoot(root),
			archive.WithLogger(logger),
		)),
	}

	if flags.format != "" {
		kind, err := format.ParseKind(flags.format)
		if err != nil {
			return nil, issue.NewErrorContext().
				WithStage("select project format").
				WithSubject(flags.format).
				WithHint("Omit --format to detect the project format automatically").
				Wrap(err).
				Err()
		}
		opts = append(opts, pipeline.WithFormat(kind))
	}

	executor := a.executor
	if executor == nil {
		env, err := build.LoadEnvFile(cfg.Build.EnvFile, root)
		if err != nil {
			return nil, issue.NewErrorContext().
				WithStage("load build environment").
				WithSubject(cfg.Build.EnvFile).
				WithHint("Append '?' to build.env_file to make the file optional").
				Wrap(err).
				Err()
		}

		runnerOpts := []build.Option{
			build.WithOutput(a.stdout, a.stderr),
			build.WithEnv(env),
			build.WithLogger(logger),
		}
		for kind, path := range cfg.Build.Tools {
			runnerOpts = append(runnerOpts, build.WithToolPath(format.Kind(kind), path))
		}
		executor = build.NewRunner(root, runnerOpts...)
	}
	opts = append(opts, pipeline.WithExecutor(executor))

	return &session{
		cfg:     cfg,
		root:    root,
		logger:  logger,
		service: pipeline.NewService(root, opts...),
	}, nil
}

// fail renders err for the operator and converts it into an ExitError.
// Cobra's own error printing is silenced so the message appears once.
func (a *App) fail(cmd *cobra.Command, err error, verbose bool) error {
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	fmt.Fprintln(a.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))

	var ae *issue.ActionableError
	if verbose && errors.As(err, &ae) && ae.Issue != 0 {
		if entry := issue.Get(ae.Issue); entry != nil {
			if rendered, renderErr := entry.Render("dark"); renderErr == nil {
				fmt.Fprint(a.stderr, rendered)
			}
		}
	}

	return &ExitError{Code: classifyExitCode(err), Err: err}
}

// projectRoot returns the --dir value, defaulting to the working directory.
func (f *rootFlags) projectRoot() string {
	if f.dir == "" {
		return "."
	}
	return f.dir
}

// newLogger builds the stderr logger. --verbose and ui.verbose force debug.
func newLogger(w io.Writer, cfg *config.Config, verbose bool) *log.Logger {
	level, err := log.ParseLevel(string(cfg.UI.LogLevel))
	if err != nil {
		level = log.InfoLevel
	}
	if verbose || cfg.UI.Verbose {
		level = log.DebugLevel
	}

	return log.NewWithOptions(w, log.Options{
		Prefix: "jellypack",
		Level:  level,
	})
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
