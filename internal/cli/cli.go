package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/specialistvlad/climeta/internal/app"
	"github.com/spf13/cobra"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

const (
	exitRuntime = 1
	exitUsage   = 2
)

func usageError(format string, args ...any) error {
	return &ExitError{Code: exitUsage, Message: fmt.Sprintf(format, args...)}
}

// runner carries state shared by all commands of one invocation.
type runner struct {
	outW, errW io.Writer

	logLevel  string
	logFormat string

	app *app.App
}

// Execute parses args and runs the selected command. Usage problems are
// returned as *ExitError with code 2, failures of the command with code 1.
// Printing help is a success.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	slog.Debug("CLI parser started.")
	r := &runner{outW: outW, errW: errW}
	root := r.rootCommand()
	root.SetArgs(args)
	root.SetOut(outW)
	root.SetErr(errW)

	cmd, err := root.ExecuteContextC(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	return usageError("%v\nRun '%s --help' for usage.", err, cmd.CommandPath())
}

func (r *runner) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "climeta",
		Short: "Manage CLI metadata documents",
		Long: `climeta manages documents describing a program's command-line arguments.

It validates and converts documents between the flat "[program]" /
"[[arguments]]" format and HCL, generates argument parsers for other
languages, and serves an editor API with a live change feed.`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: r.setup,
	}
	root.PersistentFlags().StringVar(&r.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	root.PersistentFlags().StringVar(&r.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError("%v\nRun '%s --help' for usage.", err, cmd.CommandPath())
	})

	root.AddCommand(
		r.generateCommand(),
		r.checkCommand(),
		r.codegenCommand(),
		r.serveCommand(),
		r.watchCommand(),
		r.pushCommand(),
	)
	return root
}

// setup validates the global flags and builds the application.
func (r *runner) setup(cmd *cobra.Command, args []string) error {
	cfg, err := app.NewConfig(app.Config{LogLevel: r.logLevel, LogFormat: r.logFormat})
	if err != nil {
		return usageError("%v", err)
	}
	r.app = app.NewApp(r.outW, r.errW, cfg)
	slog.Debug("CLI parameter validation complete.", "command", cmd.Name())
	return nil
}

// run adapts fn to cobra. Errors that are not already exit errors become
// runtime failures.
func (r *runner) run(fn func(ctx context.Context, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd.Context(), args)
		if err == nil {
			return nil
		}
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr
		}
		return &ExitError{Code: exitRuntime, Message: err.Error()}
	}
}

// interruptible returns a context cancelled on SIGINT or SIGTERM.
func interruptible(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}
