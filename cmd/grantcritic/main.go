package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/grantcritic/internal/config"
	"github.com/dshills/grantcritic/internal/logging"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

// exitErr carries a numeric exit code through the cobra error path.
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

// codeError returns an exitErr for the given code.
func codeError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}

const (
	exitFailOn  = 2
	exitInput   = 3
	exitStorage = 4
)

// app holds what every subcommand shares.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time
}

func newApp(cfg config.Config, verbose bool) *app {
	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	return &app{
		cfg:    cfg,
		logger: logging.New(level),
		stdout: os.Stdout,
		stderr: os.Stderr,
		now:    time.Now,
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(config.Load())
	if err := root.ExecuteContext(ctx); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, "Error:", ee.msg)
			os.Exit(ee.code)
		}
		// cobra already printed the error
		os.Exit(1)
	}
}

func newRootCmd(cfg config.Config) *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:          "grantcritic",
		Short:        "Audit NIH SBIR/STTR applications for compliance",
		Long:         "GrantCritic scores SBIR/STTR application text and project metadata against NIH institute policy, flagging issues that block submission.",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log processing steps to stderr")

	appFor := func() *app { return newApp(cfg, verbose) }

	root.AddCommand(
		newAuditCmd(appFor),
		newAlignCmd(appFor),
		newPolicyCmd(appFor),
		newHistoryCmd(appFor),
		newServeCmd(appFor),
	)
	return root
}
