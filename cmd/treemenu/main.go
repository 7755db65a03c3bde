package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treemenu/internal/cli"
	errs "github.com/matzehuels/treemenu/pkg/errors"
)

// Exit codes.
const (
	exitError    = 1
	exitInvalid  = 2
	exitNotFound = 3
	exitCanceled = 130 // shell convention for SIGINT
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		os.Exit(exitCode(err))
	}
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	// The log level is only known after flag parsing.
	preRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if preRun != nil {
			return preRun(cmd, args)
		}
		return nil
	}

	err := root.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		if code := errs.GetCode(err); code != "" {
			c.Logger.Debug("command failed", "code", code, "error", err)
		}
	}
	return err
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, context.Canceled):
		return exitCanceled
	case errs.IsInvalid(err):
		return exitInvalid
	case errs.Is(err, errs.ErrCodeMenuNotFound), errs.Is(err, errs.ErrCodeFileNotFound):
		return exitNotFound
	}
	return exitError
}
