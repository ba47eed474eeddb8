package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/alias/internal/app"
	"github.com/dshills/alias/internal/config"
)

func (c *cli) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [script.lua]",
		Short: "Run a script once",
		Long: `Run a script once and wait for its delayed calls.

Examples:
  # Run a script and call its main function
  aliasrun run init.lua

  # Apply a manifest against the script's globals
  aliasrun run init.lua -m aliases.yaml

  # Call start() instead of main() and give up after five seconds
  aliasrun run init.lua -e start --timeout 5s`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.settings(cmd, args)
			if err != nil {
				return err
			}
			return runApp(cmd, s, func(a *app.Application, ctx context.Context) error {
				return a.Run(ctx)
			})
		},
	}
	addScriptFlags(cmd)
	cmd.Flags().Duration("timeout", 0, "stop waiting for delayed calls after this long (0 waits until idle)")
	return cmd
}

// runApp creates the application, runs fn until it returns or a signal
// arrives, then shuts down.
func runApp(cmd *cobra.Command, s config.Settings, fn func(*app.Application, context.Context) error) error {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	a, err := app.New(app.Options{Settings: s, Output: cmd.OutOrStdout()})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runErr := fn(a, ctx)
	if err := a.Shutdown(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}
