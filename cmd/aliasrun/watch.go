package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dshills/alias/internal/app"
)

func (c *cli) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [script.lua]",
		Short: "Run a script and reload it on change",
		Long: `Run a script, then revert every alias and load it again whenever the
script or manifest changes. Stops on SIGINT or SIGTERM.

Examples:
  aliasrun watch init.lua -m aliases.toml
  aliasrun watch init.lua --debounce 500ms`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.settings(cmd, args)
			if err != nil {
				return err
			}
			return runApp(cmd, s, func(a *app.Application, ctx context.Context) error {
				return a.Watch(ctx, s.Watch.Debounce)
			})
		},
	}
	addScriptFlags(cmd)
	cmd.Flags().Duration("debounce", 0, "quiet period before reloading (default 200ms)")
	return cmd
}
