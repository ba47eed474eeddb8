package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/alias/internal/manifest"
)

func (c *cli) newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <manifest>...",
		Short: "Parse and validate manifests",
		Long: `Parse and validate alias manifests without running anything.

Examples:
  aliasrun check aliases.yaml
  aliasrun check deploy/*.jsonc`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var errs []error
			for _, path := range args {
				m, err := manifest.Load(path)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "FAIL %s: %v\n", path, err)
					errs = append(errs, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok   %s (%d aliases)\n", path, len(m.Aliases))
			}
			if len(errs) > 0 {
				return fmt.Errorf("%d of %d manifests invalid: %w", len(errs), len(args), errors.Join(errs...))
			}
			return nil
		},
	}
}
