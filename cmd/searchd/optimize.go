package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newOptimizeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "optimize <core>",
		Short: "Optimize the index behind a core",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			defer a.close(ctx)

			resp, err := a.registry.Core(args[0]).Optimize(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "optimized %s in %s\n", args[0], resp.Took)
			return nil
		},
	}
}
