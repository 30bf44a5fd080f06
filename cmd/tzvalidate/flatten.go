package main

import (
	"github.com/spf13/cobra"

	"tzvalidate/internal/report"
)

func newFlattenCmd() *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "flatten",
		Short: "Print a report from stdin as fixed-width text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			vd, err := report.Decode(cmd.InOrStdin())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return report.Flatten(out, vd, !plain && isTerminal(out))
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "never style headers")
	return cmd
}
