package main

import (
	"github.com/spf13/cobra"

	"tzvalidate/internal/browse"
)

func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse FILE",
		Short: "Explore a report interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vd, err := readReport(args[0])
			if err != nil {
				return err
			}
			return browse.Run(vd)
		},
	}
}
