package main

import (
	"os"

	"github.com/spf13/cobra"

	"tzvalidate/internal/dashboard"
	"tzvalidate/internal/sink"
)

func newDashboardCmd() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Render Grafana dashboards for the GreptimeDB sample table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := os.Getenv("GREPTIMEDB_TABLE")
			if table == "" {
				table = sink.DefaultSampleTable
			}
			return dashboard.Render(outDir, table)
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "build", "output directory")
	return cmd
}
