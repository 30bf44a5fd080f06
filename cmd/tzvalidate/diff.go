package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tzvalidate/internal/report"
)

func newDiffCmd() *cobra.Command {
	var observed, expected string
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Compare an observed report against an expected one",
		Long: "diff checks header years, zone names and every item of two reports. " +
			"Offsets are always compared; DST and abbreviations only when both reports " +
			"declare them valid. Every discrepancy is listed and the command exits non-zero if any were found.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			obs, err := readReport(observed)
			if err != nil {
				return err
			}
			exp, err := readReport(expected)
			if err != nil {
				return err
			}
			return report.Diff(cmd.OutOrStdout(), obs, exp)
		},
	}
	cmd.Flags().StringVar(&observed, "observed", "", "report produced by the implementation under test")
	cmd.Flags().StringVar(&expected, "expected", "", "reference report")
	_ = cmd.MarkFlagRequired("observed")
	_ = cmd.MarkFlagRequired("expected")
	return cmd
}

func readReport(path string) (*report.ValidationData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	vd, err := report.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return vd, nil
}
