package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meridian-tax/caseflow/internal/export"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <case-ref>",
	Short: "Export a case workbook (XLSX)",
	Long:  "Writes an XLSX workbook for the case: summary, gold entity sheets, and the silver transcript tables.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx, "pipeline")
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		data, err := loadCaseData(ctx, st, args[0])
		if err != nil {
			return err
		}
		if data == nil {
			return eris.Errorf("case not found: %s", args[0])
		}

		path := exportOutput
		if path == "" {
			path = args[0] + ".xlsx"
		}

		if err := export.WriteFile(data, path); err != nil {
			return err
		}

		zap.L().Info("workbook written", zap.String("path", path))
		fmt.Printf("wrote %s\n", path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output path (default <case-ref>.xlsx)")
	rootCmd.AddCommand(exportCmd)
}
