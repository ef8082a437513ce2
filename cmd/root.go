package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meridian-tax/caseflow/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "caseflow",
	Short: "Tax case document transformation pipeline",
	Long:  "Ingests IRS transcripts and client financial interviews as raw JSON, resolves them into typed rows, fans interview data out into per-case financial entities, and serves derived case summaries.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
