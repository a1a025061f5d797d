package main

import (
	"context"

	"github.com/spf13/cobra"
)

// Execute runs the squadctl command tree.
func Execute(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:   "squadctl",
		Short: "Budget-constrained squad selection toolkit",
		Long: `squadctl ingests candidate pools, solves the budget-constrained
roster selection problem, and picks starting lineups from a roster.

Candidate pools come from CSV files or from datasets previously
ingested into the candidate store.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newIngestCmd(),
		newDatasetsCmd(),
		newOptimizeCmd(),
		newLineupCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}
