package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fieldside/squadforge/internal/config"
	"github.com/fieldside/squadforge/internal/ingest"
	"github.com/fieldside/squadforge/internal/pool"
	"github.com/fieldside/squadforge/internal/squad"
	"github.com/fieldside/squadforge/internal/storage"
)

func newIngestCmd() *cobra.Command {
	var (
		csvPath   string
		datasetID string
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Ingest a candidate CSV into the candidate store",
		RunE: func(cmd *cobra.Command, args []string) error {
			candidates, err := loadCandidatesCSV(csvPath)
			if err != nil {
				return err
			}

			// Validate before touching storage.
			if _, err := pool.Build(candidates, pool.Thresholds{}, nil); err != nil {
				return err
			}

			repo, closeDB, err := openRepository()
			if err != nil {
				return err
			}
			defer closeDB()

			if err := repo.SaveDataset(cmd.Context(), datasetID, candidates); err != nil {
				return err
			}

			fmt.Printf("Ingested %d candidates into dataset %q\n", len(candidates), datasetID)
			for group, count := range pool.CountByGroup(candidates) {
				fmt.Printf("  %-4s %d\n", group, count)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "candidate CSV file (required)")
	cmd.Flags().StringVar(&datasetID, "dataset", "", "dataset identifier to store under (required)")
	cmd.MarkFlagRequired("csv")
	cmd.MarkFlagRequired("dataset")

	return cmd
}

func newDatasetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "datasets",
		Short: "List ingested candidate datasets",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, closeDB, err := openRepository()
			if err != nil {
				return err
			}
			defer closeDB()

			ids, err := repo.ListDatasets(cmd.Context())
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				fmt.Println("No datasets ingested")
				return nil
			}
			for _, id := range ids {
				fmt.Println(id)
			}
			return nil
		},
	}
}

func loadCandidatesCSV(path string) ([]squad.Candidate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return ingest.LoadCandidates(f)
}

func openRepository() (*storage.CandidateRepository, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	db, err := storage.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		return nil, nil, err
	}
	return storage.NewCandidateRepository(db), func() { db.Close() }, nil
}
