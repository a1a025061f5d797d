package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fieldside/squadforge/internal/chemistry"
	"github.com/fieldside/squadforge/internal/config"
	"github.com/fieldside/squadforge/internal/lineup"
	"github.com/fieldside/squadforge/internal/pool"
	"github.com/fieldside/squadforge/internal/squad"
)

func newLineupCmd() *cobra.Command {
	var (
		csvPath       string
		formationName string
		rankingKey    string
	)

	cmd := &cobra.Command{
		Use:   "lineup",
		Short: "Pick a starting XI from a roster CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}

			candidates, err := loadCandidatesCSV(csvPath)
			if err != nil {
				return err
			}
			members, err := pool.Build(candidates, pool.Thresholds{}, nil)
			if err != nil {
				return err
			}
			roster := squad.NewRoster(members, squad.MethodExact)

			formation, err := squad.FormationByName(formationName)
			if err != nil {
				return err
			}

			chemCfg := cfg.ChemistryConfig()
			rank, err := rankingFor(rankingKey, members, chemCfg)
			if err != nil {
				return err
			}

			selected, err := lineup.Select(roster, formation, rank)
			if err != nil {
				return err
			}

			printLineup(selected, chemCfg, rankingKey)
			return nil
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "roster CSV file (required)")
	cmd.Flags().StringVar(&formationName, "formation", "4-4-2", "formation to field")
	cmd.Flags().StringVar(&rankingKey, "ranking", "quality", "ranking key: quality, chemistry or tactical")
	cmd.MarkFlagRequired("csv")

	return cmd
}

func rankingFor(key string, roster []squad.Candidate, chemCfg chemistry.Config) (lineup.RankFn, error) {
	switch key {
	case "quality":
		return lineup.ByQuality(), nil
	case "chemistry":
		weights := chemistry.PoolWeights(roster, chemCfg)
		return lineup.BySelectionScore(weights, chemCfg), nil
	case "tactical":
		return lineup.ByTacticalScore(), nil
	}
	return nil, fmt.Errorf("unknown ranking key %q (known: quality, chemistry, tactical)", key)
}

func printLineup(selected squad.Lineup, chemCfg chemistry.Config, rankingKey string) {
	fmt.Printf("Formation %s, ranked by %s\n\n", selected.Formation.Name, rankingKey)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SLOT\tID\tNAME\tQUALITY")
	for _, row := range selected.Rows() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\n", row.Slot, row.ID, row.Name, row.Quality)
	}
	w.Flush()

	starters := make([]squad.Candidate, 0, len(selected.Starters))
	for _, s := range selected.Starters {
		starters = append(starters, s.Player)
	}
	fmt.Printf("\nTotal quality %.1f, chemistry %.1f\n", selected.TotalQuality(), chemistry.ScoreLineup(starters, chemCfg))
}
