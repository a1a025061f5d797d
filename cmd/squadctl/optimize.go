package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/fieldside/squadforge/internal/config"
	"github.com/fieldside/squadforge/internal/optimizer"
	"github.com/fieldside/squadforge/internal/pool"
	"github.com/fieldside/squadforge/internal/squad"
	"github.com/fieldside/squadforge/internal/valuation"
	"github.com/fieldside/squadforge/pkg/logger"
)

func newOptimizeCmd() *cobra.Command {
	var (
		csvPath   string
		datasetID string

		budget      float64
		squadSize   int
		quotaSpec   string
		timeLimit   time.Duration
		noFallback  bool
		minQuality  float64
		maxAge      int
		minValueGap float64
		fitValues   bool
	)

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Select the highest-quality roster under budget and quotas",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())

			candidates, err := resolveCandidates(cmd, csvPath, datasetID)
			if err != nil {
				return err
			}

			if fitValues {
				candidates, err = annotateValues(candidates)
				if err != nil {
					return err
				}
			}

			thresholds := pool.Thresholds{
				MinQuality:  minQuality,
				MaxAge:      maxAge,
				MinValueGap: minValueGap,
			}
			shortlist, err := pool.Build(candidates, thresholds, nil)
			if err != nil {
				return err
			}

			optCfg := cfg.OptimizerConfig()
			if budget != 0 {
				optCfg.Budget = budget
			}
			if squadSize != 0 {
				optCfg.SquadSize = squadSize
			}
			if timeLimit != 0 {
				optCfg.SolverTimeLimit = timeLimit
			}
			if noFallback {
				optCfg.FallbackEnabled = false
			}
			if quotaSpec != "" {
				quotas, err := parseQuotaSpec(quotaSpec)
				if err != nil {
					return err
				}
				optCfg.Quotas = quotas
			}

			result, err := optimizer.SelectRoster(cmd.Context(), shortlist, optCfg)
			if err != nil {
				return err
			}

			printRoster(result, optCfg.Budget)
			return nil
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "candidate CSV file")
	cmd.Flags().StringVar(&datasetID, "dataset", "", "ingested dataset identifier")
	cmd.Flags().Float64Var(&budget, "budget", 0, "total budget override")
	cmd.Flags().IntVar(&squadSize, "squad-size", 0, "squad size override")
	cmd.Flags().StringVar(&quotaSpec, "quotas", "", "quota override, e.g. GK=3,DEF=8,MID=8,FWD=6")
	cmd.Flags().DurationVar(&timeLimit, "time-limit", 0, "solver wall-clock limit override, e.g. 30s")
	cmd.Flags().BoolVar(&noFallback, "no-fallback", false, "fail instead of running the greedy fallback")
	cmd.Flags().Float64Var(&minQuality, "min-quality", 0, "drop candidates below this quality")
	cmd.Flags().IntVar(&maxAge, "max-age", 0, "drop candidates above this age")
	cmd.Flags().Float64Var(&minValueGap, "min-value-gap", 0, "drop candidates below this value gap (needs --fit-values)")
	cmd.Flags().BoolVar(&fitValues, "fit-values", false, "fit the market-value model on the pool and annotate value gaps")

	return cmd
}

func resolveCandidates(cmd *cobra.Command, csvPath, datasetID string) ([]squad.Candidate, error) {
	switch {
	case csvPath != "" && datasetID != "":
		return nil, fmt.Errorf("--csv and --dataset are mutually exclusive")
	case csvPath != "":
		return loadCandidatesCSV(csvPath)
	case datasetID != "":
		repo, closeDB, err := openRepository()
		if err != nil {
			return nil, err
		}
		defer closeDB()
		return repo.LoadDataset(cmd.Context(), datasetID)
	}
	return nil, fmt.Errorf("either --csv or --dataset is required")
}

// annotateValues fits the valuation model on the pool itself, treating
// listed cost as the observed market value, then attaches predicted
// values and value gaps.
func annotateValues(candidates []squad.Candidate) ([]squad.Candidate, error) {
	samples := make([]valuation.Sample, 0, len(candidates))
	for _, c := range candidates {
		samples = append(samples, valuation.Sample{
			Age:       float64(c.Age),
			Quality:   c.Quality,
			Potential: c.Potential,
			Value:     c.Cost,
		})
	}
	oracle, err := valuation.Fit(samples)
	if err != nil {
		return nil, err
	}
	fmt.Printf("Fitted value model on %d candidates (r2 %.3f)\n", len(samples), oracle.R2())
	return valuation.Annotate(candidates, oracle), nil
}

func parseQuotaSpec(spec string) (squad.Quotas, error) {
	quotas := make(squad.Quotas)
	for _, part := range strings.Split(spec, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			return nil, fmt.Errorf("malformed quota %q, want GROUP=COUNT", part)
		}
		group, err := squad.ParsePositionGroup(key)
		if err != nil {
			return nil, err
		}
		var count int
		if _, err := fmt.Sscanf(value, "%d", &count); err != nil {
			return nil, fmt.Errorf("malformed quota count %q for %s", value, group)
		}
		quotas[group] = count
	}
	return quotas, nil
}

func printRoster(result *optimizer.Result, budget float64) {
	fmt.Printf("Run %s selected %d players via %s\n\n", result.RunID, result.Roster.Size(), result.Method)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "POS\tID\tNAME\tQUALITY\tCOST")
	for _, row := range result.Roster.Rows() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%.0f\n", row.Position, row.ID, row.Name, row.Quality, row.Cost)
	}
	w.Flush()

	fmt.Printf("\nTotal quality %.1f, total cost %.0f of budget %.0f\n", result.Roster.TotalQuality, result.Roster.TotalCost, budget)
	if result.OverBudget {
		fmt.Println("WARNING: fallback roster exceeds the budget")
	}
	fmt.Printf("Solve time %s, %d nodes explored\n", result.SolveTime, result.NodesExplored)
}
