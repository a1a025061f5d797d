package optimizer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fieldside/squadforge/internal/squad"
	"github.com/fieldside/squadforge/pkg/logger"
)

// Config is the optimization surface for a single roster selection run.
type Config struct {
	Budget          float64       `json:"budget"`
	SquadSize       int           `json:"squad_size"`
	Quotas          squad.Quotas  `json:"quotas"`
	SolverTimeLimit time.Duration `json:"solver_time_limit"`
	FallbackEnabled bool          `json:"fallback_enabled"`
}

// Validate fails fast on configuration the optimizer must never act on.
func (c Config) Validate() error {
	if c.Budget <= 0 {
		return fmt.Errorf("%w: budget must be positive, got %v", squad.ErrInvalidConfiguration, c.Budget)
	}
	if c.SolverTimeLimit <= 0 {
		return fmt.Errorf("%w: solver time limit must be positive, got %v", squad.ErrInvalidConfiguration, c.SolverTimeLimit)
	}
	return c.Quotas.Validate(c.SquadSize)
}

// Result carries the selected roster plus run metadata. Method discloses
// whether the exact solver or the greedy fallback produced the roster;
// OverBudget surfaces the fallback's unchecked budget.
type Result struct {
	RunID         string                `json:"run_id"`
	Roster        squad.Roster          `json:"roster"`
	Method        squad.SelectionMethod `json:"method"`
	OverBudget    bool                  `json:"over_budget"`
	SolveTime     time.Duration         `json:"solve_time"`
	NodesExplored int                   `json:"nodes_explored"`
}

// SelectRoster solves the constrained squad-selection problem over the
// candidate pool: maximize total quality subject to the budget, an exact
// total squad size, and exact per-group quotas.
//
// The exact path is a 0/1 integer program solved by branch-and-bound over
// LP relaxations under the configured wall-clock budget. If the solver
// times out or proves infeasibility, the deterministic greedy per-group
// fallback runs instead (when enabled). The fallback roster honors the
// quotas but not the budget, and is tagged accordingly.
func SelectRoster(ctx context.Context, pool []squad.Candidate, cfg Config) (*Result, error) {
	runID := uuid.New().String()
	log := logger.WithRunID(runID)
	start := time.Now()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := validatePool(pool); err != nil {
		return nil, err
	}

	if err := checkGroupCounts(pool, cfg.Quotas); err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"pool_size":   len(pool),
		"squad_size":  cfg.SquadSize,
		"budget":      cfg.Budget,
		"time_limit":  cfg.SolverTimeLimit.String(),
		"fallback_on": cfg.FallbackEnabled,
	}).Info("Starting roster selection")

	solveCtx, cancel := context.WithTimeout(ctx, cfg.SolverTimeLimit)
	defer cancel()

	selected, nodes, err := solveExact(solveCtx, pool, cfg.Quotas, cfg.Budget, cfg.SquadSize)
	if err == nil {
		roster := squad.NewRoster(selected, squad.MethodExact)
		log.WithFields(logrus.Fields{
			"total_quality":  roster.TotalQuality,
			"total_cost":     roster.TotalCost,
			"nodes_explored": nodes,
			"solve_time":     time.Since(start).String(),
		}).Info("Exact solve completed")

		return &Result{
			RunID:         runID,
			Roster:        roster,
			Method:        squad.MethodExact,
			OverBudget:    false,
			SolveTime:     time.Since(start),
			NodesExplored: nodes,
		}, nil
	}

	if !errors.Is(err, squad.ErrSolverTimeout) && !errors.Is(err, squad.ErrSolverInfeasible) {
		return nil, fmt.Errorf("exact solve failed: %w", err)
	}

	if !cfg.FallbackEnabled {
		log.WithError(err).Error("Exact solve failed and fallback is disabled")
		return nil, err
	}

	log.WithError(err).Warn("Exact solve failed, taking greedy fallback")

	roster := squad.NewRoster(selectGreedy(pool, cfg.Quotas), squad.MethodGreedyFallback)
	overBudget := roster.OverBudget(cfg.Budget)
	if overBudget {
		log.WithFields(logrus.Fields{
			"total_cost": roster.TotalCost,
			"budget":     cfg.Budget,
		}).Warn("Greedy fallback roster exceeds budget")
	}

	return &Result{
		RunID:         runID,
		Roster:        roster,
		Method:        squad.MethodGreedyFallback,
		OverBudget:    overBudget,
		SolveTime:     time.Since(start),
		NodesExplored: nodes,
	}, nil
}

// validatePool defensively rejects malformed candidates. The pool builder
// owns ingestion validation, but a negative cost or unknown position group
// must never be coerced here.
func validatePool(pool []squad.Candidate) error {
	seen := make(map[string]bool, len(pool))
	for _, c := range pool {
		if err := c.Validate(); err != nil {
			return err
		}
		if seen[c.ID] {
			return &squad.DataIntegrityError{CandidateID: c.ID, Field: "id", Reason: "duplicate identifier in pool"}
		}
		seen[c.ID] = true
	}
	return nil
}

// checkGroupCounts verifies the pool can satisfy every quota by count
// alone; a short group is certain infeasibility and is reported before
// any solve attempt.
func checkGroupCounts(pool []squad.Candidate, quotas squad.Quotas) error {
	counts := make(map[squad.PositionGroup]int, len(squad.PositionGroups))
	for _, c := range pool {
		counts[c.Position]++
	}
	for _, group := range squad.PositionGroups {
		required := quotas[group]
		if counts[group] < required {
			return &squad.InfeasiblePoolError{
				Group:     group,
				Required:  required,
				Available: counts[group],
			}
		}
	}
	return nil
}
