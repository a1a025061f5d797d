package handlers

import (
	"crypto/md5"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fieldside/squadforge/internal/cache"
	"github.com/fieldside/squadforge/internal/config"
	"github.com/fieldside/squadforge/internal/optimizer"
	"github.com/fieldside/squadforge/internal/pool"
	"github.com/fieldside/squadforge/internal/squad"
	"github.com/fieldside/squadforge/internal/storage"
)

// OptimizeRequest carries a candidate pool (inline or by stored dataset)
// plus per-request overrides of the optimization surface.
type OptimizeRequest struct {
	Candidates []squad.Candidate `json:"candidates,omitempty"`
	DatasetID  string            `json:"dataset_id,omitempty"`

	Budget           float64          `json:"budget,omitempty"`
	SquadSize        int              `json:"squad_size,omitempty"`
	Quotas           map[string]int   `json:"quotas,omitempty"`
	TimeLimitSeconds float64          `json:"time_limit_seconds,omitempty"`
	FallbackEnabled  *bool            `json:"fallback_enabled,omitempty"`
	Thresholds       pool.Thresholds  `json:"thresholds,omitempty"`
}

// OptimizeResponse is the tabular roster plus run disclosure: which path
// produced it and whether a fallback roster busted the budget.
type OptimizeResponse struct {
	RunID         string            `json:"run_id"`
	Method        string            `json:"method"`
	Roster        []squad.RosterRow `json:"roster"`
	TotalQuality  float64           `json:"total_quality"`
	TotalCost     float64           `json:"total_cost"`
	Budget        float64           `json:"budget"`
	OverBudget    bool              `json:"over_budget"`
	SolveTimeMs   int64             `json:"solve_time_ms"`
	NodesExplored int               `json:"nodes_explored"`
}

// OptimizationHandler handles roster optimization endpoints.
type OptimizationHandler struct {
	repo   *storage.CandidateRepository
	cache  *cache.RosterCacheService
	config *config.Config
	logger *logrus.Logger
}

func NewOptimizationHandler(
	repo *storage.CandidateRepository,
	cacheService *cache.RosterCacheService,
	cfg *config.Config,
	logger *logrus.Logger,
) *OptimizationHandler {
	return &OptimizationHandler{
		repo:   repo,
		cache:  cacheService,
		config: cfg,
		logger: logger,
	}
}

// OptimizeRoster handles roster selection requests.
func (h *OptimizationHandler) OptimizeRoster(c *gin.Context) {
	var req OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request format",
			Code:  "INVALID_REQUEST",
			Details: map[string]string{
				"validation_error": err.Error(),
			},
		})
		return
	}

	cacheKey := h.generateCacheKey(req)
	if h.cache != nil {
		var cached OptimizeResponse
		if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil {
			h.logger.WithField("cache_key", cacheKey).Info("Returning cached roster result")
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	candidates, err := h.resolveCandidates(c, req)
	if err != nil {
		respondError(c, err)
		return
	}

	shortlist, err := pool.Build(candidates, req.Thresholds, h.logger.WithField("handler", "optimize"))
	if err != nil {
		respondError(c, err)
		return
	}

	optCfg, err := h.buildOptimizerConfig(req)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := optimizer.SelectRoster(c.Request.Context(), shortlist, optCfg)
	if err != nil {
		respondError(c, err)
		return
	}

	response := OptimizeResponse{
		RunID:         result.RunID,
		Method:        string(result.Method),
		Roster:        result.Roster.Rows(),
		TotalQuality:  result.Roster.TotalQuality,
		TotalCost:     result.Roster.TotalCost,
		Budget:        optCfg.Budget,
		OverBudget:    result.OverBudget,
		SolveTimeMs:   result.SolveTime.Milliseconds(),
		NodesExplored: result.NodesExplored,
	}

	if h.cache != nil {
		if err := h.cache.Set(c.Request.Context(), cacheKey, &response, 24*time.Hour); err != nil {
			h.logger.WithError(err).Warn("Failed to cache roster result")
		}
	}

	h.logger.WithFields(logrus.Fields{
		"run_id":        result.RunID,
		"method":        result.Method,
		"total_quality": result.Roster.TotalQuality,
		"total_cost":    result.Roster.TotalCost,
		"solve_time":    result.SolveTime.String(),
	}).Info("Roster optimization completed")

	c.JSON(http.StatusOK, response)
}

// ValidateRequest validates an optimization request without running it.
func (h *OptimizationHandler) ValidateRequest(c *gin.Context) {
	var req OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request format",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	optCfg, err := h.buildOptimizerConfig(req)
	if err != nil {
		respondError(c, err)
		return
	}

	candidates, err := h.resolveCandidates(c, req)
	if err != nil {
		respondError(c, err)
		return
	}
	shortlist, err := pool.Build(candidates, req.Thresholds, nil)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Optimization request is valid",
		Data: map[string]interface{}{
			"pool_size":    len(shortlist),
			"group_counts": pool.CountByGroup(shortlist),
			"squad_size":   optCfg.SquadSize,
			"budget":       optCfg.Budget,
		},
	})
}

// GetCacheStatus returns cache statistics.
func (h *OptimizationHandler) GetCacheStatus(c *gin.Context) {
	if h.cache == nil {
		c.JSON(http.StatusOK, gin.H{"connected": false})
		return
	}
	c.JSON(http.StatusOK, h.cache.Status(c.Request.Context()))
}

func (h *OptimizationHandler) resolveCandidates(c *gin.Context, req OptimizeRequest) ([]squad.Candidate, error) {
	if len(req.Candidates) > 0 {
		return req.Candidates, nil
	}
	if req.DatasetID == "" {
		return nil, fmt.Errorf("%w: request needs candidates or dataset_id", squad.ErrInvalidConfiguration)
	}
	if h.repo == nil {
		return nil, fmt.Errorf("%w: dataset storage not configured", squad.ErrInvalidConfiguration)
	}
	return h.repo.LoadDataset(c.Request.Context(), req.DatasetID)
}

func (h *OptimizationHandler) buildOptimizerConfig(req OptimizeRequest) (optimizer.Config, error) {
	cfg := h.config.OptimizerConfig()

	if req.Budget != 0 {
		cfg.Budget = req.Budget
	}
	if req.SquadSize != 0 {
		cfg.SquadSize = req.SquadSize
	}
	if req.TimeLimitSeconds != 0 {
		cfg.SolverTimeLimit = time.Duration(req.TimeLimitSeconds * float64(time.Second))
	}
	if req.FallbackEnabled != nil {
		cfg.FallbackEnabled = *req.FallbackEnabled
	}
	if len(req.Quotas) > 0 {
		quotas := make(squad.Quotas, len(req.Quotas))
		for name, count := range req.Quotas {
			group, err := squad.ParsePositionGroup(name)
			if err != nil {
				return optimizer.Config{}, fmt.Errorf("%w: %v", squad.ErrInvalidConfiguration, err)
			}
			quotas[group] = count
		}
		cfg.Quotas = quotas
	}

	return cfg, cfg.Validate()
}

func (h *OptimizationHandler) generateCacheKey(req OptimizeRequest) string {
	hash := md5.New()
	hash.Write([]byte(fmt.Sprintf("%+v", req)))
	return fmt.Sprintf("%x", hash.Sum(nil))
}

// respondError maps domain error kinds onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var (
		infeasible  *squad.InfeasiblePoolError
		underfilled *squad.UnderfilledFormationError
		integrity   *squad.DataIntegrityError
	)

	switch {
	case errors.Is(err, squad.ErrInvalidConfiguration):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(), Code: "INVALID_CONFIGURATION",
		})
	case errors.As(err, &integrity):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(), Code: "DATA_INTEGRITY",
			Details: map[string]string{"candidate_id": integrity.CandidateID, "field": integrity.Field},
		})
	case errors.As(err, &infeasible):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error: err.Error(), Code: "INFEASIBLE_POOL",
			Details: map[string]string{
				"group":     string(infeasible.Group),
				"required":  fmt.Sprintf("%d", infeasible.Required),
				"available": fmt.Sprintf("%d", infeasible.Available),
			},
		})
	case errors.As(err, &underfilled):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error: err.Error(), Code: "UNDERFILLED_FORMATION",
			Details: map[string]string{
				"formation": underfilled.Formation,
				"group":     string(underfilled.Group),
			},
		})
	case errors.Is(err, squad.ErrSolverTimeout):
		c.JSON(http.StatusGatewayTimeout, ErrorResponse{
			Error: err.Error(), Code: "SOLVER_TIMEOUT",
		})
	case errors.Is(err, squad.ErrSolverInfeasible):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error: err.Error(), Code: "SOLVER_INFEASIBLE",
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: err.Error(), Code: "INTERNAL_ERROR",
		})
	}
}
