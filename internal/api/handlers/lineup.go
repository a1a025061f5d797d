package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fieldside/squadforge/internal/chemistry"
	"github.com/fieldside/squadforge/internal/config"
	"github.com/fieldside/squadforge/internal/lineup"
	"github.com/fieldside/squadforge/internal/pool"
	"github.com/fieldside/squadforge/internal/squad"
)

// LineupRequest selects a starting XI from a previously optimized roster.
// The roster is passed back verbatim; lineups are never persisted.
type LineupRequest struct {
	Roster     []squad.Candidate `json:"roster" binding:"required"`
	Formation  string            `json:"formation" binding:"required"`
	RankingKey string            `json:"ranking_key,omitempty"`
	Chemistry  *chemistry.Config `json:"chemistry,omitempty"`
}

// LineupResponse is the ordered starting XI with the slot each player
// fills, plus the lineup's pairwise chemistry score.
type LineupResponse struct {
	Formation      string            `json:"formation"`
	RankingKey     string            `json:"ranking_key"`
	Starters       []squad.LineupRow `json:"starters"`
	TotalQuality   float64           `json:"total_quality"`
	ChemistryScore float64           `json:"chemistry_score"`
}

// LineupHandler handles starting-XI selection endpoints.
type LineupHandler struct {
	config *config.Config
	logger *logrus.Logger
}

func NewLineupHandler(cfg *config.Config, logger *logrus.Logger) *LineupHandler {
	return &LineupHandler{config: cfg, logger: logger}
}

// SelectLineup handles lineup selection requests.
func (h *LineupHandler) SelectLineup(c *gin.Context) {
	var req LineupRequest
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

	// Validate the supplied roster members at the boundary.
	members, err := pool.Build(req.Roster, pool.Thresholds{}, nil)
	if err != nil {
		respondError(c, err)
		return
	}
	roster := squad.NewRoster(members, squad.MethodExact)

	formation, err := squad.FormationByName(req.Formation)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(), Code: "UNKNOWN_FORMATION",
		})
		return
	}

	chemCfg := h.config.ChemistryConfig()
	if req.Chemistry != nil {
		chemCfg = *req.Chemistry
	}

	rankingKey := req.RankingKey
	if rankingKey == "" {
		rankingKey = "quality"
	}
	rank, err := resolveRankingKey(rankingKey, members, chemCfg)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(), Code: "UNKNOWN_RANKING_KEY",
		})
		return
	}

	selected, err := lineup.Select(roster, formation, rank)
	if err != nil {
		respondError(c, err)
		return
	}

	starters := make([]squad.Candidate, 0, len(selected.Starters))
	for _, slot := range selected.Starters {
		starters = append(starters, slot.Player)
	}

	response := LineupResponse{
		Formation:      formation.Name,
		RankingKey:     rankingKey,
		Starters:       selected.Rows(),
		TotalQuality:   selected.TotalQuality(),
		ChemistryScore: chemistry.ScoreLineup(starters, chemCfg),
	}

	h.logger.WithFields(logrus.Fields{
		"formation":       formation.Name,
		"ranking_key":     rankingKey,
		"total_quality":   response.TotalQuality,
		"chemistry_score": response.ChemistryScore,
	}).Info("Lineup selected")

	c.JSON(http.StatusOK, response)
}

// ListFormations returns the stock formations.
func (h *LineupHandler) ListFormations(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"formations": squad.FormationNames()})
}

func resolveRankingKey(name string, roster []squad.Candidate, chemCfg chemistry.Config) (lineup.RankFn, error) {
	switch name {
	case "quality":
		return lineup.ByQuality(), nil
	case "chemistry":
		weights := chemistry.PoolWeights(roster, chemCfg)
		return lineup.BySelectionScore(weights, chemCfg), nil
	case "tactical":
		return lineup.ByTacticalScore(), nil
	}
	return nil, fmt.Errorf("unknown ranking key %q (known: quality, chemistry, tactical)", name)
}
