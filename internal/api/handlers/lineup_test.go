package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldside/squadforge/internal/squad"
)

func setupLineupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	handler := NewLineupHandler(testConfig(), testLogger())
	router := gin.New()
	router.POST("/api/v1/lineup/select", handler.SelectLineup)
	router.GET("/api/v1/lineup/formations", handler.ListFormations)
	return router
}

func lineupRoster() []squad.Candidate {
	roster := []squad.Candidate{
		{ID: "g1", Position: squad.Goalkeeper, Quality: 80, Club: "Ajax", Nationality: "NL"},
		{ID: "g2", Position: squad.Goalkeeper, Quality: 74, Club: "PSV", Nationality: "NL"},
	}
	for i, q := range []float64{78, 76, 75, 73, 70} {
		roster = append(roster, squad.Candidate{
			ID: "d" + string(rune('1'+i)), Position: squad.Defender, Quality: q, Club: "Ajax", Nationality: "NL",
		})
	}
	for i, q := range []float64{82, 79, 77, 75, 71} {
		roster = append(roster, squad.Candidate{
			ID: "m" + string(rune('1'+i)), Position: squad.Midfielder, Quality: q, Club: "PSV", Nationality: "BR",
		})
	}
	for i, q := range []float64{88, 84, 80} {
		roster = append(roster, squad.Candidate{
			ID: "f" + string(rune('1'+i)), Position: squad.Forward, Quality: q, Club: "Inter", Nationality: "AR",
		})
	}
	return roster
}

func TestSelectLineup(t *testing.T) {
	router := setupLineupRouter(t)

	recorder := postJSON(t, router, "/api/v1/lineup/select", LineupRequest{
		Roster:    lineupRoster(),
		Formation: "4-4-2",
	})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var response LineupResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))

	assert.Equal(t, "4-4-2", response.Formation)
	assert.Equal(t, "quality", response.RankingKey)
	require.Len(t, response.Starters, squad.StartersPerLineup)
	assert.Equal(t, "GK1", response.Starters[0].Slot)
	assert.Equal(t, "g1", response.Starters[0].ID)
	assert.Greater(t, response.ChemistryScore, 0.0)
}

func TestSelectLineupUnknownFormation(t *testing.T) {
	router := setupLineupRouter(t)

	recorder := postJSON(t, router, "/api/v1/lineup/select", LineupRequest{
		Roster:    lineupRoster(),
		Formation: "2-2-6",
	})
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var response ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "UNKNOWN_FORMATION", response.Code)
}

func TestSelectLineupUnknownRankingKey(t *testing.T) {
	router := setupLineupRouter(t)

	recorder := postJSON(t, router, "/api/v1/lineup/select", LineupRequest{
		Roster:     lineupRoster(),
		Formation:  "4-4-2",
		RankingKey: "vibes",
	})
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var response ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "UNKNOWN_RANKING_KEY", response.Code)
}

func TestSelectLineupUnderfilledRoster(t *testing.T) {
	router := setupLineupRouter(t)

	recorder := postJSON(t, router, "/api/v1/lineup/select", LineupRequest{
		Roster:    lineupRoster()[:8], // not enough midfielders or forwards
		Formation: "4-4-2",
	})
	require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)

	var response ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "UNDERFILLED_FORMATION", response.Code)
	assert.Equal(t, "4-4-2", response.Details["formation"])
}

func TestSelectLineupChemistryRanking(t *testing.T) {
	router := setupLineupRouter(t)

	recorder := postJSON(t, router, "/api/v1/lineup/select", LineupRequest{
		Roster:     lineupRoster(),
		Formation:  "4-3-3",
		RankingKey: "chemistry",
	})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var response LineupResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "chemistry", response.RankingKey)
	require.Len(t, response.Starters, squad.StartersPerLineup)
}

func TestListFormations(t *testing.T) {
	router := setupLineupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/lineup/formations", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "4-4-2")
	assert.Contains(t, recorder.Body.String(), "3-5-2")
}
