package chemistry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fieldside/squadforge/internal/squad"
)

func TestScoreLineupSameClubTrio(t *testing.T) {
	players := []squad.Candidate{
		{ID: "a", Club: "Ajax", Nationality: "NL"},
		{ID: "b", Club: "Ajax", Nationality: "BR"},
		{ID: "c", Club: "Ajax", Nationality: "AR"},
	}

	// Three pairs, all same club.
	score := ScoreLineup(players, DefaultConfig())
	assert.InDelta(t, 9.0, score, 1e-9)
}

func TestScoreLineupClubTakesPrecedenceOverNationality(t *testing.T) {
	players := []squad.Candidate{
		{ID: "a", Club: "Ajax", Nationality: "NL"},
		{ID: "b", Club: "Ajax", Nationality: "NL"},
	}

	// One pair sharing both club and nationality scores the club bonus only.
	score := ScoreLineup(players, DefaultConfig())
	assert.InDelta(t, 3.0, score, 1e-9)
}

func TestScoreLineupOrderIndependent(t *testing.T) {
	cfg := DefaultConfig()
	players := []squad.Candidate{
		{ID: "a", Club: "Ajax", Nationality: "NL"},
		{ID: "b", Club: "PSV", Nationality: "NL"},
		{ID: "c", Club: "Ajax", Nationality: "BR"},
		{ID: "d", Club: "Inter", Nationality: "BR"},
	}
	reversed := []squad.Candidate{players[3], players[2], players[1], players[0]}

	assert.InDelta(t, ScoreLineup(players, cfg), ScoreLineup(reversed, cfg), 1e-9)
}

func TestScoreLineupBounds(t *testing.T) {
	cfg := DefaultConfig()

	assert.Zero(t, ScoreLineup(nil, cfg))
	assert.Zero(t, ScoreLineup([]squad.Candidate{{ID: "a", Club: "Ajax"}}, cfg))

	// n players sharing one club hit the pairwise upper bound.
	n := 11
	players := make([]squad.Candidate, n)
	for i := range players {
		players[i] = squad.Candidate{ID: string(rune('a' + i)), Club: "Ajax"}
	}
	pairs := float64(n*(n-1)) / 2
	assert.InDelta(t, pairs*cfg.SameClubBonus, ScoreLineup(players, cfg), 1e-9)
}

func TestScoreLineupIgnoresEmptyAttributes(t *testing.T) {
	players := []squad.Candidate{
		{ID: "a", Club: "", Nationality: ""},
		{ID: "b", Club: "", Nationality: ""},
	}
	assert.Zero(t, ScoreLineup(players, DefaultConfig()))
}

func TestPoolWeightsModalAttributes(t *testing.T) {
	pool := []squad.Candidate{
		{ID: "a", Club: "Ajax", Nationality: "NL"},
		{ID: "b", Club: "Ajax", Nationality: "BR"},
		{ID: "c", Club: "PSV", Nationality: "NL"},
	}

	weights := PoolWeights(pool, DefaultConfig())

	// Modal club Ajax, modal nationality NL.
	assert.InDelta(t, 4.0, weights["a"], 1e-9)
	assert.InDelta(t, 3.0, weights["b"], 1e-9)
	assert.InDelta(t, 1.0, weights["c"], 1e-9)
}

func TestPoolWeightsModalTieBrokenByFirstSeen(t *testing.T) {
	pool := []squad.Candidate{
		{ID: "a", Club: "PSV"},
		{ID: "b", Club: "Ajax"},
		{ID: "c", Club: "Ajax"},
		{ID: "d", Club: "PSV"},
	}

	weights := PoolWeights(pool, DefaultConfig())

	// PSV and Ajax tie at two apiece; PSV appeared first.
	assert.InDelta(t, 3.0, weights["a"], 1e-9)
	assert.InDelta(t, 0.0, weights["b"], 1e-9)
	assert.InDelta(t, 3.0, weights["d"], 1e-9)
}

func TestSelectionScoreBlendsQualityAndWeight(t *testing.T) {
	cfg := Config{SameClubBonus: 3, SameNationalityBonus: 1, ImportanceMultiplier: 2}
	weights := Weights{"a": 4}

	c := squad.Candidate{ID: "a", Quality: 70}
	assert.InDelta(t, 78.0, SelectionScore(c, weights, cfg), 1e-9)

	unknown := squad.Candidate{ID: "zz", Quality: 70}
	assert.InDelta(t, 70.0, SelectionScore(unknown, weights, cfg), 1e-9)
}
