package chemistry

import (
	"github.com/fieldside/squadforge/internal/squad"
)

// Config holds the chemistry bonuses and the multiplier that blends the
// per-candidate weight into a selection score.
type Config struct {
	SameClubBonus        float64 `json:"same_club_bonus"`
	SameNationalityBonus float64 `json:"same_nationality_bonus"`
	ImportanceMultiplier float64 `json:"importance_multiplier"`
}

// DefaultConfig returns the standard bonuses: +3 per same-club pair,
// +1 per same-nationality pair.
func DefaultConfig() Config {
	return Config{
		SameClubBonus:        3,
		SameNationalityBonus: 1,
		ImportanceMultiplier: 1,
	}
}

// ScoreLineup computes the pairwise cohesion score for a fixed lineup:
// for every unordered pair, the same-club bonus if clubs match, else the
// same-nationality bonus if nationalities match, else nothing. Pure
// function of the member set; player order does not matter.
func ScoreLineup(players []squad.Candidate, cfg Config) float64 {
	score := 0.0
	for i := 0; i < len(players); i++ {
		for j := i + 1; j < len(players); j++ {
			switch {
			case players[i].Club != "" && players[i].Club == players[j].Club:
				score += cfg.SameClubBonus
			case players[i].Nationality != "" && players[i].Nationality == players[j].Nationality:
				score += cfg.SameNationalityBonus
			}
		}
	}
	return score
}

// Weights maps candidate ID to its individual chemistry weight.
type Weights map[string]float64

// PoolWeights computes each candidate's chemistry weight against the
// pool's modal club and nationality. Modal ties are broken by
// first-encountered order in the pool's canonical (insertion) order.
func PoolWeights(pool []squad.Candidate, cfg Config) Weights {
	modalClub := mostCommon(pool, func(c squad.Candidate) string { return c.Club })
	modalNationality := mostCommon(pool, func(c squad.Candidate) string { return c.Nationality })

	weights := make(Weights, len(pool))
	for _, c := range pool {
		w := 0.0
		if c.Club != "" && c.Club == modalClub {
			w += cfg.SameClubBonus
		}
		if c.Nationality != "" && c.Nationality == modalNationality {
			w += cfg.SameNationalityBonus
		}
		weights[c.ID] = w
	}
	return weights
}

// SelectionScore blends a candidate's quality with its chemistry weight.
// Used only by lineup ranking keys, never by the squad optimizer's
// objective.
func SelectionScore(c squad.Candidate, weights Weights, cfg Config) float64 {
	return c.Quality + weights[c.ID]*cfg.ImportanceMultiplier
}

// mostCommon returns the most frequent non-empty key, breaking count ties
// by which key was seen first.
func mostCommon(pool []squad.Candidate, key func(squad.Candidate) string) string {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, c := range pool {
		k := key(c)
		if k == "" {
			continue
		}
		if _, ok := firstSeen[k]; !ok {
			firstSeen[k] = i
		}
		counts[k]++
	}

	best := ""
	for _, c := range pool {
		k := key(c)
		if k == "" {
			continue
		}
		if best == "" {
			best = k
			continue
		}
		if counts[k] > counts[best] || (counts[k] == counts[best] && firstSeen[k] < firstSeen[best]) {
			best = k
		}
	}
	return best
}
