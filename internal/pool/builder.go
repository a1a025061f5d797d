package pool

import (
	"github.com/sirupsen/logrus"

	"github.com/fieldside/squadforge/internal/squad"
)

// Thresholds are the shortlist filters applied when building a candidate
// pool. Zero values disable the corresponding filter.
type Thresholds struct {
	MinQuality  float64 `json:"min_quality"`
	MaxAge      int     `json:"max_age"`
	MinValueGap float64 `json:"min_value_gap"`
}

// Build validates raw candidate records at the ingestion boundary and
// filters them down to the shortlist the optimizer will see. Validation
// failures are terminal: a malformed record is rejected with its context,
// never coerced. The pool's insertion order is preserved because the
// chemistry modal tie-breaks depend on it.
func Build(candidates []squad.Candidate, th Thresholds, log *logrus.Entry) ([]squad.Candidate, error) {
	seen := make(map[string]bool, len(candidates))
	shortlist := make([]squad.Candidate, 0, len(candidates))

	var droppedQuality, droppedAge, droppedGap int
	for _, c := range candidates {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if seen[c.ID] {
			return nil, &squad.DataIntegrityError{CandidateID: c.ID, Field: "id", Reason: "duplicate identifier"}
		}
		seen[c.ID] = true

		if th.MinQuality > 0 && c.Quality < th.MinQuality {
			droppedQuality++
			continue
		}
		if th.MaxAge > 0 && c.Age > th.MaxAge {
			droppedAge++
			continue
		}
		if th.MinValueGap > 0 && c.ValueGap < th.MinValueGap {
			droppedGap++
			continue
		}
		shortlist = append(shortlist, c)
	}

	if log != nil {
		log.WithFields(logrus.Fields{
			"input_candidates": len(candidates),
			"shortlisted":      len(shortlist),
			"dropped_quality":  droppedQuality,
			"dropped_age":      droppedAge,
			"dropped_gap":      droppedGap,
		}).Debug("Candidate pool built")
	}

	return shortlist, nil
}

// CountByGroup tallies pool candidates per position group.
func CountByGroup(pool []squad.Candidate) map[squad.PositionGroup]int {
	counts := make(map[squad.PositionGroup]int, len(squad.PositionGroups))
	for _, c := range pool {
		counts[c.Position]++
	}
	return counts
}
