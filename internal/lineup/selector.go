package lineup

import (
	"fmt"
	"sort"

	"github.com/fieldside/squadforge/internal/chemistry"
	"github.com/fieldside/squadforge/internal/squad"
)

// RankFn scores a roster member for starting-XI selection. Higher is
// better; ties are broken by ascending candidate identifier.
type RankFn func(squad.Candidate) float64

// ByQuality ranks starters by raw quality score.
func ByQuality() RankFn {
	return func(c squad.Candidate) float64 { return c.Quality }
}

// BySelectionScore ranks starters by quality plus the chemistry weight
// scaled by the importance multiplier.
func BySelectionScore(weights chemistry.Weights, cfg chemistry.Config) RankFn {
	return func(c squad.Candidate) float64 {
		return chemistry.SelectionScore(c, weights, cfg)
	}
}

// ByTacticalScore ranks starters by the aptitude relevant to their
// position group: goalkeeping for keepers, defense for defenders,
// offense for forwards, and the offense/defense mean for midfielders.
func ByTacticalScore() RankFn {
	return func(c squad.Candidate) float64 {
		switch c.Position {
		case squad.Goalkeeper:
			return c.Goalkeeping
		case squad.Defender:
			return c.Defense
		case squad.Midfielder:
			return (c.Offense + c.Defense) / 2
		case squad.Forward:
			return c.Offense
		}
		return c.Quality
	}
}

// Select picks the starting XI for a formation by ranked sub-selection
// per position group: the top-N roster members by the ranking key, N
// being the formation's count for that group. The selector is stateless
// and safe to reuse across formations and ranking keys on a shared
// read-only roster.
//
// Returns UnderfilledFormationError when any group has fewer roster
// members than the formation requires; short groups are never silently
// padded.
func Select(roster squad.Roster, formation squad.Formation, rank RankFn) (squad.Lineup, error) {
	if err := formation.Validate(); err != nil {
		return squad.Lineup{}, err
	}
	if rank == nil {
		rank = ByQuality()
	}

	lineup := squad.Lineup{
		Formation: formation,
		Starters:  make([]squad.LineupSlot, 0, squad.StartersPerLineup),
	}

	for _, group := range squad.PositionGroups {
		needed := formation.Counts[group]
		if needed == 0 {
			continue
		}

		members := roster.ByGroup(group)
		if len(members) < needed {
			return squad.Lineup{}, &squad.UnderfilledFormationError{
				Formation: formation.Name,
				Group:     group,
				Required:  needed,
				Available: len(members),
			}
		}

		sort.SliceStable(members, func(i, j int) bool {
			ri, rj := rank(members[i]), rank(members[j])
			if ri != rj {
				return ri > rj
			}
			return members[i].ID < members[j].ID
		})

		for i := 0; i < needed; i++ {
			lineup.Starters = append(lineup.Starters, squad.LineupSlot{
				Slot:   fmt.Sprintf("%s%d", group, i+1),
				Player: members[i],
			})
		}
	}

	return lineup, nil
}
