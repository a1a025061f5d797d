package optimizer

import (
	"sort"

	"github.com/fieldside/squadforge/internal/squad"
)

// selectGreedy is the deterministic degradation path: for each position
// group independently, rank candidates by quality descending and take the
// top quota, breaking ties by ascending cost then ascending identifier.
//
// The budget is deliberately not enforced here; that is the documented
// weaker guarantee of the fallback. It always succeeds when per-group
// counts cover the quotas, which the caller verifies before any solve.
func selectGreedy(pool []squad.Candidate, quotas squad.Quotas) []squad.Candidate {
	selected := make([]squad.Candidate, 0, quotas.TotalPlayers())

	for _, group := range squad.PositionGroups {
		needed := quotas[group]
		if needed == 0 {
			continue
		}

		var members []squad.Candidate
		for _, c := range pool {
			if c.Position == group {
				members = append(members, c)
			}
		}

		sort.SliceStable(members, func(i, j int) bool {
			if members[i].Quality != members[j].Quality {
				return members[i].Quality > members[j].Quality
			}
			if members[i].Cost != members[j].Cost {
				return members[i].Cost < members[j].Cost
			}
			return members[i].ID < members[j].ID
		})

		selected = append(selected, members[:needed]...)
	}

	return selected
}
