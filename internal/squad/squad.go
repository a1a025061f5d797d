package squad

import (
	"fmt"
	"sort"
	"strings"
)

// PositionGroup is the coarse role classification used for quota purposes.
type PositionGroup string

const (
	Goalkeeper PositionGroup = "GK"
	Defender   PositionGroup = "DEF"
	Midfielder PositionGroup = "MID"
	Forward    PositionGroup = "FWD"
)

// PositionGroups lists all groups in canonical order (goal to attack).
var PositionGroups = []PositionGroup{Goalkeeper, Defender, Midfielder, Forward}

// ParsePositionGroup parses a position group from its string form.
// Accepts the canonical short codes case-insensitively.
func ParsePositionGroup(s string) (PositionGroup, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "GK", "GOALKEEPER":
		return Goalkeeper, nil
	case "DEF", "DEFENDER":
		return Defender, nil
	case "MID", "MIDFIELDER":
		return Midfielder, nil
	case "FWD", "FORWARD":
		return Forward, nil
	}
	return "", fmt.Errorf("unknown position group %q", s)
}

// Valid reports whether the group is one of the four known groups.
func (g PositionGroup) Valid() bool {
	switch g {
	case Goalkeeper, Defender, Midfielder, Forward:
		return true
	}
	return false
}

// Candidate is one draftable player. Candidates are immutable value
// objects: derived scores are attached downstream as new values, never
// written back into the record.
type Candidate struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Position    PositionGroup `json:"position"`
	Quality     float64       `json:"quality"`
	Cost        float64       `json:"cost"`
	Club        string        `json:"club"`
	Nationality string        `json:"nationality"`
	Age         int           `json:"age,omitempty"`
	Potential   float64       `json:"potential,omitempty"`

	// Auxiliary aptitude scores consumed by lineup ranking keys only.
	Offense     float64 `json:"offense,omitempty"`
	Defense     float64 `json:"defense,omitempty"`
	Goalkeeping float64 `json:"goalkeeping,omitempty"`

	// Valuation outputs, attached by the pool builder when available.
	PredictedValue float64 `json:"predicted_value,omitempty"`
	ValueGap       float64 `json:"value_gap,omitempty"`
}

// Validate checks the data-integrity invariants every candidate must
// satisfy before reaching the optimizer.
func (c Candidate) Validate() error {
	if c.ID == "" {
		return &DataIntegrityError{CandidateID: c.ID, Field: "id", Reason: "missing identifier"}
	}
	if !c.Position.Valid() {
		return &DataIntegrityError{CandidateID: c.ID, Field: "position", Reason: fmt.Sprintf("unrecognized position group %q", string(c.Position))}
	}
	if c.Cost < 0 {
		return &DataIntegrityError{CandidateID: c.ID, Field: "cost", Reason: fmt.Sprintf("negative cost %v", c.Cost)}
	}
	return nil
}

// Quotas maps each position group to its required exact count.
type Quotas map[PositionGroup]int

// TotalPlayers returns the total number of players the quotas demand.
func (q Quotas) TotalPlayers() int {
	total := 0
	for _, count := range q {
		total += count
	}
	return total
}

// Validate checks the quota map against the target squad size.
func (q Quotas) Validate(squadSize int) error {
	if squadSize <= 0 {
		return fmt.Errorf("%w: squad size must be positive, got %d", ErrInvalidConfiguration, squadSize)
	}
	for group, count := range q {
		if !group.Valid() {
			return fmt.Errorf("%w: unknown position group %q in quotas", ErrInvalidConfiguration, string(group))
		}
		if count <= 0 {
			return fmt.Errorf("%w: quota for %s must be positive, got %d", ErrInvalidConfiguration, group, count)
		}
	}
	if total := q.TotalPlayers(); total != squadSize {
		return fmt.Errorf("%w: quotas sum to %d but squad size is %d", ErrInvalidConfiguration, total, squadSize)
	}
	return nil
}

// SelectionMethod identifies which optimizer path produced a roster.
type SelectionMethod string

const (
	MethodExact          SelectionMethod = "exact"
	MethodGreedyFallback SelectionMethod = "greedy_fallback"
)

// Roster is the immutable outcome of one optimization run. The exact path
// guarantees optimality and budget feasibility; the greedy fallback
// guarantees quotas only, and Method discloses which path ran.
type Roster struct {
	Players      []Candidate     `json:"players"`
	Method       SelectionMethod `json:"method"`
	TotalQuality float64         `json:"total_quality"`
	TotalCost    float64         `json:"total_cost"`
}

// NewRoster builds a roster from selected candidates, ordering players
// canonically (position group, then identifier) so output is reproducible
// regardless of selection order.
func NewRoster(players []Candidate, method SelectionMethod) Roster {
	ordered := make([]Candidate, len(players))
	copy(ordered, players)

	rank := make(map[PositionGroup]int, len(PositionGroups))
	for i, g := range PositionGroups {
		rank[g] = i
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Position != ordered[j].Position {
			return rank[ordered[i].Position] < rank[ordered[j].Position]
		}
		return ordered[i].ID < ordered[j].ID
	})

	roster := Roster{Players: ordered, Method: method}
	for _, p := range ordered {
		roster.TotalQuality += p.Quality
		roster.TotalCost += p.Cost
	}
	return roster
}

// Size returns the number of players in the roster.
func (r Roster) Size() int { return len(r.Players) }

// CountByGroup tallies roster members per position group.
func (r Roster) CountByGroup() map[PositionGroup]int {
	counts := make(map[PositionGroup]int, len(PositionGroups))
	for _, p := range r.Players {
		counts[p.Position]++
	}
	return counts
}

// ByGroup returns the roster members of one position group, preserving
// the roster's canonical order.
func (r Roster) ByGroup(group PositionGroup) []Candidate {
	var members []Candidate
	for _, p := range r.Players {
		if p.Position == group {
			members = append(members, p)
		}
	}
	return members
}

// OverBudget reports whether the roster's total cost exceeds the budget.
// Relevant for greedy-fallback rosters, which never check the budget.
func (r Roster) OverBudget(budget float64) bool {
	return r.TotalCost > budget
}

// RosterRow is the tabular export consumed by reporting collaborators.
type RosterRow struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Position string  `json:"position"`
	Quality  float64 `json:"quality"`
	Cost     float64 `json:"cost"`
}

// Rows exports the roster as ordered tabular records.
func (r Roster) Rows() []RosterRow {
	rows := make([]RosterRow, 0, len(r.Players))
	for _, p := range r.Players {
		rows = append(rows, RosterRow{
			ID:       p.ID,
			Name:     p.Name,
			Position: string(p.Position),
			Quality:  p.Quality,
			Cost:     p.Cost,
		})
	}
	return rows
}
