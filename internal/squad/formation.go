package squad

import (
	"fmt"
	"sort"
	"strings"
)

// StartersPerLineup is the number of players in a starting lineup.
const StartersPerLineup = 11

// Formation is a fixed partition of the 11 starting slots across position
// groups, e.g. 4-4-2 means 1 GK, 4 DEF, 4 MID, 2 FWD.
type Formation struct {
	Name   string                `json:"name"`
	Counts map[PositionGroup]int `json:"counts"`
}

var formations = map[string]Formation{
	"4-4-2": {Name: "4-4-2", Counts: map[PositionGroup]int{Goalkeeper: 1, Defender: 4, Midfielder: 4, Forward: 2}},
	"4-3-3": {Name: "4-3-3", Counts: map[PositionGroup]int{Goalkeeper: 1, Defender: 4, Midfielder: 3, Forward: 3}},
	"3-5-2": {Name: "3-5-2", Counts: map[PositionGroup]int{Goalkeeper: 1, Defender: 3, Midfielder: 5, Forward: 2}},
	"5-3-2": {Name: "5-3-2", Counts: map[PositionGroup]int{Goalkeeper: 1, Defender: 5, Midfielder: 3, Forward: 2}},
	"4-5-1": {Name: "4-5-1", Counts: map[PositionGroup]int{Goalkeeper: 1, Defender: 4, Midfielder: 5, Forward: 1}},
	"3-4-3": {Name: "3-4-3", Counts: map[PositionGroup]int{Goalkeeper: 1, Defender: 3, Midfielder: 4, Forward: 3}},
}

// FormationByName looks up one of the stock formations.
func FormationByName(name string) (Formation, error) {
	f, ok := formations[strings.TrimSpace(name)]
	if !ok {
		names := FormationNames()
		return Formation{}, fmt.Errorf("unknown formation %q (known: %s)", name, strings.Join(names, ", "))
	}
	return f, nil
}

// FormationNames returns the stock formation names sorted for stable output.
func FormationNames() []string {
	names := make([]string, 0, len(formations))
	for name := range formations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that the formation fields exactly 11 starters including
// one goalkeeper.
func (f Formation) Validate() error {
	total := 0
	for group, count := range f.Counts {
		if !group.Valid() {
			return fmt.Errorf("formation %s: unknown position group %q", f.Name, string(group))
		}
		if count < 0 {
			return fmt.Errorf("formation %s: negative count for %s", f.Name, group)
		}
		total += count
	}
	if total != StartersPerLineup {
		return fmt.Errorf("formation %s: counts sum to %d, want %d", f.Name, total, StartersPerLineup)
	}
	return nil
}

// LineupSlot binds one starter to the formation slot it fills.
type LineupSlot struct {
	Slot   string    `json:"slot"`
	Player Candidate `json:"player"`
}

// Lineup is an ordered selection of 11 starters drawn from a roster.
// Lineups are recomputed per formation request and never persisted.
type Lineup struct {
	Formation Formation    `json:"formation"`
	Starters  []LineupSlot `json:"starters"`
}

// TotalQuality sums the starters' quality scores.
func (l Lineup) TotalQuality() float64 {
	total := 0.0
	for _, s := range l.Starters {
		total += s.Player.Quality
	}
	return total
}

// LineupRow is the tabular export for one starter.
type LineupRow struct {
	Slot     string  `json:"slot"`
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Position string  `json:"position"`
	Quality  float64 `json:"quality"`
	Cost     float64 `json:"cost"`
}

// Rows exports the lineup as ordered tabular records, one per starter.
func (l Lineup) Rows() []LineupRow {
	rows := make([]LineupRow, 0, len(l.Starters))
	for _, s := range l.Starters {
		rows = append(rows, LineupRow{
			Slot:     s.Slot,
			ID:       s.Player.ID,
			Name:     s.Player.Name,
			Position: string(s.Player.Position),
			Quality:  s.Player.Quality,
			Cost:     s.Player.Cost,
		})
	}
	return rows
}
