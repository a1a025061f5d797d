package squad

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePositionGroup(t *testing.T) {
	tests := []struct {
		input    string
		expected PositionGroup
		wantErr  bool
	}{
		{"GK", Goalkeeper, false},
		{"gk", Goalkeeper, false},
		{"Goalkeeper", Goalkeeper, false},
		{" DEF ", Defender, false},
		{"midfielder", Midfielder, false},
		{"FWD", Forward, false},
		{"Forward", Forward, false},
		{"ST", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			group, err := ParsePositionGroup(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, group)
		})
	}
}

func TestCandidateValidate(t *testing.T) {
	valid := Candidate{ID: "p1", Name: "Player One", Position: Defender, Quality: 70, Cost: 1000}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name      string
		candidate Candidate
		field     string
	}{
		{"missing id", Candidate{Position: Defender, Cost: 10}, "id"},
		{"bad position", Candidate{ID: "p2", Position: "ST", Cost: 10}, "position"},
		{"negative cost", Candidate{ID: "p3", Position: Forward, Cost: -5}, "cost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.candidate.Validate()
			require.Error(t, err)

			var integrity *DataIntegrityError
			require.ErrorAs(t, err, &integrity)
			assert.Equal(t, tt.field, integrity.Field)
		})
	}
}

func TestQuotasValidate(t *testing.T) {
	quotas := Quotas{Goalkeeper: 3, Defender: 8, Midfielder: 8, Forward: 6}

	assert.NoError(t, quotas.Validate(25))
	assert.Equal(t, 25, quotas.TotalPlayers())

	assert.ErrorIs(t, quotas.Validate(20), ErrInvalidConfiguration)
	assert.ErrorIs(t, quotas.Validate(0), ErrInvalidConfiguration)
	assert.ErrorIs(t, quotas.Validate(-3), ErrInvalidConfiguration)

	zeroQuota := Quotas{Goalkeeper: 0, Defender: 8, Midfielder: 8, Forward: 9}
	assert.ErrorIs(t, zeroQuota.Validate(25), ErrInvalidConfiguration)

	badGroup := Quotas{"ST": 25}
	assert.ErrorIs(t, badGroup.Validate(25), ErrInvalidConfiguration)
}

func TestNewRosterCanonicalOrder(t *testing.T) {
	players := []Candidate{
		{ID: "f1", Position: Forward, Quality: 85, Cost: 15},
		{ID: "g1", Position: Goalkeeper, Quality: 80, Cost: 10},
		{ID: "d2", Position: Defender, Quality: 70, Cost: 5},
		{ID: "d1", Position: Defender, Quality: 75, Cost: 8},
	}

	roster := NewRoster(players, MethodExact)

	require.Equal(t, 4, roster.Size())
	assert.Equal(t, "g1", roster.Players[0].ID)
	assert.Equal(t, "d1", roster.Players[1].ID)
	assert.Equal(t, "d2", roster.Players[2].ID)
	assert.Equal(t, "f1", roster.Players[3].ID)

	assert.InDelta(t, 310.0, roster.TotalQuality, 1e-9)
	assert.InDelta(t, 38.0, roster.TotalCost, 1e-9)
	assert.Equal(t, MethodExact, roster.Method)

	counts := roster.CountByGroup()
	assert.Equal(t, 1, counts[Goalkeeper])
	assert.Equal(t, 2, counts[Defender])
	assert.Equal(t, 1, counts[Forward])

	defenders := roster.ByGroup(Defender)
	require.Len(t, defenders, 2)
	assert.Equal(t, "d1", defenders[0].ID)
}

func TestRosterOverBudget(t *testing.T) {
	roster := NewRoster([]Candidate{
		{ID: "a", Position: Forward, Cost: 60},
		{ID: "b", Position: Forward, Cost: 50},
	}, MethodGreedyFallback)

	assert.True(t, roster.OverBudget(100))
	assert.False(t, roster.OverBudget(110))
	assert.False(t, roster.OverBudget(120))
}

func TestRosterRows(t *testing.T) {
	roster := NewRoster([]Candidate{
		{ID: "g1", Name: "Keeper", Position: Goalkeeper, Quality: 80, Cost: 10},
		{ID: "f1", Name: "Striker", Position: Forward, Quality: 85, Cost: 15},
	}, MethodExact)

	rows := roster.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "g1", rows[0].ID)
	assert.Equal(t, "GK", rows[0].Position)
	assert.Equal(t, "Striker", rows[1].Name)
}
