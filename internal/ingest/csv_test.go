package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldside/squadforge/internal/squad"
)

func TestLoadCandidates(t *testing.T) {
	csv := `id,name,position,quality,cost,club,nationality,age,potential,offense,defense,goalkeeping
p1,Keeper One,GK,80,€12M,Ajax,NL,28,82,20,30,88
p2,Back Four,def,75,€8.5M,PSV,BR,24,79,40,81,10
p3,Ten,MID,82,€15M,Ajax,NL,,,,,`

	candidates, err := LoadCandidates(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, candidates, 3)

	assert.Equal(t, "p1", candidates[0].ID)
	assert.Equal(t, squad.Goalkeeper, candidates[0].Position)
	assert.InDelta(t, 12_000_000, candidates[0].Cost, 1e-9)
	assert.Equal(t, 28, candidates[0].Age)
	assert.InDelta(t, 88, candidates[0].Goalkeeping, 1e-9)

	assert.Equal(t, squad.Defender, candidates[1].Position)
	assert.InDelta(t, 8_500_000, candidates[1].Cost, 1e-9)

	// Optional columns may be empty.
	assert.Equal(t, squad.Midfielder, candidates[2].Position)
	assert.Zero(t, candidates[2].Age)
	assert.Zero(t, candidates[2].Potential)
}

func TestLoadCandidatesMissingRequiredColumn(t *testing.T) {
	csv := `id,name,quality,cost,club,nationality
p1,No Position,80,€12M,Ajax,NL`

	_, err := LoadCandidates(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "position")
}

func TestLoadCandidatesMalformedRowRejectedWithRowNumber(t *testing.T) {
	csv := `id,name,position,quality,cost,club,nationality
p1,Fine,GK,80,€12M,Ajax,NL
p2,Broken,GK,not-a-number,€9M,PSV,BR`

	_, err := LoadCandidates(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3")

	var integrity *squad.DataIntegrityError
	require.ErrorAs(t, err, &integrity)
	assert.Equal(t, "quality", integrity.Field)
	assert.Equal(t, "p2", integrity.CandidateID)
}

func TestLoadCandidatesUnknownPosition(t *testing.T) {
	csv := `id,name,position,quality,cost,club,nationality
p1,Wing,ST,80,€12M,Ajax,NL`

	_, err := LoadCandidates(strings.NewReader(csv))
	require.Error(t, err)

	var integrity *squad.DataIntegrityError
	require.ErrorAs(t, err, &integrity)
	assert.Equal(t, "position", integrity.Field)
}

func TestLoadCandidatesMalformedCost(t *testing.T) {
	csv := `id,name,position,quality,cost,club,nationality
p1,Pricey,FWD,80,twelve,Ajax,NL`

	_, err := LoadCandidates(strings.NewReader(csv))
	require.Error(t, err)

	var integrity *squad.DataIntegrityError
	require.ErrorAs(t, err, &integrity)
	assert.Equal(t, "cost", integrity.Field)
}

func TestLoadCandidatesEmptyInput(t *testing.T) {
	_, err := LoadCandidates(strings.NewReader(""))
	assert.Error(t, err)
}
