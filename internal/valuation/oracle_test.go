package valuation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldside/squadforge/internal/squad"
)

// linearSamples generates observations from an exact linear model so the
// fit must recover it.
func linearSamples() []Sample {
	model := func(age, quality, potential float64) float64 {
		return 2_000_000 - 50_000*age + 120_000*quality + 80_000*potential
	}
	var samples []Sample
	for _, s := range []struct{ age, quality, potential float64 }{
		{19, 70, 88},
		{22, 75, 85},
		{25, 80, 82},
		{28, 82, 82},
		{31, 78, 78},
		{34, 72, 72},
	} {
		samples = append(samples, Sample{
			Age:       s.age,
			Quality:   s.quality,
			Potential: s.potential,
			Value:     model(s.age, s.quality, s.potential),
		})
	}
	return samples
}

func TestFitRecoversLinearModel(t *testing.T) {
	oracle, err := Fit(linearSamples())
	require.NoError(t, err)

	// Noiseless linear data: the fit is exact.
	assert.InDelta(t, 1.0, oracle.R2(), 1e-9)

	predicted := oracle.Predict(squad.Candidate{Age: 24, Quality: 77, Potential: 84})
	expected := 2_000_000 - 50_000*24.0 + 120_000*77.0 + 80_000*84.0
	assert.InDelta(t, expected, predicted, 1.0)
}

func TestFitRequiresEnoughSamples(t *testing.T) {
	_, err := Fit(linearSamples()[:3])
	assert.Error(t, err)

	_, err = Fit(nil)
	assert.Error(t, err)
}

func TestAnnotateAttachesValueGap(t *testing.T) {
	oracle, err := Fit(linearSamples())
	require.NoError(t, err)

	pool := []squad.Candidate{
		{ID: "p1", Position: squad.Forward, Age: 24, Quality: 77, Potential: 84, Cost: 9_000_000},
	}
	annotated := Annotate(pool, oracle)
	require.Len(t, annotated, 1)

	predicted := oracle.Predict(pool[0])
	assert.InDelta(t, predicted, annotated[0].PredictedValue, 1e-6)
	assert.InDelta(t, predicted-9_000_000, annotated[0].ValueGap, 1e-6)

	// Input pool is never mutated.
	assert.Zero(t, pool[0].PredictedValue)
	assert.Zero(t, pool[0].ValueGap)
}
