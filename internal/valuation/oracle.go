package valuation

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/fieldside/squadforge/internal/squad"
)

// Sample is one observation for fitting the market-value model.
type Sample struct {
	Age       float64
	Quality   float64
	Potential float64
	Value     float64
}

// Oracle predicts a player's market value from age, quality and
// potential via an ordinary-least-squares fit. The model choice is not
// load-bearing: consumers depend only on the Predict contract, and the
// value gap it feeds is a pre-filter, never part of the optimizer's
// objective.
type Oracle struct {
	coeffs [4]float64 // intercept, age, quality, potential
	r2     float64
}

// Fit estimates the value model from observed samples by QR-decomposed
// least squares.
func Fit(samples []Sample) (*Oracle, error) {
	n := len(samples)
	if n < 4 {
		return nil, fmt.Errorf("valuation fit needs at least 4 samples, got %d", n)
	}

	x := mat.NewDense(n, 4, nil)
	y := mat.NewVecDense(n, nil)
	for i, s := range samples {
		x.Set(i, 0, 1)
		x.Set(i, 1, s.Age)
		x.Set(i, 2, s.Quality)
		x.Set(i, 3, s.Potential)
		y.SetVec(i, s.Value)
	}

	var qr mat.QR
	qr.Factorize(x)

	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, y); err != nil {
		return nil, fmt.Errorf("valuation fit failed: %w", err)
	}

	o := &Oracle{}
	for i := 0; i < 4; i++ {
		o.coeffs[i] = beta.AtVec(i)
	}

	estimates := make([]float64, n)
	values := make([]float64, n)
	for i, s := range samples {
		estimates[i] = o.predict(s.Age, s.Quality, s.Potential)
		values[i] = s.Value
	}
	o.r2 = stat.RSquaredFrom(estimates, values, nil)

	return o, nil
}

func (o *Oracle) predict(age, quality, potential float64) float64 {
	return o.coeffs[0] + o.coeffs[1]*age + o.coeffs[2]*quality + o.coeffs[3]*potential
}

// Predict returns the modeled market value for a candidate.
func (o *Oracle) Predict(c squad.Candidate) float64 {
	return o.predict(float64(c.Age), c.Quality, c.Potential)
}

// R2 reports the coefficient of determination of the fit.
func (o *Oracle) R2() float64 { return o.r2 }

// Annotate returns a new candidate slice with predicted value and value
// gap attached. Input candidates are never mutated; the gap is predicted
// value minus cost, positive meaning underpriced relative to the model.
func Annotate(pool []squad.Candidate, o *Oracle) []squad.Candidate {
	annotated := make([]squad.Candidate, len(pool))
	for i, c := range pool {
		predicted := o.Predict(c)
		c.PredictedValue = predicted
		c.ValueGap = predicted - c.Cost
		annotated[i] = c
	}
	return annotated
}
