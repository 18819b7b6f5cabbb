package treatment

import (
	"fmt"
	"math"
)

// Params holds the location and scale of a fitted log-normal demand
// distribution.
type Params struct {
	Mu    float64 `json:"mu"`
	Sigma float64 `json:"sigma"`
}

// DisruptionFactor is the sigma multiplier applied by a supply disruption.
// Mu is left untouched.
const DisruptionFactor = 2.0

// fit converts natural-scale (mean, sigma) demand parameters into log-normal
// (mu, sigma) via the method of moments.
// See "Estimation of parameters": https://en.wikipedia.org/wiki/Log-normal_distribution
func fit(p Profile) (Params, error) {
	m2 := p.NaturalMean * p.NaturalMean
	s2 := p.NaturalSigma * p.NaturalSigma
	if m2 <= 0 || s2+m2 <= 0 {
		return Params{}, fmt.Errorf("%w: mean=%v sigma=%v", ErrDomain, p.NaturalMean, p.NaturalSigma)
	}
	inner := s2/m2 + 1
	if inner <= 0 {
		return Params{}, fmt.Errorf("%w: mean=%v sigma=%v", ErrDomain, p.NaturalMean, p.NaturalSigma)
	}

	fitted := Params{
		Mu:    math.Log(m2 / math.Sqrt(s2+m2)),
		Sigma: math.Sqrt(math.Log(inner)),
	}
	if math.IsNaN(fitted.Mu) || math.IsInf(fitted.Mu, 0) || fitted.Sigma <= 0 {
		return Params{}, fmt.Errorf("%w: fit produced mu=%v sigma=%v", ErrDomain, fitted.Mu, fitted.Sigma)
	}
	return fitted, nil
}
