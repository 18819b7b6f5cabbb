package treatment

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// CriticalFractile returns the newsvendor service level Cu/(Cu+Co), where
// Cu is the underage cost (margin lost per unit of unmet demand) and Co the
// overage cost (loss per unsold unit).
func (c UnitCosts) CriticalFractile() (float64, error) {
	overage := c.Wholesale - c.Salvage
	underage := c.Retail - c.Wholesale
	cf := underage / (underage + overage)
	if math.IsNaN(cf) || cf <= 0 || cf >= 1 {
		return 0, fmt.Errorf("%w: rcpu=%v wcpu=%v scpu=%v", ErrUnitCosts, c.Retail, c.Wholesale, c.Salvage)
	}
	return cf, nil
}

// OptimalOrderQuantity computes the profit-maximizing order quantity for this
// treatment: the fitted demand distribution evaluated at the critical
// fractile. The result is deterministic for a given index and cost triple.
func (t *Treatment) OptimalOrderQuantity() (float64, error) {
	cf, err := t.UnitCosts().CriticalFractile()
	if err != nil {
		return 0, err
	}
	p, err := t.Params()
	if err != nil {
		return 0, err
	}

	// Back-transform to the natural mean, then scale by the standard-normal
	// quantile at cf. See "Mean": https://en.wikipedia.org/wiki/Log-normal_distribution
	naturalMean := math.Exp(p.Mu + 0.5*p.Sigma*p.Sigma)
	return naturalMean * math.Exp(distuv.UnitNormal.Quantile(cf)*p.Sigma), nil
}
