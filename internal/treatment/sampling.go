package treatment

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultSampleSize is the batch size drawn when callers have no preference.
const DefaultSampleSize = 10000

// DemandSamples returns size i.i.d. draws from the treatment's demand
// distribution.
//
// A previously drawn batch of exactly the requested size is returned as-is,
// so repeated reads see the same demand realization; the returned slice is
// shared and must not be mutated. Requesting a different size discards the
// cached batch. Passing disrupt doubles the fitted sigma in place before
// redrawing; the doubling is permanent for this instance and compounds if
// requested again.
func (t *Treatment) DemandSamples(size int, disrupt bool) ([]float64, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrSampleSize, size)
	}

	t.mtx.Lock()
	defer t.mtx.Unlock()

	if len(t.samples) == size && !disrupt {
		return t.samples, nil
	}

	p, err := t.paramsLocked()
	if err != nil {
		return nil, err
	}
	if disrupt {
		t.params.Sigma *= DisruptionFactor
		t.disrupted = true
		p = *t.params
	}

	dist := distuv.LogNormal{Mu: p.Mu, Sigma: p.Sigma, Src: t.rngLocked()}
	batch := make([]float64, size)
	for i := range batch {
		batch[i] = dist.Rand()
	}
	t.samples = batch
	return batch, nil
}
