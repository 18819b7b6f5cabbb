// Package treatment implements the demand model behind the single-period
// inventory game: treatment selection, log-normal parameter fitting, the
// newsvendor order-quantity decision and simulated demand draws.
package treatment

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

// Treatment is one participant's assigned demand regime. The index is drawn
// once at session start and never changes; everything else (fitted
// parameters, demand draws, disruption state) is derived lazily and owned by
// this instance.
//
// All methods are safe for concurrent use. The derive-then-cache and
// disruption transitions are atomic: callers never observe a half-disrupted
// parameter set.
type Treatment struct {
	mtx sync.Mutex

	idx         int
	params      *Params
	disrupted   bool
	payoffRound int
	costs       *UnitCosts // optional override of the table triple
	samples     []float64
	rng         *rand.Rand

	// extra preserves unrecognized serialized fields so callers can attach
	// named values without the core rejecting or dropping them.
	extra map[string]json.RawMessage
}

// Choose returns a Treatment with an index drawn uniformly at random.
func Choose() *Treatment {
	return &Treatment{idx: rand.IntN(NumProfiles)}
}

// New returns a Treatment for a known index.
func New(idx int) (*Treatment, error) {
	if idx < 0 || idx >= NumProfiles {
		return nil, fmt.Errorf("%w: %d", ErrIndexRange, idx)
	}
	return &Treatment{idx: idx}, nil
}

// Index returns the treatment's profile index.
func (t *Treatment) Index() int {
	return t.idx
}

// Disrupted reports whether a disruption has been applied. Disruption is
// monotonic: once true it never reverts for this instance.
func (t *Treatment) Disrupted() bool {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.disrupted
}

// UnitCosts returns the cost triple in effect for this treatment: the
// per-instance override when one was supplied, else the table triple for the
// index.
func (t *Treatment) UnitCosts() UnitCosts {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	if t.costs != nil {
		return *t.costs
	}
	return UnitCostsFor(t.idx)
}

// SetUnitCosts overrides the table cost triple for this instance. The
// override survives serialization.
func (t *Treatment) SetUnitCosts(c UnitCosts) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.costs = &c
}

// Params returns the fitted log-normal parameters, deriving and caching them
// on first use.
func (t *Treatment) Params() (Params, error) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.paramsLocked()
}

func (t *Treatment) paramsLocked() (Params, error) {
	if t.params == nil {
		p, err := fit(ProfileFor(t.idx))
		if err != nil {
			return Params{}, err
		}
		t.params = &p
	}
	return *t.params, nil
}

// PayoffRound returns the round whose result pays out, drawing it uniformly
// from [1, totalRounds] on first use and caching it afterwards.
func (t *Treatment) PayoffRound(totalRounds int) (int, error) {
	if totalRounds <= 0 {
		return 0, fmt.Errorf("total rounds must be positive: got %d", totalRounds)
	}
	t.mtx.Lock()
	defer t.mtx.Unlock()
	if t.payoffRound == 0 {
		t.payoffRound = 1 + t.rngLocked().IntN(totalRounds)
	}
	return t.payoffRound, nil
}

// Seed fixes the treatment's random source. Intended for tests and
// reproducible simulations.
func (t *Treatment) Seed(seed uint64) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.rng = rand.New(rand.NewPCG(seed, seed))
}

func (t *Treatment) rngLocked() *rand.Rand {
	if t.rng == nil {
		now := uint64(time.Now().UnixNano())
		t.rng = rand.New(rand.NewPCG(now, now>>1))
	}
	return t.rng
}
