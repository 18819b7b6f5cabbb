package treatment

import (
	"encoding/json"
	"errors"
	"fmt"
)

// FromJSON reconstructs a Treatment from its serialized form, including any
// cached parameters and disruption state the blob carries.
func FromJSON(blob []byte) (*Treatment, error) {
	t := &Treatment{}
	if err := json.Unmarshal(blob, t); err != nil {
		if errors.Is(err, ErrDeserialize) || errors.Is(err, ErrIndexRange) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrDeserialize, err)
	}
	return t, nil
}

// MarshalJSON encodes the treatment with its cached derived state. Unknown
// fields captured at decode time are re-emitted unchanged.
func (t *Treatment) MarshalJSON() ([]byte, error) {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	fields := make(map[string]json.RawMessage, len(t.extra)+6)
	for k, v := range t.extra {
		fields[k] = v
	}

	put := func(key string, v any) error {
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		fields[key] = raw
		return nil
	}

	if err := put("idx", t.idx); err != nil {
		return nil, err
	}
	if t.params != nil {
		if err := put("mu", t.params.Mu); err != nil {
			return nil, err
		}
		if err := put("sigma", t.params.Sigma); err != nil {
			return nil, err
		}
	}
	if t.disrupted {
		if err := put("disrupted", true); err != nil {
			return nil, err
		}
	}
	if t.payoffRound > 0 {
		if err := put("payoff_round", t.payoffRound); err != nil {
			return nil, err
		}
	}
	if t.costs != nil {
		if err := put("costs", t.costs); err != nil {
			return nil, err
		}
	}

	return json.Marshal(fields)
}

// UnmarshalJSON decodes a serialized treatment. The index is required and
// range-checked; unrecognized fields are preserved for the next marshal.
func (t *Treatment) UnmarshalJSON(blob []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(blob, &fields); err != nil {
		return fmt.Errorf("%w: %v", ErrDeserialize, err)
	}

	rawIdx, ok := fields["idx"]
	if !ok {
		return fmt.Errorf("%w: missing idx", ErrDeserialize)
	}
	var idx int
	if err := json.Unmarshal(rawIdx, &idx); err != nil {
		return fmt.Errorf("%w: idx: %v", ErrDeserialize, err)
	}
	if idx < 0 || idx >= NumProfiles {
		return fmt.Errorf("%w: %d", ErrIndexRange, idx)
	}

	var params *Params
	rawMu, hasMu := fields["mu"]
	rawSigma, hasSigma := fields["sigma"]
	if hasMu && hasSigma {
		params = &Params{}
		if err := json.Unmarshal(rawMu, &params.Mu); err != nil {
			return fmt.Errorf("%w: mu: %v", ErrDeserialize, err)
		}
		if err := json.Unmarshal(rawSigma, &params.Sigma); err != nil {
			return fmt.Errorf("%w: sigma: %v", ErrDeserialize, err)
		}
	}

	var disrupted bool
	if raw, ok := fields["disrupted"]; ok {
		if err := json.Unmarshal(raw, &disrupted); err != nil {
			return fmt.Errorf("%w: disrupted: %v", ErrDeserialize, err)
		}
	}

	var payoffRound int
	if raw, ok := fields["payoff_round"]; ok {
		if err := json.Unmarshal(raw, &payoffRound); err != nil {
			return fmt.Errorf("%w: payoff_round: %v", ErrDeserialize, err)
		}
	}

	var costs *UnitCosts
	if raw, ok := fields["costs"]; ok {
		costs = &UnitCosts{}
		if err := json.Unmarshal(raw, costs); err != nil {
			return fmt.Errorf("%w: costs: %v", ErrDeserialize, err)
		}
	}

	for _, known := range [...]string{"idx", "mu", "sigma", "disrupted", "payoff_round", "costs"} {
		delete(fields, known)
	}

	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.idx = idx
	t.params = params
	t.disrupted = disrupted
	t.payoffRound = payoffRound
	t.costs = costs
	t.samples = nil
	if len(fields) > 0 {
		t.extra = fields
	} else {
		t.extra = nil
	}
	return nil
}
