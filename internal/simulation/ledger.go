package simulation

import (
	"fmt"

	"shorthorizon/internal/treatment"
)

// PeriodRecord is one row of a participant's game history.
type PeriodRecord struct {
	Period           int     `json:"period"`
	Played           bool    `json:"played"`
	Order            float64 `json:"ou"`
	Demand           float64 `json:"du"`
	Sold             float64 `json:"sold"`
	Leftover         float64 `json:"leftover"`
	Revenue          float64 `json:"revenue"`
	Cost             float64 `json:"cost"`
	Profit           float64 `json:"profit"`
	CumulativeProfit float64 `json:"cumulative_profit"`
}

// Ledger accumulates per-period outcomes for one game.
type Ledger struct {
	records []PeriodRecord
}

// NewLedger returns an empty history of the given length, one record per
// period, periods numbered from 1.
func NewLedger(periods int) *Ledger {
	records := make([]PeriodRecord, periods)
	for i := range records {
		records[i].Period = i + 1
	}
	return &Ledger{records: records}
}

// Play settles a period and records the outcome. Periods may be settled in
// any order; cumulative profit is recomputed over all played periods so far.
func (l *Ledger) Play(period int, order, demand float64, costs treatment.UnitCosts) (Outcome, error) {
	if period < 1 || period > len(l.records) {
		return Outcome{}, fmt.Errorf("period %d outside game of %d periods", period, len(l.records))
	}

	out := Score(order, demand, costs)
	rec := &l.records[period-1]
	rec.Played = true
	rec.Order = out.Order
	rec.Demand = out.Demand
	rec.Sold = out.Sold
	rec.Leftover = out.Leftover
	rec.Revenue = out.Revenue
	rec.Cost = out.Cost
	rec.Profit = out.Profit

	cumulative := 0.0
	for i := range l.records {
		if !l.records[i].Played {
			continue
		}
		cumulative += l.records[i].Profit
		l.records[i].CumulativeProfit = cumulative
	}
	return out, nil
}

// Records returns a copy of the history rows.
func (l *Ledger) Records() []PeriodRecord {
	out := make([]PeriodRecord, len(l.records))
	copy(out, l.records)
	return out
}

// CumulativeProfit returns total profit over the played periods.
func (l *Ledger) CumulativeProfit() float64 {
	total := 0.0
	for _, r := range l.records {
		if r.Played {
			total += r.Profit
		}
	}
	return total
}
