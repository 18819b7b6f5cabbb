// Package simulation scores ordering decisions against simulated demand and
// summarizes the resulting profit distribution.
package simulation

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"shorthorizon/internal/treatment"
)

// Outcome holds the economics of a single selling period.
type Outcome struct {
	Order    float64 `json:"order"`
	Demand   float64 `json:"demand"`
	Sold     float64 `json:"sold"`
	Leftover float64 `json:"leftover"`
	Revenue  float64 `json:"revenue"`
	Cost     float64 `json:"cost"`
	Profit   float64 `json:"profit"`
}

// Score settles one period: demand is served up to the order quantity, unsold
// units are salvaged, and the full order is paid at wholesale.
func Score(order, demand float64, costs treatment.UnitCosts) Outcome {
	sold := math.Min(order, math.Max(demand, 0))
	leftover := order - sold
	revenue := costs.Retail*sold + costs.Salvage*leftover
	cost := costs.Wholesale * order
	return Outcome{
		Order:    order,
		Demand:   demand,
		Sold:     sold,
		Leftover: leftover,
		Revenue:  revenue,
		Cost:     cost,
		Profit:   revenue - cost,
	}
}

// ProfitForecast summarizes simulated profit for one order quantity.
type ProfitForecast struct {
	Order           float64 `json:"order"`
	Trials          int     `json:"trials"`
	Mean            float64 `json:"mean"`
	P50             float64 `json:"p50"`
	P85             float64 `json:"p85"`
	P95             float64 `json:"p95"`
	LossProbability float64 `json:"loss_probability"`
}

// ForecastProfit scores the order quantity against every demand draw and
// reads percentiles off the resulting profit distribution.
func ForecastProfit(order float64, demand []float64, costs treatment.UnitCosts) ProfitForecast {
	if len(demand) == 0 {
		return ProfitForecast{Order: order}
	}

	profits := make([]float64, len(demand))
	losses := 0
	for i, d := range demand {
		p := Score(order, d, costs).Profit
		if p < 0 {
			losses++
		}
		profits[i] = p
	}
	sort.Float64s(profits)

	return ProfitForecast{
		Order:           order,
		Trials:          len(profits),
		Mean:            stat.Mean(profits, nil),
		P50:             stat.Quantile(0.50, stat.Empirical, profits, nil),
		P85:             stat.Quantile(0.85, stat.Empirical, profits, nil),
		P95:             stat.Quantile(0.95, stat.Empirical, profits, nil),
		LossProbability: float64(losses) / float64(len(profits)),
	}
}
