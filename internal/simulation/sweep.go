package simulation

import (
	"context"

	"golang.org/x/sync/errgroup"

	"shorthorizon/internal/treatment"
)

// ProfileReport is the full decision picture for one treatment arm.
type ProfileReport struct {
	Index            int                 `json:"index"`
	Profile          treatment.Profile   `json:"profile"`
	Costs            treatment.UnitCosts `json:"costs"`
	Params           treatment.Params    `json:"params"`
	CriticalFractile float64             `json:"critical_fractile"`
	OptimalOrder     float64             `json:"optimal_order"`
	Forecast         ProfitForecast      `json:"forecast"`
}

// SweepProfiles evaluates every treatment arm: fitted parameters, critical
// fractile, optimal order quantity and a profit forecast for that order over
// sampleSize demand draws. Arms are evaluated concurrently; seed fixes each
// arm's demand realization so repeated sweeps agree.
func SweepProfiles(ctx context.Context, sampleSize int, seed uint64) ([]ProfileReport, error) {
	reports := make([]ProfileReport, treatment.NumProfiles)

	g, ctx := errgroup.WithContext(ctx)
	for idx := 0; idx < treatment.NumProfiles; idx++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			tr, err := treatment.New(idx)
			if err != nil {
				return err
			}
			tr.Seed(seed + uint64(idx))

			costs := tr.UnitCosts()
			cf, err := costs.CriticalFractile()
			if err != nil {
				return err
			}
			params, err := tr.Params()
			if err != nil {
				return err
			}
			optimal, err := tr.OptimalOrderQuantity()
			if err != nil {
				return err
			}
			demand, err := tr.DemandSamples(sampleSize, false)
			if err != nil {
				return err
			}

			reports[idx] = ProfileReport{
				Index:            idx,
				Profile:          treatment.ProfileFor(idx),
				Costs:            costs,
				Params:           params,
				CriticalFractile: cf,
				OptimalOrder:     optimal,
				Forecast:         ForecastProfit(optimal, demand, costs),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}
