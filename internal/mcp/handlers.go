package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"shorthorizon/internal/simulation"
	"shorthorizon/internal/treatment"
)

// AssignInput identifies the participant to hydrate.
type AssignInput struct {
	ParticipantID string `json:"participant_id" jsonschema:"identifier of the participant session"`
	Index         *int   `json:"index,omitempty" jsonschema:"fixed treatment index instead of a random draw"`
}

// AssignResult describes the treatment in effect after hydration.
type AssignResult struct {
	Index       int                 `json:"index"`
	UnitCosts   treatment.UnitCosts `json:"unit_costs"`
	PayoffRound int                 `json:"payoff_round"`
	TotalRounds int                 `json:"total_rounds"`
	Restored    bool                `json:"restored"`
}

func (s *Server) handleAssign(ctx context.Context, _ *sdk.CallToolRequest, in AssignInput) (*sdk.CallToolResult, AssignResult, error) {
	sess, restored, err := s.hydrate(in.ParticipantID, in.Index)
	if err != nil {
		return nil, AssignResult{}, err
	}
	payoff, err := sess.treatment.PayoffRound(s.schedule.TotalRounds())
	if err != nil {
		return nil, AssignResult{}, err
	}
	return nil, AssignResult{
		Index:       sess.treatment.Index(),
		UnitCosts:   sess.treatment.UnitCosts(),
		PayoffRound: payoff,
		TotalRounds: s.schedule.TotalRounds(),
		Restored:    restored,
	}, nil
}

// ParticipantInput addresses an existing session.
type ParticipantInput struct {
	ParticipantID string `json:"participant_id" jsonschema:"identifier of the participant session"`
}

// UnitCostsResult reports the cost triple and its critical fractile.
type UnitCostsResult struct {
	Index            int                 `json:"index"`
	UnitCosts        treatment.UnitCosts `json:"unit_costs"`
	CriticalFractile float64             `json:"critical_fractile"`
}

func (s *Server) handleUnitCosts(ctx context.Context, _ *sdk.CallToolRequest, in ParticipantInput) (*sdk.CallToolResult, UnitCostsResult, error) {
	sess, err := s.lookup(in.ParticipantID)
	if err != nil {
		return nil, UnitCostsResult{}, err
	}
	costs := sess.treatment.UnitCosts()
	cf, err := costs.CriticalFractile()
	if err != nil {
		return nil, UnitCostsResult{}, err
	}
	return nil, UnitCostsResult{
		Index:            sess.treatment.Index(),
		UnitCosts:        costs,
		CriticalFractile: cf,
	}, nil
}

// OptimalOrderResult reports the newsvendor-optimal order quantity.
type OptimalOrderResult struct {
	Index            int     `json:"index"`
	OptimalOrder     float64 `json:"optimal_order"`
	CriticalFractile float64 `json:"critical_fractile"`
	Disrupted        bool    `json:"disrupted"`
}

func (s *Server) handleOptimalOrder(ctx context.Context, _ *sdk.CallToolRequest, in ParticipantInput) (*sdk.CallToolResult, OptimalOrderResult, error) {
	sess, err := s.lookup(in.ParticipantID)
	if err != nil {
		return nil, OptimalOrderResult{}, err
	}
	cf, err := sess.treatment.UnitCosts().CriticalFractile()
	if err != nil {
		return nil, OptimalOrderResult{}, err
	}
	order, err := sess.treatment.OptimalOrderQuantity()
	if err != nil {
		return nil, OptimalOrderResult{}, err
	}
	return nil, OptimalOrderResult{
		Index:            sess.treatment.Index(),
		OptimalOrder:     order,
		CriticalFractile: cf,
		Disrupted:        sess.treatment.Disrupted(),
	}, nil
}

// DrawDemandInput requests a demand batch. See drawDemandSchema.
type DrawDemandInput struct {
	ParticipantID  string `json:"participant_id"`
	Size           int    `json:"size,omitempty"`
	Disrupt        bool   `json:"disrupt,omitempty"`
	IncludeSamples bool   `json:"include_samples,omitempty"`
}

// DrawDemandResult summarizes the drawn batch.
type DrawDemandResult struct {
	Size      int       `json:"size"`
	Disrupted bool      `json:"disrupted"`
	Mean      float64   `json:"mean"`
	Min       float64   `json:"min"`
	Max       float64   `json:"max"`
	Samples   []float64 `json:"samples,omitempty"`
}

func (s *Server) handleDrawDemand(ctx context.Context, _ *sdk.CallToolRequest, in DrawDemandInput) (*sdk.CallToolResult, DrawDemandResult, error) {
	sess, err := s.lookup(in.ParticipantID)
	if err != nil {
		return nil, DrawDemandResult{}, err
	}
	size := in.Size
	if size == 0 {
		size = s.cfg.SampleSize
	}
	batch, err := sess.treatment.DemandSamples(size, in.Disrupt)
	if err != nil {
		return nil, DrawDemandResult{}, err
	}

	result := DrawDemandResult{
		Size:      len(batch),
		Disrupted: sess.treatment.Disrupted(),
		Min:       batch[0],
		Max:       batch[0],
	}
	sum := 0.0
	for _, d := range batch {
		sum += d
		if d < result.Min {
			result.Min = d
		}
		if d > result.Max {
			result.Max = d
		}
	}
	result.Mean = sum / float64(len(batch))
	if in.IncludeSamples {
		result.Samples = batch
	}
	return nil, result, nil
}

// PlayRoundInput settles one round of the game.
type PlayRoundInput struct {
	ParticipantID string  `json:"participant_id" jsonschema:"identifier of the participant session"`
	Round         int     `json:"round" jsonschema:"session-wide round number, starting at 1"`
	Order         float64 `json:"order" jsonschema:"units ordered for the round"`
}

// PlayRoundResult reports the settled round.
type PlayRoundResult struct {
	Game             int                `json:"game"`
	RoundInGame      int                `json:"round_in_game"`
	Outcome          simulation.Outcome `json:"outcome"`
	CumulativeProfit float64            `json:"cumulative_profit"`
	Disrupted        bool               `json:"disrupted"`
	IsPayoffRound    bool               `json:"is_payoff_round"`
}

func (s *Server) handlePlayRound(ctx context.Context, _ *sdk.CallToolRequest, in PlayRoundInput) (*sdk.CallToolResult, PlayRoundResult, error) {
	sess, err := s.lookup(in.ParticipantID)
	if err != nil {
		return nil, PlayRoundResult{}, err
	}
	if in.Round < 1 || in.Round > s.schedule.TotalRounds() {
		return nil, PlayRoundResult{}, fmt.Errorf("round %d outside session of %d rounds", in.Round, s.schedule.TotalRounds())
	}
	if in.Order < 0 {
		return nil, PlayRoundResult{}, fmt.Errorf("order must be non-negative: got %v", in.Order)
	}

	// The scheduled disruption fires once, even if the round is replayed.
	disrupt := s.schedule.IsDisruptionRound(in.Round) && !sess.treatment.Disrupted()
	batch, err := sess.treatment.DemandSamples(s.cfg.SampleSize, disrupt)
	if err != nil {
		return nil, PlayRoundResult{}, err
	}
	demand := batch[(in.Round-1)%len(batch)]

	outcome, err := sess.ledger.Play(in.Round, in.Order, demand, sess.treatment.UnitCosts())
	if err != nil {
		return nil, PlayRoundResult{}, err
	}

	payoff, err := sess.treatment.PayoffRound(s.schedule.TotalRounds())
	if err != nil {
		return nil, PlayRoundResult{}, err
	}
	return nil, PlayRoundResult{
		Game:             s.schedule.GameNumber(in.Round),
		RoundInGame:      s.schedule.RoundInGame(in.Round),
		Outcome:          outcome,
		CumulativeProfit: sess.ledger.CumulativeProfit(),
		Disrupted:        sess.treatment.Disrupted(),
		IsPayoffRound:    in.Round == payoff,
	}, nil
}

// HistoryResult is the participant's full game ledger.
type HistoryResult struct {
	Records          []simulation.PeriodRecord `json:"records"`
	CumulativeProfit float64                   `json:"cumulative_profit"`
}

func (s *Server) handleHistory(ctx context.Context, _ *sdk.CallToolRequest, in ParticipantInput) (*sdk.CallToolResult, HistoryResult, error) {
	sess, err := s.lookup(in.ParticipantID)
	if err != nil {
		return nil, HistoryResult{}, err
	}
	return nil, HistoryResult{
		Records:          sess.ledger.Records(),
		CumulativeProfit: sess.ledger.CumulativeProfit(),
	}, nil
}

// ForecastInput names a candidate order quantity to evaluate.
type ForecastInput struct {
	ParticipantID string  `json:"participant_id" jsonschema:"identifier of the participant session"`
	Order         float64 `json:"order" jsonschema:"candidate order quantity"`
}

// ForecastResult compares the candidate against the optimal order.
type ForecastResult struct {
	Forecast        simulation.ProfitForecast `json:"forecast"`
	OptimalOrder    float64                   `json:"optimal_order"`
	OptimalForecast simulation.ProfitForecast `json:"optimal_forecast"`
}

func (s *Server) handleForecast(ctx context.Context, _ *sdk.CallToolRequest, in ForecastInput) (*sdk.CallToolResult, ForecastResult, error) {
	sess, err := s.lookup(in.ParticipantID)
	if err != nil {
		return nil, ForecastResult{}, err
	}
	if in.Order < 0 {
		return nil, ForecastResult{}, fmt.Errorf("order must be non-negative: got %v", in.Order)
	}

	batch, err := sess.treatment.DemandSamples(s.cfg.SampleSize, false)
	if err != nil {
		return nil, ForecastResult{}, err
	}
	optimal, err := sess.treatment.OptimalOrderQuantity()
	if err != nil {
		return nil, ForecastResult{}, err
	}

	costs := sess.treatment.UnitCosts()
	return nil, ForecastResult{
		Forecast:        simulation.ForecastProfit(in.Order, batch, costs),
		OptimalOrder:    optimal,
		OptimalForecast: simulation.ForecastProfit(optimal, batch, costs),
	}, nil
}

// ExportResult carries the serialized treatment.
type ExportResult struct {
	Treatment string `json:"treatment" jsonschema:"JSON-encoded treatment blob"`
}

func (s *Server) handleExport(ctx context.Context, _ *sdk.CallToolRequest, in ParticipantInput) (*sdk.CallToolResult, ExportResult, error) {
	sess, err := s.lookup(in.ParticipantID)
	if err != nil {
		return nil, ExportResult{}, err
	}
	blob, err := json.Marshal(sess.treatment)
	if err != nil {
		return nil, ExportResult{}, err
	}
	return nil, ExportResult{Treatment: string(blob)}, nil
}

// RestoreInput carries a previously exported treatment blob.
type RestoreInput struct {
	ParticipantID string `json:"participant_id" jsonschema:"identifier of the participant session"`
	Treatment     string `json:"treatment" jsonschema:"blob produced by export_treatment"`
}

func (s *Server) handleRestore(ctx context.Context, _ *sdk.CallToolRequest, in RestoreInput) (*sdk.CallToolResult, AssignResult, error) {
	if in.ParticipantID == "" {
		return nil, AssignResult{}, fmt.Errorf("participant_id is required")
	}
	tr, err := treatment.FromJSON([]byte(in.Treatment))
	if err != nil {
		return nil, AssignResult{}, err
	}
	if s.cfg.CostOverride != nil {
		tr.SetUnitCosts(*s.cfg.CostOverride)
	}

	sess := s.install(in.ParticipantID, tr)
	payoff, err := sess.treatment.PayoffRound(s.schedule.TotalRounds())
	if err != nil {
		return nil, AssignResult{}, err
	}
	return nil, AssignResult{
		Index:       sess.treatment.Index(),
		UnitCosts:   sess.treatment.UnitCosts(),
		PayoffRound: payoff,
		TotalRounds: s.schedule.TotalRounds(),
		Restored:    true,
	}, nil
}

// SweepInput tunes the per-arm evaluation.
type SweepInput struct {
	SampleSize int    `json:"sample_size,omitempty" jsonschema:"demand draws per arm, defaults to the configured sample size"`
	Seed       uint64 `json:"seed,omitempty" jsonschema:"seed fixing each arm's demand realization"`
}

// SweepResult lists the per-arm reports.
type SweepResult struct {
	Profiles []simulation.ProfileReport `json:"profiles"`
}

func (s *Server) handleSweep(ctx context.Context, _ *sdk.CallToolRequest, in SweepInput) (*sdk.CallToolResult, SweepResult, error) {
	size := in.SampleSize
	if size == 0 {
		size = s.cfg.SampleSize
	}
	reports, err := simulation.SweepProfiles(ctx, size, in.Seed)
	if err != nil {
		return nil, SweepResult{}, err
	}
	return nil, SweepResult{Profiles: reports}, nil
}
