package mcp

import (
	"context"
	"strings"
	"testing"

	"shorthorizon/internal/config"
	"shorthorizon/internal/treatment"
)

func testServer() *Server {
	return NewServer(&config.AppConfig{SampleSize: 200, RoundsPerGame: 3}, "test")
}

func intPtr(v int) *int { return &v }

func TestHandleAssign_FixedIndex(t *testing.T) {
	s := testServer()
	ctx := context.Background()

	_, res, err := s.handleAssign(ctx, nil, AssignInput{ParticipantID: "p1", Index: intPtr(3)})
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if res.Index != 3 {
		t.Errorf("Index = %d, want 3", res.Index)
	}
	if res.UnitCosts != treatment.UnitCostsFor(3) {
		t.Errorf("UnitCosts = %+v, want alternate triple", res.UnitCosts)
	}
	if res.Restored {
		t.Error("fresh assignment reported Restored")
	}
	if res.PayoffRound < 1 || res.PayoffRound > res.TotalRounds {
		t.Errorf("PayoffRound = %d outside [1, %d]", res.PayoffRound, res.TotalRounds)
	}

	// Second assignment must keep the existing treatment.
	_, again, err := s.handleAssign(ctx, nil, AssignInput{ParticipantID: "p1", Index: intPtr(0)})
	if err != nil {
		t.Fatalf("re-assign failed: %v", err)
	}
	if !again.Restored || again.Index != 3 {
		t.Errorf("re-assign = %+v, want restored index 3", again)
	}
}

func TestHandleAssign_Validation(t *testing.T) {
	s := testServer()
	ctx := context.Background()

	if _, _, err := s.handleAssign(ctx, nil, AssignInput{ParticipantID: "p1", Index: intPtr(9)}); err == nil {
		t.Error("assign with index 9 succeeded, want error")
	}
	if _, _, err := s.handleAssign(ctx, nil, AssignInput{}); err == nil {
		t.Error("assign without participant_id succeeded, want error")
	}
}

func TestHandleLookup_UnknownParticipant(t *testing.T) {
	s := testServer()
	_, _, err := s.handleUnitCosts(context.Background(), nil, ParticipantInput{ParticipantID: "ghost"})
	if err == nil || !strings.Contains(err.Error(), "assign_treatment") {
		t.Errorf("expected missing-session error pointing at assign_treatment, got %v", err)
	}
}

func TestHandlePlayRound_DisruptionAtSecondGame(t *testing.T) {
	s := testServer()
	ctx := context.Background()

	if _, _, err := s.handleAssign(ctx, nil, AssignInput{ParticipantID: "p1", Index: intPtr(0)}); err != nil {
		t.Fatal(err)
	}

	_, first, err := s.handlePlayRound(ctx, nil, PlayRoundInput{ParticipantID: "p1", Round: 1, Order: 100})
	if err != nil {
		t.Fatalf("round 1 failed: %v", err)
	}
	if first.Game != 1 || first.Disrupted {
		t.Errorf("round 1 = %+v, want game 1 and no disruption", first)
	}

	// RoundsPerGame is 3, so round 4 opens game 2 and triggers the disruption.
	_, second, err := s.handlePlayRound(ctx, nil, PlayRoundInput{ParticipantID: "p1", Round: 4, Order: 100})
	if err != nil {
		t.Fatalf("round 4 failed: %v", err)
	}
	if second.Game != 2 || second.RoundInGame != 1 {
		t.Errorf("round 4 placed at game %d round %d", second.Game, second.RoundInGame)
	}
	if !second.Disrupted {
		t.Error("round 4 did not disrupt the treatment")
	}

	// Replaying the disruption round must not compound sigma.
	sess, err := s.lookup("p1")
	if err != nil {
		t.Fatal(err)
	}
	before, err := sess.treatment.Params()
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.handlePlayRound(ctx, nil, PlayRoundInput{ParticipantID: "p1", Round: 4, Order: 90}); err != nil {
		t.Fatal(err)
	}
	after, err := sess.treatment.Params()
	if err != nil {
		t.Fatal(err)
	}
	if after.Sigma != before.Sigma {
		t.Errorf("replaying the disruption round changed sigma: %v -> %v", before.Sigma, after.Sigma)
	}
}

func TestHandlePlayRound_Validation(t *testing.T) {
	s := testServer()
	ctx := context.Background()
	if _, _, err := s.handleAssign(ctx, nil, AssignInput{ParticipantID: "p1", Index: intPtr(0)}); err != nil {
		t.Fatal(err)
	}

	if _, _, err := s.handlePlayRound(ctx, nil, PlayRoundInput{ParticipantID: "p1", Round: 7, Order: 10}); err == nil {
		t.Error("round beyond session length succeeded, want error")
	}
	if _, _, err := s.handlePlayRound(ctx, nil, PlayRoundInput{ParticipantID: "p1", Round: 1, Order: -5}); err == nil {
		t.Error("negative order succeeded, want error")
	}
}

func TestHandleExportRestore_RoundTrip(t *testing.T) {
	s := testServer()
	ctx := context.Background()

	if _, _, err := s.handleAssign(ctx, nil, AssignInput{ParticipantID: "p1", Index: intPtr(2)}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.handleDrawDemand(ctx, nil, DrawDemandInput{ParticipantID: "p1", Disrupt: true}); err != nil {
		t.Fatal(err)
	}

	_, exported, err := s.handleExport(ctx, nil, ParticipantInput{ParticipantID: "p1"})
	if err != nil {
		t.Fatal(err)
	}

	_, restored, err := s.handleRestore(ctx, nil, RestoreInput{ParticipantID: "p2", Treatment: exported.Treatment})
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if restored.Index != 2 {
		t.Errorf("restored index = %d, want 2", restored.Index)
	}

	_, order, err := s.handleOptimalOrder(ctx, nil, ParticipantInput{ParticipantID: "p2"})
	if err != nil {
		t.Fatal(err)
	}
	if !order.Disrupted {
		t.Error("restored treatment lost its disruption state")
	}
}

func TestHandleRestore_Malformed(t *testing.T) {
	s := testServer()
	_, _, err := s.handleRestore(context.Background(), nil, RestoreInput{ParticipantID: "p1", Treatment: `{"idx":42}`})
	if err == nil {
		t.Error("restore with out-of-range index succeeded, want error")
	}
}

func TestHandleDrawDemand_Summary(t *testing.T) {
	s := testServer()
	ctx := context.Background()
	if _, _, err := s.handleAssign(ctx, nil, AssignInput{ParticipantID: "p1", Index: intPtr(0)}); err != nil {
		t.Fatal(err)
	}

	_, res, err := s.handleDrawDemand(ctx, nil, DrawDemandInput{ParticipantID: "p1", Size: 50})
	if err != nil {
		t.Fatal(err)
	}
	if res.Size != 50 {
		t.Errorf("Size = %d, want 50", res.Size)
	}
	if res.Samples != nil {
		t.Error("samples returned without include_samples")
	}
	if res.Min <= 0 || res.Max < res.Min || res.Mean < res.Min || res.Mean > res.Max {
		t.Errorf("summary out of order: %+v", res)
	}

	_, withSamples, err := s.handleDrawDemand(ctx, nil, DrawDemandInput{ParticipantID: "p1", Size: 50, IncludeSamples: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(withSamples.Samples) != 50 {
		t.Errorf("len(Samples) = %d, want 50", len(withSamples.Samples))
	}
}

func TestHandleForecast(t *testing.T) {
	s := testServer()
	ctx := context.Background()
	if _, _, err := s.handleAssign(ctx, nil, AssignInput{ParticipantID: "p1", Index: intPtr(0)}); err != nil {
		t.Fatal(err)
	}

	_, res, err := s.handleForecast(ctx, nil, ForecastInput{ParticipantID: "p1", Order: 100})
	if err != nil {
		t.Fatal(err)
	}
	if res.Forecast.Trials != 200 {
		t.Errorf("forecast over %d trials, want the configured 200", res.Forecast.Trials)
	}
	if res.OptimalOrder <= 0 {
		t.Errorf("OptimalOrder = %v, want > 0", res.OptimalOrder)
	}
	if res.OptimalForecast.Order != res.OptimalOrder {
		t.Error("optimal forecast not evaluated at the optimal order")
	}

	if _, _, err := s.handleForecast(ctx, nil, ForecastInput{ParticipantID: "p1", Order: -1}); err == nil {
		t.Error("negative order succeeded, want error")
	}
}

func TestHandleSweep(t *testing.T) {
	s := testServer()
	_, res, err := s.handleSweep(context.Background(), nil, SweepInput{SampleSize: 100, Seed: 42})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Profiles) != treatment.NumProfiles {
		t.Fatalf("got %d profiles, want %d", len(res.Profiles), treatment.NumProfiles)
	}
}
