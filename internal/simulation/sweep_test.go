package simulation

import (
	"context"
	"testing"

	"shorthorizon/internal/treatment"
)

func TestSweepProfiles(t *testing.T) {
	reports, err := SweepProfiles(context.Background(), 500, 42)
	if err != nil {
		t.Fatalf("SweepProfiles returned error: %v", err)
	}
	if len(reports) != treatment.NumProfiles {
		t.Fatalf("got %d reports, want %d", len(reports), treatment.NumProfiles)
	}

	for i, r := range reports {
		if r.Index != i {
			t.Errorf("report %d carries index %d", i, r.Index)
		}
		if r.OptimalOrder <= 0 {
			t.Errorf("report %d: OptimalOrder = %v, want > 0", i, r.OptimalOrder)
		}
		if r.Forecast.Trials != 500 {
			t.Errorf("report %d: forecast over %d trials, want 500", i, r.Forecast.Trials)
		}
		if r.CriticalFractile <= 0 || r.CriticalFractile >= 1 {
			t.Errorf("report %d: critical fractile %v outside (0,1)", i, r.CriticalFractile)
		}
	}

	if reports[3].Costs == reports[0].Costs {
		t.Error("index 3 should trade on the alternate cost triple")
	}
}

func TestSweepProfiles_Deterministic(t *testing.T) {
	a, err := SweepProfiles(context.Background(), 200, 7)
	if err != nil {
		t.Fatal(err)
	}
	b, err := SweepProfiles(context.Background(), 200, 7)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		if a[i].Forecast != b[i].Forecast {
			t.Errorf("report %d: forecasts differ across seeded sweeps", i)
		}
	}
}

func TestSweepProfiles_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := SweepProfiles(ctx, 100, 1); err == nil {
		t.Error("expected error from cancelled context")
	}
}
