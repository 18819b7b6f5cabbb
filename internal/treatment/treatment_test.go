package treatment

import (
	"errors"
	"testing"
)

func TestChoose_IndexInRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		tr := Choose()
		if tr.Index() < 0 || tr.Index() >= NumProfiles {
			t.Fatalf("Choose() produced index %d outside [0, %d)", tr.Index(), NumProfiles)
		}
	}
}

func TestNew_RangeValidation(t *testing.T) {
	for idx := 0; idx < NumProfiles; idx++ {
		if _, err := New(idx); err != nil {
			t.Errorf("New(%d) returned error: %v", idx, err)
		}
	}
	for _, idx := range []int{-1, NumProfiles, 42} {
		if _, err := New(idx); !errors.Is(err, ErrIndexRange) {
			t.Errorf("New(%d) error = %v, want ErrIndexRange", idx, err)
		}
	}
}

func TestUnitCostsFor_AlternateTriple(t *testing.T) {
	for idx := 0; idx < NumProfiles; idx++ {
		got := UnitCostsFor(idx)
		want := defaultCosts
		if idx == alternateCostsIndex {
			want = alternateCosts
		}
		if got != want {
			t.Errorf("UnitCostsFor(%d) = %+v, want %+v", idx, got, want)
		}
	}
}

func TestUnitCosts_Override(t *testing.T) {
	tr, err := New(0)
	if err != nil {
		t.Fatal(err)
	}
	override := UnitCosts{Retail: 30, Wholesale: 10, Salvage: 2}
	tr.SetUnitCosts(override)
	if got := tr.UnitCosts(); got != override {
		t.Fatalf("UnitCosts() = %+v, want override %+v", got, override)
	}

	blob, err := tr.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	restored, err := FromJSON(blob)
	if err != nil {
		t.Fatal(err)
	}
	if got := restored.UnitCosts(); got != override {
		t.Errorf("restored UnitCosts() = %+v, want override %+v", got, override)
	}
}

func TestPayoffRound_DrawnOnceAndCached(t *testing.T) {
	tr, err := New(1)
	if err != nil {
		t.Fatal(err)
	}
	tr.Seed(42)

	first, err := tr.PayoffRound(24)
	if err != nil {
		t.Fatal(err)
	}
	if first < 1 || first > 24 {
		t.Fatalf("PayoffRound(24) = %d, want value in [1, 24]", first)
	}

	second, err := tr.PayoffRound(24)
	if err != nil {
		t.Fatal(err)
	}
	if second != first {
		t.Errorf("second PayoffRound = %d, want cached %d", second, first)
	}

	if _, err := tr.PayoffRound(0); err == nil {
		t.Error("PayoffRound(0) succeeded, want error")
	}
}
