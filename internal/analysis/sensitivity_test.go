package analysis

import (
	"errors"
	"testing"

	"go.uber.org/zap"

	"capture-econ/internal/engine"
	"capture-econ/internal/model"
)

func baseline(t *testing.T, in model.Inputs) float64 {
	t.Helper()
	res, err := engine.Simulate(in)
	if err != nil {
		t.Fatal(err)
	}
	return res.NPV
}

func TestCatalog(t *testing.T) {
	want := []string{
		"incentive_rate", "capture_rate", "electricity_price", "rated_power_kw",
		"discount_rate", "learning_rate", "offtake_price", "consumable_cost",
	}
	ps := Parameters()
	if len(ps) != len(want) {
		t.Fatalf("got %d parameters", len(ps))
	}
	for i, p := range ps {
		if p.Key != want[i] {
			t.Fatalf("parameter %d: got=%s want=%s", i, p.Key, want[i])
		}
	}

	in := model.DefaultInputs()
	p := ps[0]
	out := p.With(in, 42)
	if p.Value(out) != 42 || p.Value(in) != in.IncentiveRate {
		t.Fatal("With must return a modified copy")
	}
}

func TestAnalyzeRanksByDelta(t *testing.T) {
	in := model.DefaultInputs()
	entries := AnalyzeSensitivity(in, baseline(t, in))
	if len(entries) != 8 {
		t.Fatalf("got %d entries", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Delta > entries[i-1].Delta {
			t.Fatalf("entries not sorted at %d: %f > %f", i, entries[i].Delta, entries[i-1].Delta)
		}
	}
	for _, e := range entries {
		if e.Fallbacks != 0 {
			t.Fatalf("%s: unexpected fallback", e.Key)
		}
		if e.Delta != abs(e.HighNPV-e.LowNPV) {
			t.Fatalf("%s: delta mismatch", e.Key)
		}
	}
}

func TestIncentiveRateMovesNPVUp(t *testing.T) {
	in := model.DefaultInputs()
	for _, e := range AnalyzeSensitivity(in, baseline(t, in)) {
		if e.Key == "incentive_rate" {
			if e.HighNPV <= e.LowNPV {
				t.Fatalf("higher incentive should raise NPV: low=%f high=%f", e.LowNPV, e.HighNPV)
			}
			if e.BaseValue != in.IncentiveRate {
				t.Fatalf("base value: got=%f", e.BaseValue)
			}
			return
		}
	}
	t.Fatal("incentive_rate missing")
}

func TestZeroInfluenceSortsLastInCatalogOrder(t *testing.T) {
	in := model.DefaultInputs()
	// Free electricity removes the influence of both price and power draw;
	// no offtake share removes the influence of the offtake price.
	in.ElectricityPrice = 0
	in.OfftakeFraction = 0

	entries := AnalyzeSensitivity(in, baseline(t, in))
	tail := entries[len(entries)-3:]
	want := []string{"electricity_price", "rated_power_kw", "offtake_price"}
	for i, e := range tail {
		if e.Key != want[i] || e.Delta != 0 {
			t.Fatalf("tail[%d]: got %s (delta %f) want %s with zero delta", i, e.Key, e.Delta, want[i])
		}
	}
	for _, e := range entries[:len(entries)-3] {
		if e.Delta == 0 {
			t.Fatalf("%s unexpectedly has zero influence", e.Key)
		}
	}
}

func TestFailedRunsFallBackToBaseNPV(t *testing.T) {
	in := model.DefaultInputs()
	baseNPV := -123.0

	a := NewAnalyzer(zap.NewNop())
	a.simulate = func(x model.Inputs) (*engine.Result, error) {
		if x.ConsumableCost != in.ConsumableCost {
			return nil, errors.New("boom")
		}
		if x.CaptureRate > in.CaptureRate {
			panic("capture overflow")
		}
		return engine.Simulate(x)
	}

	entries := a.Analyze(in, baseNPV)
	if len(entries) != 8 {
		t.Fatalf("got %d entries", len(entries))
	}
	for _, e := range entries {
		switch e.Key {
		case "consumable_cost":
			if e.LowNPV != baseNPV || e.HighNPV != baseNPV || e.Fallbacks != 2 || e.Delta != 0 {
				t.Fatalf("consumable_cost: %+v", e)
			}
		case "capture_rate":
			if e.HighNPV != baseNPV || e.Fallbacks != 1 {
				t.Fatalf("capture_rate: %+v", e)
			}
		default:
			if e.Fallbacks != 0 {
				t.Fatalf("%s: unexpected fallback", e.Key)
			}
		}
	}
}

func TestRankByDeltaIsStable(t *testing.T) {
	entries := []SensitivityEntry{
		{Key: "a", Delta: 1},
		{Key: "b", Delta: 5},
		{Key: "c", Delta: 1},
		{Key: "d", Delta: 0},
		{Key: "e", Delta: 5},
	}
	RankByDelta(entries)
	got := ""
	for _, e := range entries {
		got += e.Key
	}
	if got != "beacd" {
		t.Fatalf("got order %s want beacd", got)
	}
	if len(Top(entries, 2)) != 2 || len(Top(entries, 10)) != 5 || len(Top(entries, -1)) != 5 {
		t.Fatal("Top bounds")
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
