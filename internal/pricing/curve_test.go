package pricing

import (
	"math"
	"testing"
)

func testPositions() []Position {
	return []Position{
		{Model: Above(), Strike: 100000, Yes: true, EntryPrice: 0.52, Vol: 0.5},
		{Model: Above(), Strike: 105000, Yes: false, EntryPrice: 0.62, Vol: 0.55},
	}
}

func TestValueCurve_Sampling(t *testing.T) {
	curve := ValueCurve(testPositions(), 80000, 120000, NewContext(7/365.25, DefaultH), 200, nil)
	if len(curve) != 200 {
		t.Fatalf("expected 200 points, got %d", len(curve))
	}
	if curve[0].Spot != 80000 {
		t.Errorf("first spot = %v, want lower bound", curve[0].Spot)
	}
	if curve[len(curve)-1].Spot != 120000 {
		t.Errorf("last spot = %v, want upper bound", curve[len(curve)-1].Spot)
	}
	for i := 1; i < len(curve); i++ {
		if curve[i].Spot <= curve[i-1].Spot {
			t.Fatalf("spots not strictly increasing at %d", i)
		}
	}
}

func TestValueCurve_DegenerateRequests(t *testing.T) {
	ctx := NewContext(7/365.25, DefaultH)
	pos := testPositions()
	if got := ValueCurve(pos, 80000, 120000, ctx, 1, nil); len(got) != 0 {
		t.Errorf("numPoints < 2: expected empty, got %d points", len(got))
	}
	if got := ValueCurve(pos, 120000, 80000, ctx, 200, nil); len(got) != 0 {
		t.Errorf("upper <= lower: expected empty, got %d points", len(got))
	}
	if got := ValueCurve(nil, 80000, 120000, ctx, 200, nil); len(got) != 0 {
		t.Errorf("empty portfolio: expected empty, got %d points", len(got))
	}
}

func TestValueCurve_ValuesBounded(t *testing.T) {
	// A portfolio of n binary positions is worth between 0 and n.
	pos := testPositions()
	curve := ValueCurve(pos, 50000, 150000, NewContext(30/365.25, DefaultH), 100, nil)
	for _, p := range curve {
		if p.Value < 0 || p.Value > float64(len(pos)) {
			t.Fatalf("value %v at spot %v outside [0, %d]", p.Value, p.Spot, len(pos))
		}
	}
}

func TestValueCurve_NoSideIsComplement(t *testing.T) {
	ctx := NewContext(7/365.25, DefaultH)
	yes := []Position{{Model: Above(), Strike: 100000, Yes: true, Vol: 0.5}}
	no := []Position{{Model: Above(), Strike: 100000, Yes: false, Vol: 0.5}}
	cy := ValueCurve(yes, 90000, 110000, ctx, 50, nil)
	cn := ValueCurve(no, 90000, 110000, ctx, 50, nil)
	for i := range cy {
		if sum := cy[i].Value + cn[i].Value; math.Abs(sum-1) > 1e-12 {
			t.Fatalf("YES+NO = %v at spot %v, want 1", sum, cy[i].Spot)
		}
	}
}

func TestValueCurve_SmileSigmaAtCalibrationSpot(t *testing.T) {
	// Pricing through the smile at the calibration spot must reproduce
	// the market quote: node exactness is what pins P&L to zero there.
	ctx := NewContext(7/365.25, DefaultH)
	const spot, strike, quote = 100000.0, 95000.0, 0.8
	sigma, ok := SolveImpliedVol(Above(), spot, strike, quote, ctx)
	if !ok {
		t.Fatal("calibration failed")
	}
	smile := BuildSmile(KindAbove, spot, []StrikeQuote{{Strike: strike, YesPrice: quote}}, ctx)
	pos := []Position{{Model: Above(), Strike: strike, Yes: true, EntryPrice: quote, Vol: sigma}}
	curve := ValueCurve(pos, spot, spot+1000, ctx, 2, smile)
	if math.Abs(curve[0].Value-quote) > 1e-4 {
		t.Errorf("portfolio value at calibration spot = %v, want %v", curve[0].Value, quote)
	}
}

func TestExpiryCurve_StepFunction(t *testing.T) {
	pos := []Position{{Model: Above(), Strike: 100000, Yes: true, EntryPrice: 0.5}}
	curve := ExpiryCurve(pos, 90000, 110000, 201)
	for _, p := range curve {
		want := 0.0
		if p.Spot >= 100000 {
			want = 1
		}
		if p.Value != want {
			t.Fatalf("expiry value at spot %v = %v, want %v", p.Spot, p.Value, want)
		}
	}
}

func TestExpiryCurve_IsSmallTauLimit(t *testing.T) {
	// Away from the strike, the continuous curve converges pointwise to
	// the expiry step function as tau -> 0+.
	pos := []Position{{Model: Above(), Strike: 100000, Yes: true, Vol: 0.5}}
	tiny := ValueCurve(pos, 90000, 110000, NewContext(1e-9, DefaultH), 101, nil)
	step := ExpiryCurve(pos, 90000, 110000, 101)
	for i := range tiny {
		if math.Abs(tiny[i].Spot-100000) < 500 {
			continue // excluded neighborhood of the discontinuity
		}
		if math.Abs(tiny[i].Value-step[i].Value) > 1e-6 {
			t.Fatalf("spot %v: tau->0 value %v differs from step %v", tiny[i].Spot, tiny[i].Value, step[i].Value)
		}
	}
}

func TestPnL_ShiftsByEntryCost(t *testing.T) {
	pos := testPositions()
	ctx := NewContext(7/365.25, DefaultH)
	raw := ValueCurve(pos, 90000, 110000, ctx, 10, nil)
	cost := TotalEntryCost(pos)
	if math.Abs(cost-1.14) > 1e-12 {
		t.Fatalf("TotalEntryCost = %v, want 1.14", cost)
	}
	pnl := PnL(raw, cost)
	for i := range raw {
		if got := raw[i].Value - pnl[i].Value; math.Abs(got-cost) > 1e-12 {
			t.Fatalf("PnL shift at %d = %v, want %v", i, got, cost)
		}
	}
}
