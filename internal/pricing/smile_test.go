package pricing

import (
	"math"
	"testing"
)

func testQuotes() []StrikeQuote {
	return []StrikeQuote{
		{Strike: 110000, YesPrice: 0.25},
		{Strike: 95000, YesPrice: 0.75},
		{Strike: 100000, YesPrice: 0.52},
		{Strike: 105000, YesPrice: 0.38},
	}
}

func TestBuildSmile_SortedAscending(t *testing.T) {
	smile := BuildSmile(KindAbove, 100000, testQuotes(), NewContext(7/365.25, DefaultH))
	if len(smile) != 4 {
		t.Fatalf("expected 4 nodes, got %d", len(smile))
	}
	for i := 1; i < len(smile); i++ {
		if smile[i].Moneyness <= smile[i-1].Moneyness {
			t.Fatalf("smile not ascending at %d: %v <= %v", i, smile[i].Moneyness, smile[i-1].Moneyness)
		}
	}
}

func TestBuildSmile_SkipsUnusableQuotes(t *testing.T) {
	quotes := []StrikeQuote{
		{Strike: 100000, YesPrice: 0.5},
		{Strike: 120000, YesPrice: 0.0005}, // below the usable band
		{Strike: 80000, YesPrice: 0.9995},  // above the usable band
		{Strike: 0, YesPrice: 0.5},         // invalid strike
	}
	smile := BuildSmile(KindAbove, 100000, quotes, NewContext(7/365.25, DefaultH))
	if len(smile) != 1 {
		t.Fatalf("expected 1 usable node, got %d", len(smile))
	}
}

func TestBuildSmile_EmptyOnExpired(t *testing.T) {
	smile := BuildSmile(KindAbove, 100000, testQuotes(), NewContext(0, DefaultH))
	if len(smile) != 0 {
		t.Fatalf("expired context must calibrate nothing, got %d nodes", len(smile))
	}
}

func TestSmileVol_NodeExactness(t *testing.T) {
	smile := BuildSmile(KindAbove, 100000, testQuotes(), NewContext(7/365.25, DefaultH))
	for _, node := range smile {
		got, ok := smile.Vol(node.Moneyness)
		if !ok {
			t.Fatal("non-empty smile returned not-ok")
		}
		if got != node.Vol {
			t.Errorf("vol at node moneyness %v = %v, want exactly %v", node.Moneyness, got, node.Vol)
		}
	}
}

func TestSmileVol_LinearBetweenNodes(t *testing.T) {
	smile := Smile{{Moneyness: -0.1, Vol: 0.4}, {Moneyness: 0.1, Vol: 0.8}}
	got, ok := smile.Vol(0)
	if !ok {
		t.Fatal("expected ok")
	}
	if math.Abs(got-0.6) > 1e-12 {
		t.Errorf("midpoint vol = %v, want 0.6", got)
	}
}

func TestSmileVol_FlatExtrapolation(t *testing.T) {
	smile := Smile{{Moneyness: -0.1, Vol: 0.4}, {Moneyness: 0.1, Vol: 0.8}}
	if got, _ := smile.Vol(-5); got != 0.4 {
		t.Errorf("left extrapolation = %v, want 0.4", got)
	}
	if got, _ := smile.Vol(5); got != 0.8 {
		t.Errorf("right extrapolation = %v, want 0.8", got)
	}
}

func TestSmileVol_EmptyNotOK(t *testing.T) {
	var smile Smile
	if _, ok := smile.Vol(0); ok {
		t.Fatal("empty smile must report not-ok, caller owns the fallback")
	}
}
