package usecase

import (
	"context"
	"testing"

	"StrikeScope/internal/domain/models"
	"StrikeScope/internal/pricing"
)

func TestCalibrateSolvesInvertibleQuote(t *testing.T) {
	snaps := &captureSnaps{}
	cal := NewCalibrator(snaps, noopMetrics{}, 0.5, nil)

	portfolio := models.NewPortfolio()
	portfolio.Add(models.Strike{
		MarketID: "m1", Symbol: "BTC", Side: models.SideYes,
		Price: 95000, EntryPrice: 0.65, YesPrice: 0.7,
	})
	quotes := []models.MarketQuote{
		{MarketID: "m1", Symbol: "BTC", Strike: 95000, YesPrice: 0.7, ExpirySeconds: weekSeconds},
	}

	cal.Calibrate(context.Background(), portfolio, quotes, pricing.KindAbove, 100000, 0.5)

	held := portfolio.Strikes()
	if !held[0].Calibrated {
		t.Fatalf("expected quote to calibrate")
	}
	if held[0].Vol < pricing.VolFloor || held[0].Vol > pricing.VolCeil {
		t.Fatalf("vol %v outside solver bounds", held[0].Vol)
	}

	// solved vol must reprice the quote
	pctx := pricing.NewContext(quotes[0].TauYears(), 0.5)
	got := pricing.PriceAbove(100000, 95000, held[0].Vol, pctx)
	if diff := got - 0.7; diff > 1e-4 || diff < -1e-4 {
		t.Fatalf("repriced quote = %v, want 0.7", got)
	}

	if len(snaps.saved) != 1 {
		t.Fatalf("snapshots = %d, want 1", len(snaps.saved))
	}
	s := snaps.saved[0]
	if s.MarketID != "m1" || s.Side != "YES" || !s.Calibrated {
		t.Fatalf("unexpected snapshot %+v", s)
	}
	if s.Vol != held[0].Vol {
		t.Fatalf("snapshot vol %v != strike vol %v", s.Vol, held[0].Vol)
	}
}

func TestCalibrateFallbackOnExpiredQuote(t *testing.T) {
	snaps := &captureSnaps{}
	cal := NewCalibrator(snaps, noopMetrics{}, 0.5, nil)

	portfolio := models.NewPortfolio()
	portfolio.Add(models.Strike{
		MarketID: "m1", Symbol: "BTC", Side: models.SideYes,
		Price: 95000, EntryPrice: 0.65, YesPrice: 0.7,
	})
	quotes := []models.MarketQuote{
		{MarketID: "m1", Symbol: "BTC", Strike: 95000, YesPrice: 0.7, ExpirySeconds: 0},
	}

	cal.Calibrate(context.Background(), portfolio, quotes, pricing.KindAbove, 100000, 0.5)

	held := portfolio.Strikes()
	if held[0].Calibrated {
		t.Fatalf("expired quote must not calibrate")
	}
	if held[0].Vol != 0.5 {
		t.Fatalf("vol = %v, want fallback 0.5", held[0].Vol)
	}
	if len(snaps.saved) != 1 || snaps.saved[0].Calibrated {
		t.Fatalf("snapshot should record the fallback, got %+v", snaps.saved)
	}
}

func TestCalibrateSkipsStrikesWithoutQuote(t *testing.T) {
	cal := NewCalibrator(nil, noopMetrics{}, 0.5, nil)

	portfolio := models.NewPortfolio()
	portfolio.Add(models.Strike{
		MarketID: "gone", Symbol: "BTC", Side: models.SideYes,
		Price: 95000, EntryPrice: 0.65,
	})

	snaps := cal.Calibrate(context.Background(), portfolio, nil, pricing.KindAbove, 100000, 0.5)
	if len(snaps) != 0 {
		t.Fatalf("snapshots = %d, want 0", len(snaps))
	}
}
