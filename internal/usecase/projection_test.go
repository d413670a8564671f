package usecase

import (
	"context"
	"errors"
	"math"
	"testing"

	"StrikeScope/internal/domain/models"
)

type fakeQuotes struct {
	quotes []models.MarketQuote
	err    error
}

func (f *fakeQuotes) Quotes(_ context.Context, _ string) ([]models.MarketQuote, error) {
	return f.quotes, f.err
}

type fakeSpot struct {
	price float64
	ok    bool
}

func (f *fakeSpot) Latest(_ context.Context, _ string) (float64, bool) {
	return f.price, f.ok
}

type fakeFetcher struct {
	price float64
	err   error
}

func (f *fakeFetcher) Spot(_ context.Context, _ string) (float64, error) {
	return f.price, f.err
}

type noopMetrics struct{}

func (noopMetrics) RecordCalibration(string, string) {}
func (noopMetrics) RecordSolverFallback(string)      {}
func (noopMetrics) RecordCurve(string, int)          {}
func (noopMetrics) RecordLastSpot(string, float64)   {}
func (noopMetrics) RecordTickRouted(string, string)  {}
func (noopMetrics) RecordError(string)               {}
func (noopMetrics) RecordLatency(string, float64)    {}

type captureSnaps struct {
	saved []models.CalibrationSnapshot
}

func (c *captureSnaps) SaveCalibrations(_ context.Context, snaps []models.CalibrationSnapshot) error {
	c.saved = append(c.saved, snaps...)
	return nil
}

const weekSeconds = 7 * 24 * 3600

func testQuotes() []models.MarketQuote {
	return []models.MarketQuote{
		{MarketID: "m1", Symbol: "BTC", Strike: 95000, YesPrice: 0.7, ExpirySeconds: weekSeconds},
		{MarketID: "m2", Symbol: "BTC", Strike: 105000, YesPrice: 0.3, ExpirySeconds: weekSeconds},
	}
}

func testBuilder(quotes []models.MarketQuote, spot *fakeSpot, fallback SpotFetcher) *ProjectionBuilder {
	cal := NewCalibrator(nil, noopMetrics{}, 0.5, nil)
	return NewProjectionBuilder(&fakeQuotes{quotes: quotes}, spot, fallback, cal, noopMetrics{}, nil, 0.2)
}

func baseRequest() *models.ProjectionRequest {
	return &models.ProjectionRequest{
		Symbol: "BTC",
		Kind:   "above",
		H:      0.5,
		Points: 200,
		Mode:   "pnl",
		Strikes: []models.StrikeSelection{
			{MarketID: "m1", Side: "YES", EntryPrice: 0.65},
		},
	}
}

func TestBuildProjectionShape(t *testing.T) {
	b := testBuilder(testQuotes(), &fakeSpot{price: 100000, ok: true}, nil)

	proj, err := b.Build(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proj.Spot != 100000 {
		t.Fatalf("spot = %v, want 100000", proj.Spot)
	}
	if len(proj.Curves) != 4 {
		t.Fatalf("curves = %d, want 4", len(proj.Curves))
	}
	wantLabels := []string{"now", "t23", "t13", "expiry"}
	for i, c := range proj.Curves {
		if c.Label != wantLabels[i] {
			t.Errorf("curve %d label = %q, want %q", i, c.Label, wantLabels[i])
		}
		if len(c.Points) != 200 {
			t.Errorf("curve %s has %d points, want 200", c.Label, len(c.Points))
		}
	}
	if proj.Curves[3].Tau != 0 {
		t.Errorf("expiry curve tau = %v, want 0", proj.Curves[3].Tau)
	}
	if proj.UsedSmile || proj.Smile != nil {
		t.Errorf("smile should be absent when not requested")
	}
	if len(proj.Strikes) != 1 {
		t.Fatalf("strikes = %d, want 1", len(proj.Strikes))
	}
	if !proj.Strikes[0].Calibrated {
		t.Errorf("strike should calibrate from an invertible quote")
	}
	if math.Abs(proj.TotalEntryCost-0.65) > 1e-12 {
		t.Errorf("entry cost = %v, want 0.65", proj.TotalEntryCost)
	}
}

func TestBuildAutoRange(t *testing.T) {
	b := testBuilder(testQuotes(), &fakeSpot{price: 100000, ok: true}, nil)

	proj, err := b.Build(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pts := proj.Curves[0].Points
	if got := pts[0].Spot; math.Abs(got-80000) > 1e-6 {
		t.Errorf("range lower = %v, want 80000", got)
	}
	if got := pts[len(pts)-1].Spot; math.Abs(got-120000) > 1e-6 {
		t.Errorf("range upper = %v, want 120000", got)
	}
}

func TestBuildWithSmile(t *testing.T) {
	b := testBuilder(testQuotes(), &fakeSpot{price: 100000, ok: true}, nil)

	req := baseRequest()
	req.Smile = true
	proj, err := b.Build(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !proj.UsedSmile {
		t.Fatalf("expected smile to be used")
	}
	if len(proj.Smile) != 2 {
		t.Fatalf("smile points = %d, want 2", len(proj.Smile))
	}
}

func TestBuildUnknownMarket(t *testing.T) {
	b := testBuilder(testQuotes(), &fakeSpot{price: 100000, ok: true}, nil)

	req := baseRequest()
	req.Strikes = []models.StrikeSelection{{MarketID: "missing", Side: "YES", EntryPrice: 0.5}}
	if _, err := b.Build(context.Background(), req); !errors.Is(err, ErrUnknownMarket) {
		t.Fatalf("err = %v, want ErrUnknownMarket", err)
	}
}

func TestBuildNoQuotes(t *testing.T) {
	b := testBuilder(nil, &fakeSpot{price: 100000, ok: true}, nil)

	if _, err := b.Build(context.Background(), baseRequest()); !errors.Is(err, ErrNoQuotes) {
		t.Fatalf("err = %v, want ErrNoQuotes", err)
	}
}

func TestBuildNoSpot(t *testing.T) {
	b := testBuilder(testQuotes(), &fakeSpot{}, nil)

	if _, err := b.Build(context.Background(), baseRequest()); !errors.Is(err, ErrNoSpot) {
		t.Fatalf("err = %v, want ErrNoSpot", err)
	}
}

func TestBuildSpotFallback(t *testing.T) {
	b := testBuilder(testQuotes(), &fakeSpot{}, &fakeFetcher{price: 98000})

	proj, err := b.Build(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proj.Spot != 98000 {
		t.Fatalf("spot = %v, want fallback 98000", proj.Spot)
	}
}

func TestBuildBadRange(t *testing.T) {
	b := testBuilder(testQuotes(), &fakeSpot{price: 100000, ok: true}, nil)

	req := baseRequest()
	req.Lower = 120000
	req.Upper = 90000
	if _, err := b.Build(context.Background(), req); !errors.Is(err, ErrBadRange) {
		t.Fatalf("err = %v, want ErrBadRange", err)
	}
}

func TestBuildValueModeBounded(t *testing.T) {
	b := testBuilder(testQuotes(), &fakeSpot{price: 100000, ok: true}, nil)

	req := baseRequest()
	req.Mode = "value"
	proj, err := b.Build(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, c := range proj.Curves {
		for _, p := range c.Points {
			if p.Value < 0 || p.Value > 1 {
				t.Fatalf("curve %s value %v out of [0,1] at spot %v", c.Label, p.Value, p.Spot)
			}
		}
	}
}

func TestBuildSmileLadder(t *testing.T) {
	b := testBuilder(testQuotes(), &fakeSpot{price: 100000, ok: true}, nil)

	sm, spot, err := b.BuildSmile(context.Background(), &models.SmileRequest{Symbol: "BTC", Kind: "above", H: 0.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spot != 100000 {
		t.Fatalf("spot = %v, want 100000", spot)
	}
	if len(sm) != 2 {
		t.Fatalf("smile points = %d, want 2", len(sm))
	}
	if sm[0].Moneyness >= sm[1].Moneyness {
		t.Fatalf("smile not sorted: %v", sm)
	}
}
