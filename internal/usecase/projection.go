package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"StrikeScope/internal/domain/models"
	drepo "StrikeScope/internal/domain/repository"
	"StrikeScope/internal/domain/service"
	"StrikeScope/internal/pricing"
	applogger "StrikeScope/pkg/logger"
)

var (
	// ErrUnknownMarket means a requested market ID has no open quote.
	ErrUnknownMarket = errors.New("unknown market id")
	// ErrNoSpot means no spot price could be resolved for the symbol.
	ErrNoSpot = errors.New("no spot price available")
	// ErrNoQuotes means the symbol has no open binary markets.
	ErrNoQuotes = errors.New("no markets for symbol")
	// ErrBadRange means the requested spot range is degenerate.
	ErrBadRange = errors.New("upper bound must exceed lower bound")
)

// SpotFetcher is a REST fallback for spot prices when the live stream
// has nothing for the symbol yet.
type SpotFetcher interface {
	Spot(ctx context.Context, symbol string) (float64, error)
}

// ProjectionBuilder produces P&L / value projections for a portfolio
// of binary-market strikes.
type ProjectionBuilder struct {
	quotes    service.QuoteSource
	spot      service.SpotSource
	fallback  SpotFetcher
	cal       *Calibrator
	metrics   drepo.Metrics
	logger    *applogger.Logger
	rangeFrac float64
}

// NewProjectionBuilder creates a new ProjectionBuilder instance.
// spot and fallback may each be nil; at least one must resolve a price
// at request time.
func NewProjectionBuilder(
	quotes service.QuoteSource,
	spot service.SpotSource,
	fallback SpotFetcher,
	cal *Calibrator,
	metrics drepo.Metrics,
	logger *applogger.Logger,
	rangeFrac float64,
) *ProjectionBuilder {
	if rangeFrac <= 0 {
		rangeFrac = 0.2
	}
	return &ProjectionBuilder{
		quotes:    quotes,
		spot:      spot,
		fallback:  fallback,
		cal:       cal,
		metrics:   metrics,
		logger:    logger,
		rangeFrac: rangeFrac,
	}
}

// Build runs the full projection: resolve spot, calibrate each held
// strike, optionally build the smile, then generate the four horizon
// curves over the spot range.
func (b *ProjectionBuilder) Build(ctx context.Context, req *models.ProjectionRequest) (*models.Projection, error) {
	start := time.Now()
	kind := pricing.NormalizeKind(req.Kind)

	quotes, err := b.quotes.Quotes(ctx, req.Symbol)
	if err != nil {
		return nil, fmt.Errorf("quotes for %s: %w", req.Symbol, err)
	}
	if len(quotes) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoQuotes, req.Symbol)
	}

	spot, err := b.resolveSpot(ctx, req.Symbol)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.MarketQuote, len(quotes))
	for _, q := range quotes {
		byID[q.MarketID] = q
	}

	// The direction flag on each strike is frozen against the spot
	// observed here, not recomputed per curve sample.
	portfolio := models.NewPortfolio()
	tau := 0.0
	for _, sel := range req.Strikes {
		q, ok := byID[sel.MarketID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownMarket, sel.MarketID)
		}
		portfolio.Add(models.Strike{
			MarketID:   q.MarketID,
			Symbol:     q.Symbol,
			Side:       models.NormalizeSide(sel.Side),
			Price:      q.Strike,
			UpBarrier:  q.Strike > spot,
			EntryPrice: sel.EntryPrice,
			YesPrice:   q.YesPrice,
		})
		if t := q.TauYears(); tau == 0 || (t > 0 && t < tau) {
			tau = t
		}
	}
	if tau < 0 {
		tau = 0
	}

	b.cal.Calibrate(ctx, portfolio, quotes, kind, spot, req.H)

	var smile pricing.Smile
	if req.Smile {
		sq := make([]pricing.StrikeQuote, 0, len(quotes))
		for _, q := range quotes {
			sq = append(sq, pricing.StrikeQuote{Strike: q.Strike, YesPrice: q.YesPrice})
		}
		smile = pricing.BuildSmile(kind, spot, sq, pricing.NewContext(tau, req.H))
	}

	lower, upper := req.Lower, req.Upper
	if lower == 0 && upper == 0 {
		lower = spot * (1 - b.rangeFrac)
		upper = spot * (1 + b.rangeFrac)
	}
	if upper <= lower {
		return nil, fmt.Errorf("%w: [%g, %g]", ErrBadRange, lower, upper)
	}

	positions := portfolio.Positions(kind)
	entryCost := portfolio.TotalEntryCost()
	pctx := pricing.NewContext(tau, req.H)

	horizons := []struct {
		label string
		tau   float64
	}{
		{"now", tau},
		{"t23", tau * 2 / 3},
		{"t13", tau / 3},
	}

	curves := make([]models.ProjectionCurve, 0, len(horizons)+1)
	for _, hz := range horizons {
		pts := pricing.ValueCurve(positions, lower, upper, pctx.WithTau(hz.tau), req.Points, smile)
		if req.Mode == "pnl" {
			pts = pricing.PnL(pts, entryCost)
		}
		b.metrics.RecordCurve(hz.label, len(pts))
		curves = append(curves, models.ProjectionCurve{Label: hz.label, Tau: hz.tau, Points: pts})
	}

	expiryPts := pricing.ExpiryCurve(positions, lower, upper, req.Points)
	if req.Mode == "pnl" {
		expiryPts = pricing.PnL(expiryPts, entryCost)
	}
	b.metrics.RecordCurve("expiry", len(expiryPts))
	curves = append(curves, models.ProjectionCurve{Label: "expiry", Tau: 0, Points: expiryPts})

	held := portfolio.Strikes()
	out := make([]models.CalibratedStrike, 0, len(held))
	for _, s := range held {
		out = append(out, models.CalibratedStrike{
			MarketID:   s.MarketID,
			Side:       string(s.Side),
			Strike:     s.Price,
			UpBarrier:  s.UpBarrier,
			EntryPrice: s.EntryPrice,
			Vol:        s.Vol,
			Calibrated: s.Calibrated,
		})
	}

	b.metrics.RecordLatency("projection", time.Since(start).Seconds())
	return &models.Projection{
		Symbol:         req.Symbol,
		Kind:           string(kind),
		Spot:           spot,
		Tau:            tau,
		H:              req.H,
		UsedSmile:      len(smile) > 0,
		TotalEntryCost: entryCost,
		Strikes:        out,
		Curves:         curves,
		Smile:          smile,
		GeneratedAt:    time.Now().UTC(),
	}, nil
}

// BuildSmile calibrates the full strike ladder of a symbol without a
// portfolio, for diagnostic display.
func (b *ProjectionBuilder) BuildSmile(ctx context.Context, req *models.SmileRequest) (pricing.Smile, float64, error) {
	kind := pricing.NormalizeKind(req.Kind)

	quotes, err := b.quotes.Quotes(ctx, req.Symbol)
	if err != nil {
		return nil, 0, fmt.Errorf("quotes for %s: %w", req.Symbol, err)
	}
	if len(quotes) == 0 {
		return nil, 0, fmt.Errorf("%w: %s", ErrNoQuotes, req.Symbol)
	}

	spot, err := b.resolveSpot(ctx, req.Symbol)
	if err != nil {
		return nil, 0, err
	}

	tau := 0.0
	sq := make([]pricing.StrikeQuote, 0, len(quotes))
	for _, q := range quotes {
		sq = append(sq, pricing.StrikeQuote{Strike: q.Strike, YesPrice: q.YesPrice})
		if t := q.TauYears(); tau == 0 || (t > 0 && t < tau) {
			tau = t
		}
	}
	return pricing.BuildSmile(kind, spot, sq, pricing.NewContext(tau, req.H)), spot, nil
}

// ResolveSpot exposes spot resolution for the spot endpoint.
func (b *ProjectionBuilder) ResolveSpot(ctx context.Context, symbol string) (float64, error) {
	return b.resolveSpot(ctx, symbol)
}

func (b *ProjectionBuilder) resolveSpot(ctx context.Context, symbol string) (float64, error) {
	if b.spot != nil {
		if p, ok := b.spot.Latest(ctx, symbol); ok {
			return p, nil
		}
	}
	if b.fallback != nil {
		p, err := b.fallback.Spot(ctx, symbol)
		if err == nil && p > 0 {
			return p, nil
		}
		if err != nil && b.logger != nil {
			b.logger.Warn("spot fallback failed", applogger.String("symbol", symbol), applogger.Error(err))
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrNoSpot, symbol)
}
