package service

import (
	"context"

	"StrikeScope/internal/domain/models"
)

// QuoteSource supplies the observable binary markets for a symbol.
type QuoteSource interface {
	Quotes(ctx context.Context, symbol string) ([]models.MarketQuote, error)
}

// SpotSource supplies the current spot price for a symbol. The second
// result is false when no price is known.
type SpotSource interface {
	Latest(ctx context.Context, symbol string) (float64, bool)
}
