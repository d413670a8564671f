package models

import "time"

// MarketQuote is one observable binary market for a symbol: strike
// level, current YES probability, and time to expiry.
type MarketQuote struct {
	MarketID      string  `json:"market_id"`
	Symbol        string  `json:"symbol"`
	Strike        float64 `json:"strike"`
	YesPrice      float64 `json:"yes_price"`
	ExpirySeconds int64   `json:"expiry_seconds"`
}

// TauYears converts the quote's remaining life to years.
func (q MarketQuote) TauYears() float64 {
	return float64(q.ExpirySeconds) / (365.25 * 24 * 3600)
}

// SpotTick is one spot-price observation from the exchange stream.
type SpotTick struct {
	Symbol    string
	Timestamp int64 // unix seconds
	Price     float64
	Volume    float64
}

// CalibrationSnapshot is a persisted record of one strike's solved
// volatility, kept for vol-history diagnostics.
type CalibrationSnapshot struct {
	Symbol     string
	MarketID   string
	Side       string
	Kind       string
	Spot       float64
	Strike     float64
	YesPrice   float64
	Tau        float64
	H          float64
	Vol        float64
	Calibrated bool
	At         time.Time
}
