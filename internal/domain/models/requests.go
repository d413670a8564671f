package models

// Requests for the projection HTTP endpoints. Defined in domain for
// consistency and reuse; defaults and validation run in pkg/http.

// StrikeSelection is one portfolio entry in a projection request.
type StrikeSelection struct {
	MarketID   string  `json:"market_id" validate:"required"`
	Side       string  `json:"side" default:"YES" validate:"oneof=YES NO"`
	EntryPrice float64 `json:"entry_price" validate:"gt=0,lt=1"`
}

// ProjectionRequest asks for the four-horizon P&L projection of a
// portfolio over a spot range. Lower/Upper of zero means "derive a
// range around the current spot".
type ProjectionRequest struct {
	Symbol  string            `json:"symbol" validate:"required"`
	Kind    string            `json:"kind" default:"above" validate:"oneof=above hit"`
	Lower   float64           `json:"lower" validate:"gte=0"`
	Upper   float64           `json:"upper" validate:"gte=0"`
	H       float64           `json:"h" default:"0.5" validate:"gt=0,lte=1"`
	Points  int               `json:"points" default:"200" validate:"gte=2,lte=2000"`
	Mode    string            `json:"mode" default:"pnl" validate:"oneof=pnl value"`
	Smile   bool              `json:"smile"`
	Strikes []StrikeSelection `json:"strikes" validate:"required,min=1,dive"`
}

// SmileRequest asks for the calibrated smile of a symbol's full
// strike ladder, for diagnostic display.
type SmileRequest struct {
	Symbol string  `query:"symbol" json:"symbol" validate:"required"`
	Kind   string  `query:"kind" json:"kind" default:"above" validate:"oneof=above hit"`
	H      float64 `query:"h" json:"h" default:"0.5" validate:"gt=0,lte=1"`
}

// SpotRequest asks for the latest observed spot price.
type SpotRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
}
