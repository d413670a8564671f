package api

import (
	"errors"
	"time"

	"StrikeScope/internal/domain/models"
	"StrikeScope/internal/usecase"
	xhttp "StrikeScope/pkg/http"
	xlogger "StrikeScope/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ProjectionHandler exposes the pricing engine over HTTP.
type ProjectionHandler struct {
	logger  *xlogger.Logger
	builder *usecase.ProjectionBuilder
	spot    *usecase.SpotCollector
	history *usecase.TickHistory
}

// NewProjectionHandler creates the API handler. spot may be nil when
// the live stream is disabled.
func NewProjectionHandler(logger *xlogger.Logger, builder *usecase.ProjectionBuilder, spot *usecase.SpotCollector, history *usecase.TickHistory) *ProjectionHandler {
	return &ProjectionHandler{logger: logger, builder: builder, spot: spot, history: history}
}

func (h *ProjectionHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/projection", h.Projection)
	g.GET("/smile", h.Smile)
	g.GET("/spot", h.Spot)
	g.GET("/history", h.History)
	g.GET("/health", h.Health)
}

// Projection calibrates the requested portfolio and returns its
// four-horizon P&L or value curves.
func (h *ProjectionHandler) Projection(c echo.Context) error {
	req := &models.ProjectionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	proj, err := h.builder.Build(c.Request().Context(), req)
	if err != nil {
		return h.mapError(c, "projection", err)
	}
	return xhttp.SuccessResponse(c, proj)
}

// Smile calibrates the symbol's full strike ladder.
func (h *ProjectionHandler) Smile(c echo.Context) error {
	req := &models.SmileRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	sm, spot, err := h.builder.BuildSmile(c.Request().Context(), req)
	if err != nil {
		return h.mapError(c, "smile", err)
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"symbol":       req.Symbol,
		"kind":         req.Kind,
		"spot":         spot,
		"smile":        sm,
		"generated_at": time.Now().UTC(),
	})
}

// Spot returns the latest resolved spot price for a symbol.
func (h *ProjectionHandler) Spot(c echo.Context) error {
	req := &models.SpotRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	price, err := h.builder.ResolveSpot(c.Request().Context(), req.Symbol)
	if err != nil {
		return h.mapError(c, "spot", err)
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"symbol": req.Symbol,
		"price":  price,
	})
}

// History returns stored spot ticks for a symbol, newest first.
// Bounds accept RFC3339 or unix seconds and default to the last hour.
func (h *ProjectionHandler) History(c echo.Context) error {
	symbol := c.QueryParam("symbol")
	if symbol == "" {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("symbol is required"))
	}

	to := xhttp.ParseTimeDefault(c.QueryParam("to"), time.Now().UTC())
	from := xhttp.ParseTimeDefault(c.QueryParam("from"), to.Add(-time.Hour))
	limit := xhttp.ParseIntDefault(c.QueryParam("limit"), 500)

	ticks, err := h.history.Range(c.Request().Context(), symbol, from, to, limit)
	if err != nil {
		return h.mapError(c, "history", err)
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"symbol": symbol,
		"count":  len(ticks),
		"ticks":  ticks,
	})
}

// Health reports stream connectivity.
func (h *ProjectionHandler) Health(c echo.Context) error {
	streamUp := h.spot != nil && h.spot.IsConnected()
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"stream_connected": streamUp,
	})
}

func (h *ProjectionHandler) mapError(c echo.Context, op string, err error) error {
	switch {
	case errors.Is(err, usecase.ErrUnknownMarket),
		errors.Is(err, usecase.ErrBadRange):
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
	case errors.Is(err, usecase.ErrNoQuotes):
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError(err.Error()))
	case errors.Is(err, usecase.ErrNoSpot):
		return xhttp.AppErrorResponse(c, xhttp.UnavailableError(err.Error()))
	default:
		h.logger.Error(op+" usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
}

var _ xhttp.Handler = (*ProjectionHandler)(nil)
