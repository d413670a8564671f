package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"StrikeScope/internal/domain/models"
	"StrikeScope/internal/usecase"
	xhttp "StrikeScope/pkg/http"
	xlogger "StrikeScope/pkg/logger"

	"github.com/labstack/echo/v4"
)

type stubQuotes struct{ quotes []models.MarketQuote }

func (s *stubQuotes) Quotes(_ context.Context, _ string) ([]models.MarketQuote, error) {
	return s.quotes, nil
}

type stubSpot struct{ price float64 }

func (s *stubSpot) Latest(_ context.Context, _ string) (float64, bool) {
	return s.price, s.price > 0
}

type stubMetrics struct{}

func (stubMetrics) RecordCalibration(string, string) {}
func (stubMetrics) RecordSolverFallback(string)      {}
func (stubMetrics) RecordCurve(string, int)          {}
func (stubMetrics) RecordLastSpot(string, float64)   {}
func (stubMetrics) RecordTickRouted(string, string)  {}
func (stubMetrics) RecordError(string)               {}
func (stubMetrics) RecordLatency(string, float64)    {}

type stubStorage struct{ ticks []*models.SpotTick }

func (s *stubStorage) Store(context.Context, *models.SpotTick) error        { return nil }
func (s *stubStorage) StoreBatch(context.Context, []*models.SpotTick) error { return nil }
func (s *stubStorage) Health(context.Context) error                         { return nil }
func (s *stubStorage) Close() error                                         { return nil }

func (s *stubStorage) Query(_ context.Context, symbol string, _, _ time.Time, limit int) ([]*models.SpotTick, error) {
	if limit < len(s.ticks) {
		return s.ticks[:limit], nil
	}
	return s.ticks, nil
}

func testHandler() *ProjectionHandler {
	quotes := &stubQuotes{quotes: []models.MarketQuote{
		{MarketID: "m1", Symbol: "BTC", Strike: 95000, YesPrice: 0.7, ExpirySeconds: 7 * 24 * 3600},
	}}
	cal := usecase.NewCalibrator(nil, stubMetrics{}, 0.5, nil)
	builder := usecase.NewProjectionBuilder(quotes, &stubSpot{price: 100000}, nil, cal, stubMetrics{}, nil, 0.2)
	history := usecase.NewTickHistory(&stubStorage{ticks: []*models.SpotTick{
		{Symbol: "BTC", Timestamp: 1700000060, Price: 100010, Volume: 0.5},
		{Symbol: "BTC", Timestamp: 1700000000, Price: 100000, Volume: 1.2},
	}}, stubMetrics{})
	logger, _ := xlogger.New(&xlogger.Config{Level: "error", Format: "console", Output: "stdout"})
	return NewProjectionHandler(logger, builder, nil, history)
}

func doRequest(t *testing.T, h *ProjectionHandler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	h.RegisterRoutes(e)

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) xhttp.APIResponse {
	t.Helper()
	var resp xhttp.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestProjectionEndpoint(t *testing.T) {
	body := `{"symbol":"BTC","strikes":[{"market_id":"m1","entry_price":0.65}]}`
	rec := doRequest(t, testHandler(), http.MethodPost, "/api/projection", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("http status = %d, want 200", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if resp.Status != http.StatusOK {
		t.Fatalf("envelope status = %d, want 200: %s", resp.Status, rec.Body.String())
	}

	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected data shape: %T", resp.Data)
	}
	curves, ok := data["curves"].([]interface{})
	if !ok || len(curves) != 4 {
		t.Fatalf("expected 4 curves, got %v", data["curves"])
	}
	if data["spot"].(float64) != 100000 {
		t.Fatalf("spot = %v, want 100000", data["spot"])
	}
}

func TestProjectionValidation(t *testing.T) {
	// missing strikes
	body := `{"symbol":"BTC"}`
	rec := doRequest(t, testHandler(), http.MethodPost, "/api/projection", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("http status = %d, want 200 envelope", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if resp.Status != http.StatusBadRequest {
		t.Fatalf("envelope status = %d, want 400", resp.Status)
	}
}

func TestProjectionUnknownMarket(t *testing.T) {
	body := `{"symbol":"BTC","strikes":[{"market_id":"nope","entry_price":0.5}]}`
	rec := doRequest(t, testHandler(), http.MethodPost, "/api/projection", body)

	resp := decodeEnvelope(t, rec)
	if resp.Status != http.StatusBadRequest {
		t.Fatalf("envelope status = %d, want 400", resp.Status)
	}
}

func TestSmileEndpoint(t *testing.T) {
	rec := doRequest(t, testHandler(), http.MethodGet, "/api/smile?symbol=BTC", "")

	resp := decodeEnvelope(t, rec)
	if resp.Status != http.StatusOK {
		t.Fatalf("envelope status = %d, want 200: %s", resp.Status, rec.Body.String())
	}
	data := resp.Data.(map[string]interface{})
	if data["spot"].(float64) != 100000 {
		t.Fatalf("spot = %v, want 100000", data["spot"])
	}
}

func TestHistoryEndpoint(t *testing.T) {
	rec := doRequest(t, testHandler(), http.MethodGet, "/api/history?symbol=BTC&from=1700000000&to=1700003600&limit=1", "")

	resp := decodeEnvelope(t, rec)
	if resp.Status != http.StatusOK {
		t.Fatalf("envelope status = %d, want 200: %s", resp.Status, rec.Body.String())
	}
	data := resp.Data.(map[string]interface{})
	if data["count"].(float64) != 1 {
		t.Fatalf("count = %v, want 1 (limit applied)", data["count"])
	}
	ticks := data["ticks"].([]interface{})
	if len(ticks) != 1 {
		t.Fatalf("ticks = %v, want 1 entry", ticks)
	}
}

func TestHistoryRequiresSymbol(t *testing.T) {
	rec := doRequest(t, testHandler(), http.MethodGet, "/api/history", "")

	resp := decodeEnvelope(t, rec)
	if resp.Status != http.StatusBadRequest {
		t.Fatalf("envelope status = %d, want 400", resp.Status)
	}
}

func TestSpotEndpoint(t *testing.T) {
	rec := doRequest(t, testHandler(), http.MethodGet, "/api/spot?symbol=BTC", "")

	resp := decodeEnvelope(t, rec)
	if resp.Status != http.StatusOK {
		t.Fatalf("envelope status = %d, want 200", resp.Status)
	}
	data := resp.Data.(map[string]interface{})
	if data["price"].(float64) != 100000 {
		t.Fatalf("price = %v, want 100000", data["price"])
	}
}
