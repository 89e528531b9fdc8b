package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"paygate/internal/gateway"
	"paygate/internal/metrics"
	"paygate/internal/ratelimiter"
	"paygate/internal/store"
)

func newTestApplication(t *testing.T, limiterCfg ratelimiter.Config) *application {
	t.Helper()

	logger := zap.NewNop().Sugar()
	storage := store.NewStorage()
	service := gateway.New(
		storage,
		logger,
		metrics.New(prometheus.NewRegistry()),
		gateway.NewReceiptGenerator("test-secret"),
	)

	return &application{
		config: config{
			addr:        ":0",
			env:         "test",
			rateLimiter: limiterCfg,
		},
		store:   storage,
		gateway: service,
		logger:  logger,
		rateLimiter: ratelimiter.NewFixedWindowLimiter(
			limiterCfg.RequestsPerTimeFrame,
			limiterCfg.TimeFrame,
		),
	}
}

func doJSON(t *testing.T, mux http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func decodeData(t *testing.T, rr *httptest.ResponseRecorder, out any) {
	t.Helper()

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding envelope: %v (body %s)", err, rr.Body.String())
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		t.Fatalf("decoding data: %v (body %s)", err, rr.Body.String())
	}
}

func TestGatewayEndToEnd(t *testing.T) {
	app := newTestApplication(t, ratelimiter.Config{Enabled: false})
	mux := app.mount()

	// Administrative settings first.
	rr := doJSON(t, mux, http.MethodPost, "/v1/settings", map[string]float64{
		"commissionA": 1, "commissionB": 2, "blockSum": 10,
	})
	if rr.Code != http.StatusAccepted {
		t.Fatalf("settings: expected 202, got %d (%s)", rr.Code, rr.Body.String())
	}
	var settings store.Settings
	decodeData(t, rr, &settings)
	if settings.CommissionA != 1 || settings.CommissionB != 2 || settings.BlockSum != 10 {
		t.Fatalf("settings not echoed back: %+v", settings)
	}

	rr = doJSON(t, mux, http.MethodPost, "/v1/settings", map[string]float64{
		"commissionA": 0, "commissionB": 2, "blockSum": 10,
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("invalid settings: expected 400, got %d", rr.Code)
	}

	// Register a shop.
	rr = doJSON(t, mux, http.MethodPost, "/v1/shops", map[string]any{
		"name": "Books & More", "commissionC": 5,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("register shop: expected 201, got %d (%s)", rr.Code, rr.Body.String())
	}
	var shop store.Shop
	decodeData(t, rr, &shop)
	if shop.ID != 1 {
		t.Fatalf("expected first shop id 1, got %d", shop.ID)
	}

	rr = doJSON(t, mux, http.MethodPost, "/v1/shops", map[string]any{
		"name": "   ", "commissionC": 5,
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("blank shop name: expected 400, got %d", rr.Code)
	}

	// Accept a payment.
	rr = doJSON(t, mux, http.MethodPost, "/v1/payments/accept", map[string]any{
		"shopId": shop.ID, "amount": 100,
	})
	if rr.Code != http.StatusAccepted {
		t.Fatalf("accept: expected 202, got %d (%s)", rr.Code, rr.Body.String())
	}
	var payment store.Payment
	decodeData(t, rr, &payment)
	if payment.ID != 1 || payment.BlockedAmount != 10 || payment.Status != store.StatusAccepted {
		t.Fatalf("unexpected accepted payment: %+v", payment)
	}

	rr = doJSON(t, mux, http.MethodPost, "/v1/payments/accept", map[string]any{
		"shopId": 999, "amount": 100,
	})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("unknown shop: expected 404, got %d", rr.Code)
	}
	rr = doJSON(t, mux, http.MethodPost, "/v1/payments/accept", map[string]any{
		"shopId": shop.ID, "amount": -5,
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("negative amount: expected 400, got %d", rr.Code)
	}

	// Process and complete.
	rr = doJSON(t, mux, http.MethodPost, "/v1/payments/process", map[string]any{
		"paymentIds": []int64{payment.ID},
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("process: expected 201, got %d (%s)", rr.Code, rr.Body.String())
	}
	var transitioned struct {
		Results  []store.TransitionResult `json:"results"`
		Payments []store.Payment          `json:"payments"`
	}
	decodeData(t, rr, &transitioned)
	if len(transitioned.Payments) != 1 || transitioned.Payments[0].Status != store.StatusProcessed {
		t.Fatalf("unexpected snapshot after process: %+v", transitioned.Payments)
	}

	rr = doJSON(t, mux, http.MethodPost, "/v1/payments/process", map[string]any{
		"paymentIds": []int64{0},
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("bad id list: expected 400, got %d", rr.Code)
	}

	rr = doJSON(t, mux, http.MethodPost, "/v1/payments/complete", map[string]any{
		"paymentIds": []int64{payment.ID},
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("complete: expected 201, got %d", rr.Code)
	}

	// Withdraw: net = 100 - (1 + 2 + 5) = 92.
	rr = doJSON(t, mux, http.MethodPost, "/v1/payments/withdraw", map[string]any{
		"shopId": shop.ID,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("withdraw: expected 200, got %d (%s)", rr.Code, rr.Body.String())
	}
	var statement gateway.WithdrawalStatement
	decodeData(t, rr, &statement)
	if statement.TotalPayment != 92 {
		t.Fatalf("expected total payment 92, got %v", statement.TotalPayment)
	}
	if len(statement.Payments) != 1 || statement.Payments[0].Amount != 92 {
		t.Fatalf("unexpected statement payments: %+v", statement.Payments)
	}
	if statement.Receipt == "" {
		t.Fatal("expected a receipt on a settling withdrawal")
	}

	// Same-day retry hits the cooldown.
	rr = doJSON(t, mux, http.MethodPost, "/v1/payments/withdraw", map[string]any{
		"shopId": shop.ID,
	})
	if rr.Code != http.StatusConflict {
		t.Fatalf("same-day withdraw: expected 409, got %d", rr.Code)
	}

	// Shop lookup.
	rr = doJSON(t, mux, http.MethodGet, "/v1/shops/1", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get shop: expected 200, got %d", rr.Code)
	}
	rr = doJSON(t, mux, http.MethodGet, "/v1/shops/99", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("get unknown shop: expected 404, got %d", rr.Code)
	}

	rr = doJSON(t, mux, http.MethodGet, "/v1/health", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", rr.Code)
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	app := newTestApplication(t, ratelimiter.Config{
		RequestsPerTimeFrame: 2,
		TimeFrame:            time.Second,
		Enabled:              true,
	})
	mux := app.mount()

	for i := 0; i < 2; i++ {
		rr := doJSON(t, mux, http.MethodGet, "/v1/health", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rr.Code)
		}
	}

	rr := doJSON(t, mux, http.MethodGet, "/v1/health", nil)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 once the window is full, got %d", rr.Code)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Fatal("expected a Retry-After header")
	}
}
