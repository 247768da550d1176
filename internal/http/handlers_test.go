package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/flash-sale-simulator/internal/config"
	"github.com/fairyhunter13/flash-sale-simulator/internal/inventory"
	"github.com/fairyhunter13/flash-sale-simulator/internal/model"
	"github.com/fairyhunter13/flash-sale-simulator/internal/obs"
)

func setupApp(t *testing.T) (*miniredis.Miniredis, http.Handler) {
	t.Helper()
	obs.InitLogger()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	inv := inventory.New(rdb, 0)
	app := NewApp(config.Config{}, inv, rdb)
	return mr, NewRouter(app)
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealthzOK(t *testing.T) {
	_, h := setupApp(t)
	rr := do(t, h, http.MethodGet, "/healthz")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestHealthzDegradedWhenStoreDown(t *testing.T) {
	mr, h := setupApp(t)
	mr.Close()
	rr := do(t, h, http.MethodGet, "/healthz")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}

func TestGetStockAbsentIsZero(t *testing.T) {
	_, h := setupApp(t)
	rr := do(t, h, http.MethodGet, "/stock")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var lvl model.StockLevel
	if err := json.Unmarshal(rr.Body.Bytes(), &lvl); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if lvl.CurrentStock != 0 {
		t.Fatalf("expected 0, got %d", lvl.CurrentStock)
	}
}

func TestResetDefaultAmount(t *testing.T) {
	_, h := setupApp(t)
	rr := do(t, h, http.MethodPost, "/stock/reset")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var res model.ResetResult
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.NewStock != 50 {
		t.Fatalf("expected default 50, got %d", res.NewStock)
	}

	rr = do(t, h, http.MethodGet, "/stock")
	var lvl model.StockLevel
	if err := json.Unmarshal(rr.Body.Bytes(), &lvl); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if lvl.CurrentStock != 50 {
		t.Fatalf("expected 50, got %d", lvl.CurrentStock)
	}
}

func TestResetCustomAmount(t *testing.T) {
	_, h := setupApp(t)
	rr := do(t, h, http.MethodPost, "/stock/reset?amount=7")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	rr = do(t, h, http.MethodGet, "/stock")
	var lvl model.StockLevel
	if err := json.Unmarshal(rr.Body.Bytes(), &lvl); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if lvl.CurrentStock != 7 {
		t.Fatalf("expected 7, got %d", lvl.CurrentStock)
	}
}

func TestResetValidation(t *testing.T) {
	_, h := setupApp(t)
	for _, target := range []string{"/stock/reset?amount=-1", "/stock/reset?amount=many"} {
		rr := do(t, h, http.MethodPost, target)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", target, rr.Code)
		}
	}
}

func TestPurchaseSucceedsThenSellsOut(t *testing.T) {
	_, h := setupApp(t)
	for _, path := range []string{"/purchase/safe", "/purchase/unsafe"} {
		t.Run(path, func(t *testing.T) {
			if rr := do(t, h, http.MethodPost, "/stock/reset?amount=1"); rr.Code != http.StatusOK {
				t.Fatalf("reset: %d", rr.Code)
			}
			rr := do(t, h, http.MethodPost, path)
			if rr.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rr.Code)
			}
			var rec model.PurchaseReceipt
			if err := json.Unmarshal(rr.Body.Bytes(), &rec); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !rec.Success {
				t.Fatalf("expected success=true")
			}
			rr = do(t, h, http.MethodPost, path)
			if rr.Code != http.StatusConflict {
				t.Fatalf("expected 409 when sold out, got %d", rr.Code)
			}
		})
	}
}

// Store failure and sold-out must map to different status classes.
func TestPurchaseStoreDownIsServerError(t *testing.T) {
	mr, h := setupApp(t)
	mr.Close()
	for _, path := range []string{"/purchase/safe", "/purchase/unsafe"} {
		rr := do(t, h, http.MethodPost, path)
		if rr.Code != http.StatusBadGateway {
			t.Fatalf("%s: expected 502, got %d", path, rr.Code)
		}
	}
	if rr := do(t, h, http.MethodGet, "/stock"); rr.Code != http.StatusBadGateway {
		t.Fatalf("stock: expected 502, got %d", rr.Code)
	}
}

func TestMethodGuards(t *testing.T) {
	_, h := setupApp(t)
	cases := []struct {
		method string
		target string
	}{
		{http.MethodPost, "/stock"},
		{http.MethodGet, "/stock/reset"},
		{http.MethodGet, "/purchase/safe"},
		{http.MethodGet, "/purchase/unsafe"},
	}
	for _, tc := range cases {
		rr := do(t, h, tc.method, tc.target)
		if rr.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s %s: expected 405, got %d", tc.method, tc.target, rr.Code)
		}
	}
}

func TestMetricsServed(t *testing.T) {
	_, h := setupApp(t)
	if rr := do(t, h, http.MethodPost, "/stock/reset?amount=1"); rr.Code != http.StatusOK {
		t.Fatalf("reset: %d", rr.Code)
	}
	if rr := do(t, h, http.MethodPost, "/purchase/safe"); rr.Code != http.StatusOK {
		t.Fatalf("purchase: %d", rr.Code)
	}
	rr := do(t, h, http.MethodGet, "/metrics")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "flashsale_purchase_attempts_total") {
		t.Fatalf("expected purchase counter in exposition")
	}
}

func TestOpenAPIServed(t *testing.T) {
	_, h := setupApp(t)
	rr := do(t, h, http.MethodGet, "/openapi.yaml")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "openapi:") {
		t.Fatalf("expected openapi content")
	}
}

func TestDocsServed(t *testing.T) {
	_, h := setupApp(t)
	rr := do(t, h, http.MethodGet, "/docs")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "swagger-ui") {
		t.Fatalf("expected swagger-ui in docs body")
	}
}

func TestRequestIDPropagated(t *testing.T) {
	_, h := setupApp(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "rid-1")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if got := rr.Header().Get("X-Request-Id"); got != "rid-1" {
		t.Fatalf("expected rid-1, got %q", got)
	}
}
