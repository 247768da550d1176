package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/flash-sale-simulator/internal/config"
	httpopenapi "github.com/fairyhunter13/flash-sale-simulator/internal/http/openapi"
	"github.com/fairyhunter13/flash-sale-simulator/internal/inventory"
	"github.com/fairyhunter13/flash-sale-simulator/internal/model"
	"github.com/fairyhunter13/flash-sale-simulator/internal/obs"
)

type App struct {
	Cfg config.Config
	Inv *inventory.Service
	Rdb redis.UniversalClient
}

func NewApp(cfg config.Config, inv *inventory.Service, rdb redis.UniversalClient) *App {
	return &App{Cfg: cfg, Inv: inv, Rdb: rdb}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.Rdb.Ping(r.Context()).Err(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) getStockHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	stock, err := a.Inv.Stock(r.Context())
	if err != nil {
		obs.Logger.Error("stock_query_failed", "error", err, "request_id", RequestIDFromContext(r.Context()))
		WriteJSONError(w, http.StatusBadGateway, "store_unavailable", "")
		return
	}
	writeJSON(w, http.StatusOK, model.StockLevel{CurrentStock: stock})
}

func (a *App) resetStockHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	amount := int64(inventory.DefaultInitialStock)
	if raw := r.URL.Query().Get("amount"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			WriteJSONError(w, http.StatusBadRequest, "validation_error", "amount must be an integer")
			return
		}
		if n < 0 {
			WriteJSONError(w, http.StatusBadRequest, "validation_error", "amount must be >= 0")
			return
		}
		amount = n
	}
	if err := a.Inv.Reset(r.Context(), amount); err != nil {
		obs.Logger.Error("stock_reset_failed", "error", err, "request_id", RequestIDFromContext(r.Context()))
		WriteJSONError(w, http.StatusBadGateway, "store_unavailable", "")
		return
	}
	obs.StockResets.Inc()
	obs.Logger.Info("stock_reset", "amount", amount, "request_id", RequestIDFromContext(r.Context()))
	writeJSON(w, http.StatusOK, model.ResetResult{
		Message:  "Stock reset to " + strconv.FormatInt(amount, 10),
		NewStock: amount,
	})
}

func (a *App) unsafePurchaseHandler(w http.ResponseWriter, r *http.Request) {
	a.purchase(w, r, "unsafe", a.Inv.PurchaseUnsafe)
}

func (a *App) safePurchaseHandler(w http.ResponseWriter, r *http.Request) {
	a.purchase(w, r, "safe", a.Inv.PurchaseSafe)
}

// purchase maps engine outcomes onto status classes: denied purchases are a
// client error (409), store faults a server error (502). The two are never
// merged, and the boundary does not retry.
func (a *App) purchase(w http.ResponseWriter, r *http.Request, method string, attempt func(context.Context) (bool, error)) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	start := time.Now()
	ok, err := attempt(r.Context())
	obs.PurchaseDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		obs.PurchaseAttempts.WithLabelValues(method, obs.OutcomeError).Inc()
		obs.Logger.Error("purchase_failed", "method", method, "error", err, "request_id", RequestIDFromContext(r.Context()))
		WriteJSONError(w, http.StatusBadGateway, "store_unavailable", "")
		return
	}
	if !ok {
		obs.PurchaseAttempts.WithLabelValues(method, obs.OutcomeOutOfStock).Inc()
		WriteJSONError(w, http.StatusConflict, "out_of_stock", "")
		return
	}
	obs.PurchaseAttempts.WithLabelValues(method, obs.OutcomeSuccess).Inc()
	writeJSON(w, http.StatusOK, model.PurchaseReceipt{Success: true, Method: method})
}

func (a *App) openapiHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(httpopenapi.YAML)
}

func (a *App) docsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	html := `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui'
      });
    </script>
  </body>
</html>`
	_, _ = w.Write([]byte(html))
}
