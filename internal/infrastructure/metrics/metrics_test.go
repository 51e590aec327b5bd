package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
)

func TestMiddleware_UsesRouteTemplate(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.GET("/loans/:id", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/loans/:id", "204"))
	for _, p := range []string{"/loans/1", "/loans/2"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, p, nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("status=%d", rec.Code)
		}
	}
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/loans/:id", "204"))
	if after-before != 2 {
		t.Fatalf("expected 2 requests under the template label, got %v", after-before)
	}
}

func TestMiddleware_RecordsHandlerErrorStatus(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.GET("/boom", func(c echo.Context) error { return echo.NewHTTPError(http.StatusConflict, "nope") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if rec.Code != http.StatusConflict {
		t.Fatalf("status=%d", rec.Code)
	}
	if got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/boom", "409")); got != 1 {
		t.Fatalf("409 counter=%v", got)
	}
}

func TestOperationAndValueMoved(t *testing.T) {
	Operation("escrow", "fund", "OK")
	Operation("escrow", "fund", "OK")
	if got := testutil.ToFloat64(operationsTotal.WithLabelValues("escrow", "fund", "OK")); got != 2 {
		t.Fatalf("operations=%v", got)
	}
	ValueMoved("repay", decimal.RequireFromString("1.5"))
	if got := testutil.ToFloat64(valueMoved.WithLabelValues("repay")); got != 1.5 {
		t.Fatalf("value moved=%v", got)
	}
}
