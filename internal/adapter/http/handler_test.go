package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"loan-settlement/internal/domain/contract"
	"loan-settlement/internal/testutil/dbtest"
	"loan-settlement/internal/usecase/escrow"
	"loan-settlement/internal/usecase/insurance"
	"loan-settlement/internal/usecase/liquidity"
	"loan-settlement/internal/usecase/registry"

	"github.com/labstack/echo/v4"
)

// -------- helpers --------

func newEchoWithValidator() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func mustJSON(v any) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

type api struct {
	e   *echo.Echo
	env *dbtest.Env
}

// newAPI serves a freshly deployed and linked set of contracts.
func newAPI(t *testing.T) *api {
	t.Helper()
	env := dbtest.New(t)
	reg := registry.NewUsecase(env.Runner)
	ins := insurance.NewUsecase(env.Runner)
	esc := escrow.NewUsecase(env.Runner, reg, ins)
	pool := liquidity.NewUsecase(env.Runner, esc)
	esc.AttachPool(pool)

	e := newEchoWithValidator()
	Register(e, Handlers{
		Health:    NewHandler(),
		Ledger:    NewLedgerHandler(env.Ledger),
		Registry:  NewRegistryHandler(reg),
		Insurance: NewInsuranceHandler(ins),
		Liquidity: NewLiquidityHandler(pool),
		Loans:     NewLoanHandler(esc),
	})
	return &api{e: e, env: env}
}

func (a *api) do(t *testing.T, method, path, caller string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		r = mustJSON(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if caller != "" {
		req.Header.Set(HeaderCallerID, caller)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

// link wires escrow into registry and insurance, and the pool into escrow.
func (a *api) link(t *testing.T) {
	t.Helper()
	escAddr := a.env.Contracts[contract.Escrow]
	for path, addr := range map[string]string{
		"/registry/trusted-caller":  escAddr,
		"/insurance/trusted-caller": escAddr,
		"/liquidity/protocol":       protocolAddr,
		"/escrow/liquidity-pool":    a.env.Contracts[contract.Liquidity],
	} {
		rec := a.do(t, http.MethodPost, path, dbtest.Deployer, map[string]string{"address": addr})
		if rec.Code != http.StatusOK {
			t.Fatalf("link %s: status %d body=%s", path, rec.Code, rec.Body.String())
		}
	}
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("invalid JSON: %v; raw=%s", err, rec.Body.String())
	}
	return v
}

// -------- tests --------

func TestHealth_ReturnsOKWithRFC3339NanoUTC(t *testing.T) {
	e := echo.New()
	h := NewHandler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	start := time.Now().UTC()

	if err := h.Health(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	ct := rec.Header().Get(echo.HeaderContentType)
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		t.Fatalf("expected Content-Type application/json, got %q", ct)
	}

	var body struct {
		Status string `json:"status"`
		Time   string `json:"time"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v; raw=%s", err, rec.Body.String())
	}
	if body.Status != "ok" {
		t.Fatalf(`expected status "ok", got %q`, body.Status)
	}

	// Time is RFC3339Nano and UTC (with 'Z')
	parsed, err := time.Parse(time.RFC3339Nano, body.Time)
	if err != nil {
		t.Fatalf("time not RFC3339Nano: %v (value=%q)", err, body.Time)
	}
	if parsed.Location() != time.UTC {
		t.Fatalf("expected UTC location, got %v", parsed.Location())
	}
	now := time.Now().UTC()
	if parsed.Before(start.Add(-2*time.Second)) || parsed.After(now.Add(2*time.Second)) {
		t.Fatalf("time not within expected window: parsed=%v start=%v now=%v", parsed, start, now)
	}
}

func TestMetrics_Exposed(t *testing.T) {
	a := newAPI(t)
	rec := a.do(t, http.MethodGet, "/metrics", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics: want 200, got %d", rec.Code)
	}
}
