package http

import (
	"net/http"
	"strconv"

	"loan-settlement/internal/usecase/ledger"

	"github.com/labstack/echo/v4"
)

type LedgerHandler struct{ svc *ledger.Service }

func NewLedgerHandler(svc *ledger.Service) *LedgerHandler { return &LedgerHandler{svc: svc} }

type mintReq struct {
	To     string `json:"to"     validate:"required,hex32"`
	Amount string `json:"amount" validate:"required,amount"`
}

func (h *LedgerHandler) Contracts(c echo.Context) error {
	cs, err := h.svc.Contracts(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, cs)
}

func (h *LedgerHandler) Mint(c echo.Context) error {
	caller, ok, err := writeCaller(c)
	if !ok {
		return err
	}
	var req mintReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	rcpt, err := h.svc.Mint(c.Request().Context(), caller, req.To, mustDecimal(req.Amount))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, rcpt)
}

func (h *LedgerHandler) GetAccount(c echo.Context) error {
	addr, ok, err := addressParam(c)
	if !ok {
		return err
	}
	acct, err := h.svc.GetAccount(c.Request().Context(), addr)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, acct)
}

// Events replays committed events: ?after=<seq>&limit=<n>.
func (h *LedgerHandler) Events(c echo.Context) error {
	var after uint64
	if s := c.QueryParam("after"); s != "" {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "after must be a sequence number", Code: "INVALID_INPUT"})
		}
		after = n
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	evs, err := h.svc.Events(c.Request().Context(), after, limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, evs)
}
