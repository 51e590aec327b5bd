package http

import (
	"net/http"

	"loan-settlement/internal/usecase/liquidity"

	"github.com/labstack/echo/v4"
)

type LiquidityHandler struct{ uc *liquidity.Usecase }

func NewLiquidityHandler(uc *liquidity.Usecase) *LiquidityHandler { return &LiquidityHandler{uc: uc} }

type withdrawReq struct {
	Amount string `json:"amount" validate:"required,amount"`
}

type allocateReq struct {
	LoanID uint64 `json:"loan_id" validate:"required"`
}

func (h *LiquidityHandler) SetProtocol(c echo.Context) error {
	caller, ok, err := writeCaller(c)
	if !ok {
		return err
	}
	var req linkReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	rcpt, err := h.uc.SetProtocol(c.Request().Context(), caller, req.Address)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, rcpt)
}

func (h *LiquidityHandler) Deposit(c echo.Context) error {
	caller, ok, err := writeCaller(c)
	if !ok {
		return err
	}
	var req valueReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	rcpt, err := h.uc.Deposit(c.Request().Context(), caller, mustDecimal(req.Value))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, rcpt)
}

func (h *LiquidityHandler) Withdraw(c echo.Context) error {
	caller, ok, err := writeCaller(c)
	if !ok {
		return err
	}
	var req withdrawReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	rcpt, err := h.uc.Withdraw(c.Request().Context(), caller, mustDecimal(req.Amount))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, rcpt)
}

func (h *LiquidityHandler) Allocate(c echo.Context) error {
	caller, ok, err := writeCaller(c)
	if !ok {
		return err
	}
	var req allocateReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	rcpt, err := h.uc.Allocate(c.Request().Context(), caller, req.LoanID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, rcpt)
}

func (h *LiquidityHandler) Summary(c echo.Context) error {
	s, err := h.uc.Summary(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *LiquidityHandler) GetLender(c echo.Context) error {
	addr, ok, err := addressParam(c)
	if !ok {
		return err
	}
	p, err := h.uc.GetPosition(c.Request().Context(), addr)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, p)
}
