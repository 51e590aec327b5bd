package http

import (
	"net/http"

	"loan-settlement/internal/usecase/insurance"

	"github.com/labstack/echo/v4"
)

type InsuranceHandler struct{ uc *insurance.Usecase }

func NewInsuranceHandler(uc *insurance.Usecase) *InsuranceHandler { return &InsuranceHandler{uc: uc} }

// valueReq is the native value attached to a deposit or payment.
type valueReq struct {
	Value string `json:"value" validate:"required,amount"`
}

type payoutReq struct {
	Insurer   string `json:"insurer"   validate:"required,hex32"`
	Recipient string `json:"recipient" validate:"required,hex32"`
	Amount    string `json:"amount"    validate:"required,amount"`
}

func (h *InsuranceHandler) SetTrustedCaller(c echo.Context) error {
	caller, ok, err := writeCaller(c)
	if !ok {
		return err
	}
	var req linkReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	rcpt, err := h.uc.SetTrustedCaller(c.Request().Context(), caller, req.Address)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, rcpt)
}

func (h *InsuranceHandler) Deposit(c echo.Context) error {
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

func (h *InsuranceHandler) Payout(c echo.Context) error {
	caller, ok, err := writeCaller(c)
	if !ok {
		return err
	}
	var req payoutReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	rcpt, err := h.uc.Payout(c.Request().Context(), caller, req.Insurer, req.Recipient, mustDecimal(req.Amount))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, rcpt)
}

func (h *InsuranceHandler) GetInsurer(c echo.Context) error {
	addr, ok, err := addressParam(c)
	if !ok {
		return err
	}
	acct, err := h.uc.GetAccount(c.Request().Context(), addr)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, acct)
}
