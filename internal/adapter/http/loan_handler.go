package http

import (
	"context"
	"net/http"
	"strconv"

	"loan-settlement/internal/domain/loan"
	"loan-settlement/internal/usecase/escrow"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type LoanHandler struct{ uc *escrow.Usecase }

func NewLoanHandler(uc *escrow.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type createLoanReq struct {
	Principal       string `json:"principal"        validate:"required,amount"`
	InterestAmount  string `json:"interest_amount"  validate:"required,decimal"`
	DurationSeconds int64  `json:"duration_seconds" validate:"required,gte=1,lte=9223372036"`
	WantsInsurance  bool   `json:"wants_insurance"`
	Insurer         string `json:"insurer"          validate:"omitempty,hex32"`
}

func (h *LoanHandler) SetLiquidityPool(c echo.Context) error {
	caller, ok, err := writeCaller(c)
	if !ok {
		return err
	}
	var req linkReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	rcpt, err := h.uc.SetLiquidityPool(c.Request().Context(), caller, req.Address)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, rcpt)
}

// CreateLoan opens a loan request; the caller is the borrower.
func (h *LoanHandler) CreateLoan(c echo.Context) error {
	caller, ok, err := writeCaller(c)
	if !ok {
		return err
	}
	var req createLoanReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	out, err := h.uc.CreateLoan(c.Request().Context(), caller, escrow.CreateLoanInput{
		Principal:       mustDecimal(req.Principal),
		InterestAmount:  mustDecimal(req.InterestAmount),
		DurationSeconds: req.DurationSeconds,
		WantsInsurance:  req.WantsInsurance,
		Insurer:         req.Insurer,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *LoanHandler) FundLoan(c echo.Context) error {
	return h.withValue(c, h.uc.FundLoan)
}

func (h *LoanHandler) RepayLoan(c echo.Context) error {
	return h.withValue(c, h.uc.RepayLoan)
}

// withValue runs a loan operation that carries attached value.
func (h *LoanHandler) withValue(c echo.Context, op func(context.Context, string, uint64, decimal.Decimal) (*escrow.LoanReceipt, error)) error {
	caller, ok, err := writeCaller(c)
	if !ok {
		return err
	}
	id, ok, err := loanIDParam(c)
	if !ok {
		return err
	}
	var req valueReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	out, err := op(c.Request().Context(), caller, id, mustDecimal(req.Value))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LoanHandler) MarkDefault(c echo.Context) error {
	caller, ok, err := writeCaller(c)
	if !ok {
		return err
	}
	id, ok, err := loanIDParam(c)
	if !ok {
		return err
	}
	out, err := h.uc.MarkDefault(c.Request().Context(), caller, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	id, ok, err := loanIDParam(c)
	if !ok {
		return err
	}
	dto, err := h.uc.GetLoan(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// ListLoans filters by ?borrower, ?lender, ?state and ?limit.
func (h *LoanHandler) ListLoans(c echo.Context) error {
	f := loan.Filter{
		Borrower: c.QueryParam("borrower"),
		Lender:   c.QueryParam("lender"),
		State:    loan.State(c.QueryParam("state")),
	}
	if f.State != "" && !f.State.Valid() {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown state " + string(f.State), Code: "INVALID_INPUT"})
	}
	if s := c.QueryParam("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be a non-negative integer", Code: "INVALID_INPUT"})
		}
		f.Limit = n
	}
	out, err := h.uc.ListLoans(c.Request().Context(), f)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LoanHandler) LoanEvents(c echo.Context) error {
	id, ok, err := loanIDParam(c)
	if !ok {
		return err
	}
	evs, err := h.uc.LoanEvents(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, evs)
}
