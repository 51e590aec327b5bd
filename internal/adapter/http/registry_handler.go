package http

import (
	"net/http"

	"loan-settlement/internal/usecase/registry"

	"github.com/labstack/echo/v4"
)

type RegistryHandler struct{ uc *registry.Usecase }

func NewRegistryHandler(uc *registry.Usecase) *RegistryHandler { return &RegistryHandler{uc: uc} }

// linkReq configures a write-once link (trusted caller, protocol, pool).
type linkReq struct {
	Address string `json:"address" validate:"required,hex32"`
}

type flagReq struct {
	Borrower string `json:"borrower" validate:"required,hex32"`
}

func (h *RegistryHandler) SetTrustedCaller(c echo.Context) error {
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

func (h *RegistryHandler) FlagBorrower(c echo.Context) error {
	caller, ok, err := writeCaller(c)
	if !ok {
		return err
	}
	var req flagReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	rcpt, err := h.uc.FlagBorrower(c.Request().Context(), caller, req.Borrower)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, rcpt)
}

func (h *RegistryHandler) GetBorrower(c echo.Context) error {
	addr, ok, err := addressParam(c)
	if !ok {
		return err
	}
	dto, err := h.uc.Get(c.Request().Context(), addr)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
