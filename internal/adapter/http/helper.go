package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"loan-settlement/internal/apperrors"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// HeaderCallerID carries the address the request acts as.
const HeaderCallerID = "Ax-Caller-Id"

var errBadCaller = errors.New("missing or invalid " + HeaderCallerID)

// ---- helpers ----

func callerOf(c echo.Context) (string, error) {
	id := strings.TrimSpace(c.Request().Header.Get(HeaderCallerID))
	if !reHex32.MatchString(id) {
		return "", errBadCaller
	}
	return id, nil
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrUnauthorized), errors.Is(err, apperrors.ErrBorrowerFlagged):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrInvalidState), errors.Is(err, apperrors.ErrAlreadyConfigured),
		errors.Is(err, apperrors.ErrAlreadyFlagged), errors.Is(err, apperrors.ErrNotYetDue):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrInsufficientBalance), errors.Is(err, apperrors.ErrWrongAmount):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotDeployed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail maps a usecase error onto its status and stable code. Internal errors
// keep their message out of the response.
func fail(c echo.Context, err error) error {
	status := statusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		c.Logger().Error(err)
		msg = "internal error"
	}
	return c.JSON(status, ErrorResponse{Error: msg, Code: apperrors.Code(err)})
}

// bind decodes and validates the body. A false return means the error
// response has already been written.
func bind(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body", Code: "INVALID_INPUT"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Code:    "INVALID_INPUT",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}

// writeCaller rejects requests without a valid caller header.
func writeCaller(c echo.Context) (string, bool, error) {
	caller, err := callerOf(c)
	if err != nil {
		return "", false, c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error(), Code: "UNAUTHENTICATED"})
	}
	return caller, true, nil
}

func loanIDParam(c echo.Context) (uint64, bool, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan id", Code: "INVALID_INPUT"})
	}
	return id, true, nil
}

func addressParam(c echo.Context) (string, bool, error) {
	addr := c.Param("address")
	if !reHex32.MatchString(addr) {
		return "", false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "address must be 32-char lowercase hex", Code: "INVALID_INPUT"})
	}
	return addr, true, nil
}

// amounts are validated before they get here
func mustDecimal(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
