package apperrors

import "errors"

var (
	// ErrUnauthorized: caller lacks the identity or capability the operation requires.
	ErrUnauthorized = errors.New("unauthorized caller")
	// ErrInvalidState: operation is not valid for the entity's current lifecycle state.
	ErrInvalidState = errors.New("invalid state for operation")
	// ErrAlreadyConfigured: a write-once link was set a second time.
	ErrAlreadyConfigured = errors.New("already configured")
	// ErrAlreadyFlagged: the borrower already carries a default flag.
	ErrAlreadyFlagged = errors.New("borrower already flagged")
	// ErrInsufficientBalance: payout, withdrawal or transfer exceeds custodied funds.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrWrongAmount: attached value does not match the required amount.
	ErrWrongAmount = errors.New("wrong amount")
	// ErrNotYetDue: default triggered on or before the deadline.
	ErrNotYetDue = errors.New("loan not yet due")

	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrBorrowerFlagged = errors.New("borrower is flagged")
	ErrNotDeployed     = errors.New("contract not deployed")
)

var codes = []struct {
	err  error
	code string
}{
	{ErrUnauthorized, "UNAUTHORIZED"},
	{ErrInvalidState, "INVALID_STATE"},
	{ErrAlreadyConfigured, "ALREADY_CONFIGURED"},
	{ErrAlreadyFlagged, "ALREADY_FLAGGED"},
	{ErrInsufficientBalance, "INSUFFICIENT_BALANCE"},
	{ErrWrongAmount, "WRONG_AMOUNT"},
	{ErrNotYetDue, "NOT_YET_DUE"},
	{ErrNotFound, "NOT_FOUND"},
	{ErrInvalidInput, "INVALID_INPUT"},
	{ErrBorrowerFlagged, "BORROWER_FLAGGED"},
	{ErrNotDeployed, "NOT_DEPLOYED"},
}

// Code returns the stable code of the first known sentinel err wraps, or "INTERNAL".
func Code(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return "INTERNAL"
}
