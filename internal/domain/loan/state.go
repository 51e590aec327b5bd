package loan

import (
	"fmt"
	"time"

	"loan-settlement/internal/apperrors"
)

// transitions is the only place forward moves are defined; terminal states have no entry.
var transitions = map[State][]State{
	StateCreated: {StateFunded},
	StateFunded:  {StateRepaid, StateDefaulted},
}

func (s State) CanTransitionTo(next State) bool {
	for _, n := range transitions[s] {
		if n == next {
			return true
		}
	}
	return false
}

func (s State) Terminal() bool { return len(transitions[s]) == 0 }

func (s State) Valid() bool {
	switch s {
	case StateCreated, StateFunded, StateRepaid, StateDefaulted:
		return true
	}
	return false
}

// Transition moves the loan to next or fails with ErrInvalidState.
func (l *Loan) Transition(next State, at time.Time) error {
	if !l.State.CanTransitionTo(next) {
		return fmt.Errorf("%w: loan %d is %s, cannot become %s", apperrors.ErrInvalidState, l.ID, l.State, next)
	}
	l.State = next
	l.StateUpdatedAt = at.UTC()
	return nil
}

// MarkFunded records the lender and deadline; both are set exactly once.
func (l *Loan) MarkFunded(lender string, src FundingSource, at time.Time) error {
	if l.Lender != nil || l.Deadline != nil {
		return fmt.Errorf("%w: loan %d already has a lender", apperrors.ErrInvalidState, l.ID)
	}
	if l.DurationSeconds <= 0 || l.DurationSeconds > MaxDurationSeconds {
		return fmt.Errorf("%w: loan %d has duration %ds", apperrors.ErrInvalidInput, l.ID, l.DurationSeconds)
	}
	if err := l.Transition(StateFunded, at); err != nil {
		return err
	}
	fundedAt := at.UTC()
	deadline := fundedAt.Add(time.Duration(l.DurationSeconds) * time.Second)
	l.Lender = &lender
	l.FundedAt = &fundedAt
	l.Deadline = &deadline
	l.FundingSource = src
	return nil
}
