package liquidity_test

import (
	"context"
	"testing"
	"time"

	"loan-settlement/internal/apperrors"
	"loan-settlement/internal/domain/contract"
	"loan-settlement/internal/domain/loan"
	"loan-settlement/internal/testutil/dbtest"
	"loan-settlement/internal/usecase/escrow"
	"loan-settlement/internal/usecase/insurance"
	"loan-settlement/internal/usecase/ledger"
	"loan-settlement/internal/usecase/liquidity"
	"loan-settlement/internal/usecase/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	lenderA  = "a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1"
	lenderB  = "b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2"
	borrower = "c3c3c3c3c3c3c3c3c3c3c3c3c3c3c3c3"
	insurer  = "e5e5e5e5e5e5e5e5e5e5e5e5e5e5e5e5"
	protocol = "f6f6f6f6f6f6f6f6f6f6f6f6f6f6f6f6"
)

type fixture struct {
	env    *dbtest.Env
	pool   *liquidity.Usecase
	escrow *escrow.Usecase
	ins    *insurance.Usecase
}

func newFixture(t *testing.T, linkEscrow bool) *fixture {
	t.Helper()
	env := dbtest.New(t)
	reg := registry.NewUsecase(env.Runner)
	ins := insurance.NewUsecase(env.Runner)
	esc := escrow.NewUsecase(env.Runner, reg, ins)
	pool := liquidity.NewUsecase(env.Runner, esc)
	esc.AttachPool(pool)

	ctx := context.Background()
	escAddr := env.Contracts[contract.Escrow]
	_, err := reg.SetTrustedCaller(ctx, dbtest.Deployer, escAddr)
	require.NoError(t, err)
	_, err = ins.SetTrustedCaller(ctx, dbtest.Deployer, escAddr)
	require.NoError(t, err)
	_, err = pool.SetProtocol(ctx, dbtest.Deployer, protocol)
	require.NoError(t, err)
	if linkEscrow {
		_, err = esc.SetLiquidityPool(ctx, dbtest.Deployer, env.Contracts[contract.Liquidity])
		require.NoError(t, err)
	}

	env.Fund(t, lenderA, "60")
	env.Fund(t, lenderB, "40")
	_, err = pool.Deposit(ctx, lenderA, dbtest.D(t, "60"))
	require.NoError(t, err)
	_, err = pool.Deposit(ctx, lenderB, dbtest.D(t, "40"))
	require.NoError(t, err)
	return &fixture{env: env, pool: pool, escrow: esc, ins: ins}
}

func (f *fixture) loan(t *testing.T, principal, interest, insuredBy string) uint64 {
	t.Helper()
	r, err := f.escrow.CreateLoan(context.Background(), borrower, escrow.CreateLoanInput{
		Principal:       dbtest.D(t, principal),
		InterestAmount:  dbtest.D(t, interest),
		DurationSeconds: 10,
		WantsInsurance:  insuredBy != "",
		Insurer:         insuredBy,
	})
	require.NoError(t, err)
	return r.Loan.ID
}

func (f *fixture) position(t *testing.T, lender string) string {
	t.Helper()
	p, err := f.pool.GetPosition(context.Background(), lender)
	require.NoError(t, err)
	return p.Balance.String()
}

// assertBooksBalance checks that lender claims equal liquid plus lent-out capital.
func (f *fixture) assertBooksBalance(t *testing.T) {
	t.Helper()
	s, err := f.pool.Summary(context.Background())
	require.NoError(t, err)
	assert.True(t, s.TotalClaims.Equal(s.Liquid.Add(s.Outstanding)),
		"claims=%s liquid=%s outstanding=%s", s.TotalClaims, s.Liquid, s.Outstanding)
}

func TestDepositAndWithdraw(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	s, err := f.pool.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, "100", s.Liquid.String())
	assert.Equal(t, 2, s.Lenders)
	assert.Equal(t, protocol, s.Protocol)

	_, err = f.pool.Withdraw(ctx, lenderB, dbtest.D(t, "41"))
	assert.ErrorIs(t, err, apperrors.ErrInsufficientBalance)
	_, err = f.pool.Withdraw(ctx, lenderB, dbtest.D(t, "15"))
	require.NoError(t, err)
	assert.Equal(t, "25", f.position(t, lenderB))
	assert.Equal(t, "15", f.env.Balance(t, lenderB))

	_, err = f.pool.Deposit(ctx, lenderB, dbtest.D(t, "0"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	f.assertBooksBalance(t)
}

func TestDepositAndWithdraw_RejectSubScaleAmounts(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	f.env.Fund(t, lenderA, "1")

	_, err := f.pool.Deposit(ctx, lenderA, dbtest.D(t, "0.000000000000000000001"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	_, err = f.pool.Withdraw(ctx, lenderA, dbtest.D(t, "1.0000000000000000001"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	assert.Equal(t, "60", f.position(t, lenderA))
	assert.Equal(t, "1", f.env.Balance(t, lenderA))
}

func TestAllocate_Guards(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	id := f.loan(t, "50", "10", "")

	_, err := f.pool.Allocate(ctx, lenderA, id)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	_, err = f.pool.Allocate(ctx, protocol, 999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	big := f.loan(t, "150", "0", "")
	_, err = f.pool.Allocate(ctx, protocol, big)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientBalance)

	_, err = f.pool.Allocate(ctx, protocol, id)
	require.NoError(t, err)
	_, err = f.pool.Allocate(ctx, protocol, id)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestAllocate_RequiresEscrowLink(t *testing.T) {
	f := newFixture(t, false)
	id := f.loan(t, "50", "10", "")

	_, err := f.pool.Allocate(context.Background(), protocol, id)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	l, err := f.escrow.GetLoan(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, string(loan.StateCreated), l.State)
}

func TestAllocateThenRepay_CreditsInterestProRata(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	id := f.loan(t, "50", "10", "")

	_, err := f.pool.Allocate(ctx, protocol, id)
	require.NoError(t, err)
	l, err := f.escrow.GetLoan(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, l.Lender)
	assert.Equal(t, f.env.Contracts[contract.Liquidity], *l.Lender)
	assert.Equal(t, string(loan.FundedByPool), l.FundingSource)
	assert.Equal(t, "50", f.env.Balance(t, borrower))

	s, _ := f.pool.Summary(ctx)
	assert.Equal(t, "50", s.Liquid.String())
	assert.Equal(t, "50", s.Outstanding.String())
	f.assertBooksBalance(t)

	// lent-out capital cannot be withdrawn
	_, err = f.pool.Withdraw(ctx, lenderA, dbtest.D(t, "60"))
	assert.ErrorIs(t, err, apperrors.ErrInsufficientBalance)

	f.env.Fund(t, borrower, "10")
	_, err = f.escrow.RepayLoan(ctx, borrower, id, dbtest.D(t, "60"))
	require.NoError(t, err)

	assert.Equal(t, "66", f.position(t, lenderA))
	assert.Equal(t, "44", f.position(t, lenderB))
	s, _ = f.pool.Summary(ctx)
	assert.Equal(t, "110", s.Liquid.String())
	assert.True(t, s.Outstanding.IsZero())
	f.assertBooksBalance(t)

	_, err = f.pool.Withdraw(ctx, lenderA, dbtest.D(t, "66"))
	require.NoError(t, err)
	assert.Equal(t, "66", f.env.Balance(t, lenderA))
}

func TestAllocateThenDefault_InsuredLoanMakesPoolWhole(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	f.env.Fund(t, insurer, "50")
	_, err := f.ins.Deposit(ctx, insurer, dbtest.D(t, "50"))
	require.NoError(t, err)

	id := f.loan(t, "50", "10", insurer)
	_, err = f.pool.Allocate(ctx, protocol, id)
	require.NoError(t, err)
	f.env.Clock.Advance(11 * time.Second)

	r, err := f.escrow.MarkDefault(ctx, lenderB, id)
	require.NoError(t, err)
	assert.Equal(t, "50", r.Loan.InsurancePaid.String())
	assert.True(t, r.Loan.Shortfall.IsZero())

	assert.Equal(t, "60", f.position(t, lenderA))
	assert.Equal(t, "40", f.position(t, lenderB))
	s, _ := f.pool.Summary(ctx)
	assert.Equal(t, "100", s.Liquid.String())
	assert.True(t, s.Outstanding.IsZero())
	f.assertBooksBalance(t)
}

func TestAllocateThenDefault_UninsuredLossIsShared(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	id := f.loan(t, "50", "10", "")
	_, err := f.pool.Allocate(ctx, protocol, id)
	require.NoError(t, err)
	f.env.Clock.Advance(11 * time.Second)

	r, err := f.escrow.MarkDefault(ctx, lenderB, id)
	require.NoError(t, err)
	assert.Equal(t, "50", r.Loan.Shortfall.String())

	assert.Equal(t, "30", f.position(t, lenderA))
	assert.Equal(t, "20", f.position(t, lenderB))
	s, _ := f.pool.Summary(ctx)
	assert.Equal(t, "50", s.Liquid.String())
	f.assertBooksBalance(t)
}

func TestSettle_OnlyFromEscrow(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	id := f.loan(t, "50", "10", "")
	_, err := f.pool.Allocate(ctx, protocol, id)
	require.NoError(t, err)

	_, err = f.env.Runner.Run(ctx, "test", "settle", lenderA, func(ctx context.Context, tx *ledger.Tx) error {
		return f.pool.SettleTx(ctx, tx, id, dbtest.D(t, "60"), false)
	})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Equal(t, "60", f.position(t, lenderA))
}
