package ledger

import (
	"context"
	"errors"
	"fmt"

	"loan-settlement/internal/apperrors"
	"loan-settlement/internal/domain/account"
	"loan-settlement/internal/domain/contract"
	"loan-settlement/internal/domain/event"
	"loan-settlement/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const component = "ledger"

// Service owns the account ledger and the contract registry of the deployment.
type Service struct {
	run      *Runner
	deployer string
}

func NewService(run *Runner, deployer string) *Service {
	return &Service{run: run, deployer: deployer}
}

// Deploy creates any contract that does not exist yet, owned by the deployer.
// Existing contracts keep their address and link.
func (s *Service) Deploy(ctx context.Context) (*event.Receipt, error) {
	return s.run.Run(ctx, component, "deploy", s.deployer, func(ctx context.Context, tx *Tx) error {
		for _, name := range contract.All {
			_, err := tx.Repos.Contracts.GetForUpdate(ctx, name)
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			c := &contract.Contract{Name: name, Address: id.NewID32(), Owner: s.deployer}
			if err := tx.Repos.Contracts.Create(ctx, c); err != nil {
				return fmt.Errorf("deploy %s: %w", name, err)
			}
			if err := tx.Emit(ctx, event.Event{
				Contract: string(name),
				Kind:     event.ContractDeployed,
				Subject:  c.Address,
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

// Mint credits new native value to an account. Deployer only.
func (s *Service) Mint(ctx context.Context, caller, to string, amount decimal.Decimal) (*event.Receipt, error) {
	return s.run.Run(ctx, component, "mint", caller, func(ctx context.Context, tx *Tx) error {
		if caller != s.deployer {
			return fmt.Errorf("%w: only the deployer mints", apperrors.ErrUnauthorized)
		}
		if !amount.IsPositive() {
			return fmt.Errorf("%w: mint amount must be positive", apperrors.ErrInvalidInput)
		}
		if err := CheckAmount("mint", amount); err != nil {
			return err
		}
		a, err := tx.Repos.Accounts.GetForUpdate(ctx, to)
		if err != nil {
			return err
		}
		a.Balance = a.Balance.Add(amount)
		if err := tx.Repos.Accounts.Save(ctx, a); err != nil {
			return err
		}
		return tx.Emit(ctx, event.Event{
			Contract: component,
			Kind:     event.Minted,
			Subject:  to,
			Amount:   decimal.NewNullDecimal(amount),
		})
	})
}

func (s *Service) GetAccount(ctx context.Context, address string) (*account.Account, error) {
	return s.run.Reader().Accounts.Get(ctx, address)
}

func (s *Service) Contracts(ctx context.Context) ([]contract.Contract, error) {
	return s.run.Reader().Contracts.List(ctx)
}

// Events replays committed events with seq > after.
func (s *Service) Events(ctx context.Context, after uint64, limit int) ([]event.Event, error) {
	return s.run.Reader().Events.ListAfter(ctx, after, limit)
}
