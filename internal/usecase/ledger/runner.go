package ledger

import (
	"context"
	"fmt"
	"time"

	"loan-settlement/internal/apperrors"
	"loan-settlement/internal/domain/event"
	"loan-settlement/internal/domain/uow"
	"loan-settlement/internal/infrastructure/metrics"
	"loan-settlement/pkg/id"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Runner executes component operations as single transactions and publishes
// their events once committed.
type Runner struct {
	uow   uow.UnitOfWork
	clock clockwork.Clock
	seq   *id.Sequence
	pub   event.Publisher
	log   *zap.Logger
}

type Option func(*Runner)

func WithClock(c clockwork.Clock) Option { return func(r *Runner) { r.clock = c } }
func WithPublisher(p event.Publisher) Option {
	return func(r *Runner) {
		if p != nil {
			r.pub = p
		}
	}
}
func WithLogger(l *zap.Logger) Option { return func(r *Runner) { r.log = l } }
func WithSequence(s *id.Sequence) Option { return func(r *Runner) { r.seq = s } }

func NewRunner(u uow.UnitOfWork, opts ...Option) *Runner {
	r := &Runner{
		uow:   u,
		clock: clockwork.NewRealClock(),
		seq:   id.NewSequence(1),
		pub:   event.NopPublisher{},
		log:   zap.NewNop(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Runner) Now() time.Time { return r.clock.Now().UTC() }
func (r *Runner) Reader() uow.Repos { return r.uow.Reader() }

// Run executes fn inside one transaction on behalf of caller. Any error rolls
// back every write fn made, events included.
func (r *Runner) Run(ctx context.Context, component, op, caller string, fn func(ctx context.Context, tx *Tx) error) (*event.Receipt, error) {
	tx := newTx(caller, r.clock.Now(), r.seq)
	err := r.uow.WithinTx(ctx, func(repos uow.Repos) error {
		if err := rejectContractCaller(ctx, repos, caller); err != nil {
			return err
		}
		tx.reset(repos)
		return fn(ctx, tx)
	})
	if err != nil {
		code := apperrors.Code(err)
		metrics.Operation(component, op, code)
		if code == "INTERNAL" {
			r.log.Error("operation failed", zap.String("component", component), zap.String("op", op),
				zap.String("caller", caller), zap.Error(err))
		} else {
			r.log.Debug("operation rejected", zap.String("component", component), zap.String("op", op),
				zap.String("caller", caller), zap.String("code", code), zap.Error(err))
		}
		return nil, err
	}

	metrics.Operation(component, op, "OK")
	if tx.state.moved.IsPositive() {
		metrics.ValueMoved(op, tx.state.moved)
	}
	events := tx.Events()
	if err := r.pub.Publish(ctx, events); err != nil {
		r.log.Warn("committed events not published", zap.String("tx_id", tx.ID), zap.Error(err))
	}
	r.log.Info("committed", zap.String("component", component), zap.String("op", op),
		zap.String("tx_id", tx.ID), zap.String("caller", caller), zap.Int("events", len(events)))
	return &event.Receipt{TxID: tx.ID, Events: events}, nil
}

// rejectContractCaller refuses outside callers that claim a deployed contract's
// address. Contracts only act through Tx.As inside an operation.
func rejectContractCaller(ctx context.Context, repos uow.Repos, caller string) error {
	if repos.Contracts == nil {
		return nil
	}
	cs, err := repos.Contracts.List(ctx)
	if err != nil {
		return err
	}
	for _, c := range cs {
		if c.Address == caller {
			return fmt.Errorf("%w: %s is the %s contract", apperrors.ErrUnauthorized, caller, c.Name)
		}
	}
	return nil
}
