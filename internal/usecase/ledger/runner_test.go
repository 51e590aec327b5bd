package ledger_test

import (
	"context"
	"errors"
	"testing"

	"loan-settlement/internal/domain/uow"
	"loan-settlement/internal/testutil/uowmock"
	"loan-settlement/internal/usecase/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRun_StoreFailureIsLoggedAndNotPublished(t *testing.T) {
	pub := &recordingPublisher{}
	core, logs := observer.New(zap.DebugLevel)
	broken := errors.New("connection reset")
	m := &uowmock.UoW{
		WithinTxFn: func(context.Context, func(uow.Repos) error) error { return broken },
	}
	run := ledger.NewRunner(m, ledger.WithPublisher(pub), ledger.WithLogger(zap.New(core)))

	rcpt, err := run.Run(context.Background(), "test", "noop", alice, func(context.Context, *ledger.Tx) error {
		t.Fatal("body must not run when the transaction cannot start")
		return nil
	})
	require.ErrorIs(t, err, broken)
	assert.Nil(t, rcpt)
	assert.Empty(t, pub.batches)
	assert.Equal(t, 1, logs.FilterMessage("operation failed").Len())
}

func TestRun_EmptyCommitStillReturnsReceipt(t *testing.T) {
	run := ledger.NewRunner(uowmock.New().Passthrough())

	rcpt, err := run.Run(context.Background(), "test", "noop", alice, func(_ context.Context, tx *ledger.Tx) error {
		assert.Equal(t, alice, tx.Caller)
		return nil
	})
	require.NoError(t, err)
	assert.NotEmpty(t, rcpt.TxID)
	assert.Empty(t, rcpt.Events)
}
