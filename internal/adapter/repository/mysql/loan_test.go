package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "loan-settlement/internal/domain/loan"
	"loan-settlement/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func makeLoan(borrower string) *domain.Loan {
	return &domain.Loan{
		Borrower:        borrower,
		Principal:       decimal.NewFromInt(1000),
		InterestAmount:  decimal.NewFromInt(100),
		DurationSeconds: 86400,
		State:           domain.StateCreated,
		StateUpdatedAt:  time.Now().UTC(),
	}
}

func TestCreateAndGetByID(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	borrower := id.NewID32()
	l := makeLoan(borrower)
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if l.ID == 0 {
		t.Fatalf("Create did not set auto-increment ID")
	}

	got, err := repo.GetByID(ctx, l.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Borrower != borrower || !got.Principal.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("unexpected loan: %+v", got)
	}
	if got.Lender != nil || got.Deadline != nil {
		t.Errorf("fresh loan must have no lender or deadline: %+v", got)
	}
}

func TestSaveUpdates(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	l := makeLoan("dddddddddddddddddddddddddddddddd")
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}

	lender := "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee"
	if err := l.MarkFunded(lender, domain.FundedDirect, time.Now()); err != nil {
		t.Fatalf("MarkFunded: %v", err)
	}
	if err := repo.Save(ctx, l); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.GetByIDForUpdate(ctx, l.ID)
	if err != nil {
		t.Fatalf("GetByIDForUpdate: %v", err)
	}
	if got.State != domain.StateFunded || got.LenderAddress() != lender || got.Deadline == nil {
		t.Errorf("loan not updated: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)

	_, err := repo.GetByID(context.Background(), 4242)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestList_Filters(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	b1 := "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	b2 := "cccccccccccccccccccccccccccccccc"
	for _, b := range []string{b1, b1, b2} {
		if err := repo.Create(ctx, makeLoan(b)); err != nil {
			t.Fatal(err)
		}
	}
	funded := makeLoan(b1)
	if err := repo.Create(ctx, funded); err != nil {
		t.Fatal(err)
	}
	if err := funded.MarkFunded(b2, domain.FundedByPool, time.Now()); err != nil {
		t.Fatal(err)
	}
	if err := repo.Save(ctx, funded); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		f    domain.Filter
		want int
	}{
		{"all", domain.Filter{}, 4},
		{"by borrower", domain.Filter{Borrower: b1}, 3},
		{"by lender", domain.Filter{Lender: b2}, 1},
		{"by state", domain.Filter{State: domain.StateCreated}, 3},
		{"limit", domain.Filter{Limit: 2}, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := repo.List(ctx, tc.f)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(got) != tc.want {
				t.Fatalf("len=%d want %d", len(got), tc.want)
			}
		})
	}

	got, _ := repo.List(ctx, domain.Filter{})
	if got[0].ID != funded.ID {
		t.Fatalf("expected newest first, got id=%d", got[0].ID)
	}
}
