package mysql

import (
	"context"
	"testing"

	insuranceDomain "loan-settlement/internal/domain/insurance"

	"github.com/shopspring/decimal"
)

func TestAccountRepository_KeepsFullScale(t *testing.T) {
	db := openTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	want := decimal.RequireFromString("123456789.123456789123456789")
	a, err := repo.GetForUpdate(ctx, addrA)
	if err != nil {
		t.Fatalf("GetForUpdate: %v", err)
	}
	a.Balance = want
	if err := repo.Save(ctx, a); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.Get(ctx, addrA)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.Balance.Equal(want) {
		t.Fatalf("balance = %s, want %s", got.Balance, want)
	}
}

func TestInsuranceRepository_KeepsFullScale(t *testing.T) {
	db := openTestDB(t)
	repo := NewInsuranceRepository(db)
	ctx := context.Background()

	want := decimal.RequireFromString("99999999999999999999.000000000000000001")
	a, err := repo.GetForUpdate(ctx, addrA)
	if err != nil {
		t.Fatalf("GetForUpdate: %v", err)
	}
	a.Balance = want
	a.TotalDeposited = want
	if err := repo.Save(ctx, a); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.Get(ctx, addrA)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.Balance.Equal(want) || !got.TotalDeposited.Equal(want) {
		t.Fatalf("insurer = %+v, want balance %s", got, want)
	}
}

func TestInsuranceRepository_GetDoesNotCreate(t *testing.T) {
	db := openTestDB(t)
	repo := NewInsuranceRepository(db)

	got, err := repo.Get(context.Background(), addrB)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.Balance.IsZero() {
		t.Fatalf("unknown insurer balance = %s", got.Balance)
	}
	var n int64
	if err := db.Model(&insuranceDomain.InsurerAccount{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("Get created %d insurer rows", n)
	}
}
