// Package dbtest gives usecase tests a migrated in-memory database and a
// deployed set of contracts.
package dbtest

import (
	"context"
	"testing"
	"time"

	"loan-settlement/internal/adapter/repository/mysql"
	"loan-settlement/internal/domain/contract"
	infradb "loan-settlement/internal/infrastructure/db"
	"loan-settlement/internal/usecase/ledger"

	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const Deployer = "d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0"

// Epoch is where fake clocks start.
var Epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func Open(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(infradb.SQLite(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := mysql.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Env is a deployed ledger on a fake clock.
type Env struct {
	DB        *gorm.DB
	Clock     *clockwork.FakeClock
	Runner    *ledger.Runner
	Ledger    *ledger.Service
	Contracts map[contract.Name]string
}

func New(t *testing.T) *Env {
	t.Helper()
	db := Open(t)
	clock := clockwork.NewFakeClockAt(Epoch)
	run := ledger.NewRunner(mysql.NewGormUoW(db), ledger.WithClock(clock))
	svc := ledger.NewService(run, Deployer)
	ctx := context.Background()
	if _, err := svc.Deploy(ctx); err != nil {
		t.Fatalf("deploy: %v", err)
	}
	cs, err := svc.Contracts(ctx)
	if err != nil {
		t.Fatalf("contracts: %v", err)
	}
	addrs := make(map[contract.Name]string, len(cs))
	for _, c := range cs {
		addrs[c.Name] = c.Address
	}
	return &Env{DB: db, Clock: clock, Runner: run, Ledger: svc, Contracts: addrs}
}

// Fund mints amount (a decimal string) to addr.
func (e *Env) Fund(t *testing.T, addr, amount string) {
	t.Helper()
	if _, err := e.Ledger.Mint(context.Background(), Deployer, addr, decimalOf(t, amount)); err != nil {
		t.Fatalf("mint %s to %s: %v", amount, addr, err)
	}
}

// Balance returns the native balance of addr as a string, e.g. "1.1".
func (e *Env) Balance(t *testing.T, addr string) string {
	t.Helper()
	a, err := e.Ledger.GetAccount(context.Background(), addr)
	if err != nil {
		t.Fatalf("account %s: %v", addr, err)
	}
	return a.Balance.String()
}
