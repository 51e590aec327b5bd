package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	httpadp "loan-settlement/internal/adapter/http"
	mw "loan-settlement/internal/adapter/middleware"
	"loan-settlement/internal/adapter/repository/mysql"
	"loan-settlement/internal/config"
	"loan-settlement/internal/infrastructure/cache"
	"loan-settlement/internal/infrastructure/db"
	"loan-settlement/internal/infrastructure/eventbus"
	"loan-settlement/internal/infrastructure/logger"
	"loan-settlement/internal/infrastructure/metrics"
	"loan-settlement/internal/usecase/escrow"
	"loan-settlement/internal/usecase/insurance"
	"loan-settlement/internal/usecase/ledger"
	"loan-settlement/internal/usecase/liquidity"
	"loan-settlement/internal/usecase/registry"
	"loan-settlement/pkg/id"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Dev: cfg.LogDev})
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config", zap.Error(err))
	}

	gdb, err := db.Open(db.Options{Driver: cfg.DBDriver, DSN: cfg.DSN(), LogLevel: logger.GormLevel(cfg.LogLevel)})
	if err != nil {
		log.Fatal("open database", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	if err := mysql.Migrate(gdb); err != nil {
		log.Fatal("migrate", zap.Error(err))
	}

	rdb, err := cache.OpenRedis(context.Background(), cache.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	if err != nil {
		log.Fatal("open redis", zap.Error(err))
	}
	defer func() { _ = rdb.Close() }()

	run := ledger.NewRunner(mysql.NewGormUoW(gdb),
		ledger.WithClock(clockwork.NewRealClock()),
		ledger.WithPublisher(eventbus.NewRedisStream(rdb, cfg.EventStream, cfg.EventStreamMaxLen, log)),
		ledger.WithLogger(log),
		ledger.WithSequence(id.NewSequence(cfg.SnowflakeNode)),
	)
	svc := ledger.NewService(run, cfg.DeployerAddress)
	if _, err := svc.Deploy(context.Background()); err != nil {
		log.Fatal("deploy contracts", zap.Error(err))
	}

	reg := registry.NewUsecase(run)
	ins := insurance.NewUsecase(run)
	esc := escrow.NewUsecase(run, reg, ins)
	pool := liquidity.NewUsecase(run, esc)
	esc.AttachPool(pool)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(
		middleware.Recover(),
		mw.RequestID(),
		metrics.Middleware(),
		mw.RequestLogger(log),
		mw.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second, log),
	)

	httpadp.Register(e, httpadp.Handlers{
		Health:    httpadp.NewHandler(),
		Ledger:    httpadp.NewLedgerHandler(svc),
		Registry:  httpadp.NewRegistryHandler(reg),
		Insurance: httpadp.NewInsuranceHandler(ins),
		Liquidity: httpadp.NewLiquidityHandler(pool),
		Loans:     httpadp.NewLoanHandler(esc),
	})

	go func() {
		addr := ":" + cfg.AppPort
		log.Info("listening", zap.String("addr", addr), zap.String("db", cfg.DBDriver))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
}
