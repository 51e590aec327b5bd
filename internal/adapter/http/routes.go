package http

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Health    *Handler
	Ledger    *LedgerHandler
	Registry  *RegistryHandler
	Insurance *InsuranceHandler
	Liquidity *LiquidityHandler
	Loans     *LoanHandler
}

func Register(e *echo.Echo, h Handlers) {
	e.GET("/health", h.Health.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.GET("/contracts", h.Ledger.Contracts)
	e.POST("/accounts/mint", h.Ledger.Mint)
	e.GET("/accounts/:address", h.Ledger.GetAccount)
	e.GET("/events", h.Ledger.Events)

	reg := e.Group("/registry")
	reg.POST("/trusted-caller", h.Registry.SetTrustedCaller)
	reg.POST("/flags", h.Registry.FlagBorrower)
	reg.GET("/borrowers/:address", h.Registry.GetBorrower)

	ins := e.Group("/insurance")
	ins.POST("/trusted-caller", h.Insurance.SetTrustedCaller)
	ins.POST("/deposits", h.Insurance.Deposit)
	ins.POST("/payouts", h.Insurance.Payout)
	ins.GET("/insurers/:address", h.Insurance.GetInsurer)

	liq := e.Group("/liquidity")
	liq.GET("", h.Liquidity.Summary)
	liq.POST("/protocol", h.Liquidity.SetProtocol)
	liq.POST("/deposits", h.Liquidity.Deposit)
	liq.POST("/withdrawals", h.Liquidity.Withdraw)
	liq.POST("/allocations", h.Liquidity.Allocate)
	liq.GET("/lenders/:address", h.Liquidity.GetLender)

	e.POST("/escrow/liquidity-pool", h.Loans.SetLiquidityPool)

	loans := e.Group("/loans")
	loans.POST("", h.Loans.CreateLoan)
	loans.GET("", h.Loans.ListLoans)
	loans.GET("/:id", h.Loans.GetLoan)
	loans.GET("/:id/events", h.Loans.LoanEvents)
	loans.POST("/:id/fund", h.Loans.FundLoan)
	loans.POST("/:id/repay", h.Loans.RepayLoan)
	loans.POST("/:id/default", h.Loans.MarkDefault)
}
