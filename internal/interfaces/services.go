package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/tally/internal/models"
)

// LedgerService is the reactive cache and mutation controller over the
// three entity collections. Reads serve cached data when fresh; mutations
// are applied optimistically and confirmed against the store.
type LedgerService interface {
	// Reads. Each fetches from the store only when the collection is
	// idle or stale.
	Debts(ctx context.Context) ([]models.Debt, error)
	Accounts(ctx context.Context) ([]models.Account, error)
	Investments(ctx context.Context) ([]models.Investment, error)
	Debt(ctx context.Context, id string) (*models.Debt, error)

	// Debt mutations.
	CreateDebt(ctx context.Context, debt *models.Debt) (*models.Debt, error)
	UpdateDebt(ctx context.Context, debt *models.Debt) (*models.Debt, error)
	DeleteDebt(ctx context.Context, id string) error
	AddRepayment(ctx context.Context, debtID string, repayment *models.Repayment) (*models.Debt, error)

	// Account mutations.
	CreateAccount(ctx context.Context, account *models.Account) (*models.Account, error)
	UpdateAccount(ctx context.Context, account *models.Account) (*models.Account, error)
	DeleteAccount(ctx context.Context, id string) error

	// Investment mutations.
	CreateInvestment(ctx context.Context, investment *models.Investment) (*models.Investment, error)
	UpdateInvestment(ctx context.Context, investment *models.Investment) (*models.Investment, error)
	DeleteInvestment(ctx context.Context, id string) error

	// Cache control.
	State(collection models.Collection) models.CollectionState
	Invalidate(collection models.Collection)
	Refresh(ctx context.Context, collection models.Collection) error
}

// DebtService annotates debt records with accrual results and folds them
// into financial summaries.
type DebtService interface {
	Evaluate(ctx context.Context, debtID string, asOf time.Time) (*models.EvaluatedDebt, error)
	EvaluateAll(ctx context.Context, asOf time.Time) ([]models.EvaluatedDebt, error)
	Summarize(ctx context.Context, asOf time.Time, displayCurrency string, rates models.RateTable) (*models.FinancialSummary, error)
}

// NetWorthService composes account, investment and outstanding-debt values
// into net-worth statistics.
type NetWorthService interface {
	Stats(ctx context.Context, asOf time.Time, displayCurrency string, rates models.RateTable, cashflow models.CashFlowSnapshot) (*models.NetWorthStats, error)
}
