// Package interfaces defines service contracts for Tally
package interfaces

import (
	"context"

	"github.com/bobmcallan/tally/internal/models"
)

// StorageManager coordinates the entity stores backing the ledger cache.
// The store is an external collaborator: the core depends only on this
// narrow CRUD contract, not on how records are persisted.
type StorageManager interface {
	DebtStore() DebtStore
	AccountStore() AccountStore
	InvestmentStore() InvestmentStore

	// Lifecycle
	Close() error
}

// DebtStore persists debts and their repayment ledgers. A debt owns its
// repayments: deleting the debt deletes them with it.
type DebtStore interface {
	GetDebt(ctx context.Context, id string) (*models.Debt, error)
	ListDebts(ctx context.Context) ([]*models.Debt, error)
	SaveDebt(ctx context.Context, debt *models.Debt) (*models.Debt, error)
	DeleteDebt(ctx context.Context, id string) error

	// AddRepayment appends to the debt's ledger and returns the updated
	// debt record.
	AddRepayment(ctx context.Context, debtID string, repayment *models.Repayment) (*models.Debt, error)
}

// AccountStore persists bank/cash accounts.
type AccountStore interface {
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	ListAccounts(ctx context.Context) ([]*models.Account, error)
	SaveAccount(ctx context.Context, account *models.Account) (*models.Account, error)
	DeleteAccount(ctx context.Context, id string) error
}

// InvestmentStore persists investment positions.
type InvestmentStore interface {
	GetInvestment(ctx context.Context, id string) (*models.Investment, error)
	ListInvestments(ctx context.Context) ([]*models.Investment, error)
	SaveInvestment(ctx context.Context, investment *models.Investment) (*models.Investment, error)
	DeleteInvestment(ctx context.Context, id string) error
}
