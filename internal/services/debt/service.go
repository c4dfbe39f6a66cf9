// Package debt provides debt evaluation and financial summary services
package debt

import (
	"context"
	"fmt"
	"time"

	"github.com/bobmcallan/tally/internal/accrual"
	"github.com/bobmcallan/tally/internal/common"
	"github.com/bobmcallan/tally/internal/interfaces"
	"github.com/bobmcallan/tally/internal/models"
)

// Service implements DebtService on top of the ledger cache.
type Service struct {
	ledger interfaces.LedgerService
	logger *common.Logger
}

// NewService creates a new debt service.
func NewService(ledger interfaces.LedgerService, logger *common.Logger) *Service {
	return &Service{
		ledger: ledger,
		logger: logger,
	}
}

// Evaluate returns one debt annotated with its accrual at the as-of date.
func (s *Service) Evaluate(ctx context.Context, debtID string, asOf time.Time) (*models.EvaluatedDebt, error) {
	record, err := s.ledger.Debt(ctx, debtID)
	if err != nil {
		return nil, err
	}

	result, err := accrual.Compute(accrual.ForDebt(record, asOf))
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate debt %s: %w", debtID, err)
	}

	return &models.EvaluatedDebt{Debt: *record, Accrual: result}, nil
}

// EvaluateAll annotates the whole cached debt collection, running the
// accrual exactly once per debt. Callers partition or total the result
// without recomputing.
func (s *Service) EvaluateAll(ctx context.Context, asOf time.Time) ([]models.EvaluatedDebt, error) {
	records, err := s.ledger.Debts(ctx)
	if err != nil {
		return nil, err
	}
	return EvaluateAll(records, asOf)
}

// Summarize folds the cached debt collection into a financial summary in
// the display currency.
func (s *Service) Summarize(ctx context.Context, asOf time.Time, displayCurrency string, rates models.RateTable) (*models.FinancialSummary, error) {
	records, err := s.ledger.Debts(ctx)
	if err != nil {
		return nil, err
	}

	summary, err := Summarize(records, asOf, displayCurrency, rates)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Int("debts", summary.DebtCount).
		Str("outstanding", summary.TotalOutstanding.String()).
		Str("currency", displayCurrency).
		Msg("Financial summary computed")
	return summary, nil
}
