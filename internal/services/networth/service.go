package networth

import (
	"context"
	"time"

	"github.com/bobmcallan/tally/internal/common"
	"github.com/bobmcallan/tally/internal/interfaces"
	"github.com/bobmcallan/tally/internal/models"
	"github.com/bobmcallan/tally/internal/services/debt"
)

// Service implements NetWorthService on top of the ledger cache. Stats
// are never cached: every call reduces whatever the ledger currently
// holds, so a Stale mark on a collection is all the invalidation needed.
type Service struct {
	ledger interfaces.LedgerService
	logger *common.Logger
}

// NewService creates a new net-worth service.
func NewService(ledger interfaces.LedgerService, logger *common.Logger) *Service {
	return &Service{
		ledger: ledger,
		logger: logger,
	}
}

// Stats composes net-worth statistics at the as-of date. The cash-flow
// snapshot is supplied by the caller, already in the display currency.
func (s *Service) Stats(ctx context.Context, asOf time.Time, displayCurrency string, rates models.RateTable, cashflow models.CashFlowSnapshot) (*models.NetWorthStats, error) {
	accounts, err := s.ledger.Accounts(ctx)
	if err != nil {
		return nil, err
	}
	investments, err := s.ledger.Investments(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.ledger.Debts(ctx)
	if err != nil {
		return nil, err
	}

	evaluated, err := debt.EvaluateAll(records, asOf)
	if err != nil {
		return nil, err
	}

	stats, err := Compose(accounts, investments, evaluated, cashflow, asOf, displayCurrency, rates)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("total_assets", stats.TotalAssets.String()).
		Str("currency", displayCurrency).
		Msg("Net worth composed")
	return stats, nil
}
