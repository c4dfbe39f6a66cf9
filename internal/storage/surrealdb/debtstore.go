package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/bobmcallan/tally/internal/common"
	"github.com/bobmcallan/tally/internal/models"
)

// DebtStore persists debts with their repayment ledgers embedded in the
// debt document, so deleting a debt deletes its repayments with it.
type DebtStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewDebtStore(db *surrealdb.DB, logger *common.Logger) *DebtStore {
	return &DebtStore{
		db:     db,
		logger: logger,
	}
}

func (s *DebtStore) GetDebt(ctx context.Context, id string) (*models.Debt, error) {
	debt, err := surrealdb.Select[models.Debt](ctx, s.db, surrealmodels.NewRecordID("debt", id))
	if err != nil {
		if isNotFoundError(err) {
			return nil, fmt.Errorf("debt %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to select debt: %w", err)
	}
	if debt == nil {
		return nil, fmt.Errorf("debt %s: %w", id, models.ErrNotFound)
	}
	return debt, nil
}

func (s *DebtStore) ListDebts(ctx context.Context) ([]*models.Debt, error) {
	sql := "SELECT * FROM debt ORDER BY lent_date ASC"

	results, err := surrealdb.Query[[]models.Debt](ctx, s.db, sql, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list debts: %w", err)
	}

	if results != nil && len(*results) > 0 {
		var mapped []*models.Debt
		for i := range (*results)[0].Result {
			mapped = append(mapped, &(*results)[0].Result[i])
		}
		return mapped, nil
	}
	return nil, nil
}

func (s *DebtStore) SaveDebt(ctx context.Context, debt *models.Debt) (*models.Debt, error) {
	if err := debt.Validate(); err != nil {
		return nil, err
	}
	debt.UpdatedAt = time.Now()

	sql := "UPSERT $rid CONTENT $debt"
	vars := map[string]any{"rid": surrealmodels.NewRecordID("debt", debt.ID), "debt": debt}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.Debt](ctx, s.db, sql, vars)
		if err == nil {
			return debt, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("failed to save debt after retries: %w", lastErr)
}

func (s *DebtStore) DeleteDebt(ctx context.Context, id string) error {
	_, err := surrealdb.Delete[models.Debt](ctx, s.db, surrealmodels.NewRecordID("debt", id))
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete debt: %w", err)
	}
	return nil
}

func (s *DebtStore) AddRepayment(ctx context.Context, debtID string, repayment *models.Repayment) (*models.Debt, error) {
	if err := repayment.Validate(); err != nil {
		return nil, err
	}

	debt, err := s.GetDebt(ctx, debtID)
	if err != nil {
		return nil, err
	}

	repayment.DebtID = debtID
	debt.Repayments = append(debt.Repayments, *repayment)

	return s.SaveDebt(ctx, debt)
}
