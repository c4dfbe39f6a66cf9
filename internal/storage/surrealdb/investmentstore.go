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

type InvestmentStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewInvestmentStore(db *surrealdb.DB, logger *common.Logger) *InvestmentStore {
	return &InvestmentStore{
		db:     db,
		logger: logger,
	}
}

func (s *InvestmentStore) GetInvestment(ctx context.Context, id string) (*models.Investment, error) {
	investment, err := surrealdb.Select[models.Investment](ctx, s.db, surrealmodels.NewRecordID("investment", id))
	if err != nil {
		if isNotFoundError(err) {
			return nil, fmt.Errorf("investment %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to select investment: %w", err)
	}
	if investment == nil {
		return nil, fmt.Errorf("investment %s: %w", id, models.ErrNotFound)
	}
	return investment, nil
}

func (s *InvestmentStore) ListInvestments(ctx context.Context) ([]*models.Investment, error) {
	sql := "SELECT * FROM investment ORDER BY name ASC"

	results, err := surrealdb.Query[[]models.Investment](ctx, s.db, sql, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list investments: %w", err)
	}

	if results != nil && len(*results) > 0 {
		var mapped []*models.Investment
		for i := range (*results)[0].Result {
			mapped = append(mapped, &(*results)[0].Result[i])
		}
		return mapped, nil
	}
	return nil, nil
}

func (s *InvestmentStore) SaveInvestment(ctx context.Context, investment *models.Investment) (*models.Investment, error) {
	investment.UpdatedAt = time.Now()

	sql := "UPSERT $rid CONTENT $investment"
	vars := map[string]any{"rid": surrealmodels.NewRecordID("investment", investment.ID), "investment": investment}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.Investment](ctx, s.db, sql, vars)
		if err == nil {
			return investment, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("failed to save investment after retries: %w", lastErr)
}

func (s *InvestmentStore) DeleteInvestment(ctx context.Context, id string) error {
	_, err := surrealdb.Delete[models.Investment](ctx, s.db, surrealmodels.NewRecordID("investment", id))
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete investment: %w", err)
	}
	return nil
}
