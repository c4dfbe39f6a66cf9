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

type AccountStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewAccountStore(db *surrealdb.DB, logger *common.Logger) *AccountStore {
	return &AccountStore{
		db:     db,
		logger: logger,
	}
}

func (s *AccountStore) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	account, err := surrealdb.Select[models.Account](ctx, s.db, surrealmodels.NewRecordID("account", id))
	if err != nil {
		if isNotFoundError(err) {
			return nil, fmt.Errorf("account %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to select account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("account %s: %w", id, models.ErrNotFound)
	}
	return account, nil
}

func (s *AccountStore) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	sql := "SELECT * FROM account ORDER BY name ASC"

	results, err := surrealdb.Query[[]models.Account](ctx, s.db, sql, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	if results != nil && len(*results) > 0 {
		var mapped []*models.Account
		for i := range (*results)[0].Result {
			mapped = append(mapped, &(*results)[0].Result[i])
		}
		return mapped, nil
	}
	return nil, nil
}

func (s *AccountStore) SaveAccount(ctx context.Context, account *models.Account) (*models.Account, error) {
	account.UpdatedAt = time.Now()

	sql := "UPSERT $rid CONTENT $account"
	vars := map[string]any{"rid": surrealmodels.NewRecordID("account", account.ID), "account": account}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.Account](ctx, s.db, sql, vars)
		if err == nil {
			return account, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("failed to save account after retries: %w", lastErr)
}

func (s *AccountStore) DeleteAccount(ctx context.Context, id string) error {
	_, err := surrealdb.Delete[models.Account](ctx, s.db, surrealmodels.NewRecordID("account", id))
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}
