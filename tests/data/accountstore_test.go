package data

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/tally/internal/models"
)

func TestAccountStore_Roundtrip(t *testing.T) {
	mgr := testManager(t)
	ctx := testContext()
	store := mgr.AccountStore()

	_, err := store.SaveAccount(ctx, &models.Account{
		ID:       "checking",
		Name:     "Everyday Checking",
		Balance:  decimal.RequireFromString("1234.56"),
		Currency: "USD",
	})
	require.NoError(t, err)

	got, err := store.GetAccount(ctx, "checking")
	require.NoError(t, err)
	assert.Equal(t, "Everyday Checking", got.Name)
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("1234.56")), "balance = %s", got.Balance)

	accounts, err := store.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)

	require.NoError(t, store.DeleteAccount(ctx, "checking"))
	_, err = store.GetAccount(ctx, "checking")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestInvestmentStore_Roundtrip(t *testing.T) {
	mgr := testManager(t)
	ctx := testContext()
	store := mgr.InvestmentStore()

	_, err := store.SaveInvestment(ctx, &models.Investment{
		ID:           "etf",
		Name:         "Index ETF",
		CurrentValue: decimal.RequireFromString("500.25"),
		Currency:     "USD",
	})
	require.NoError(t, err)

	got, err := store.GetInvestment(ctx, "etf")
	require.NoError(t, err)
	assert.True(t, got.CurrentValue.Equal(decimal.RequireFromString("500.25")), "value = %s", got.CurrentValue)

	require.NoError(t, store.DeleteInvestment(ctx, "etf"))
	_, err = store.GetInvestment(ctx, "etf")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
