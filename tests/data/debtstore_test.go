package data

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/tally/internal/models"
)

func newTestDebt(id string) *models.Debt {
	return &models.Debt{
		ID:             id,
		BorrowerName:   "Alice",
		Principal:      decimal.NewFromInt(1000),
		InterestRate:   decimal.RequireFromString("12.5"),
		LentDate:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Currency:       "USD",
		RecordedStatus: models.DebtStatusActive,
		Notes:          "test loan",
	}
}

func TestDebtStore_SaveAndGet(t *testing.T) {
	mgr := testManager(t)
	ctx := testContext()
	store := mgr.DebtStore()

	saved, err := store.SaveDebt(ctx, newTestDebt("alice1"))
	require.NoError(t, err)
	require.NotNil(t, saved)

	got, err := store.GetDebt(ctx, "alice1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.BorrowerName)
	assert.True(t, got.Principal.Equal(decimal.NewFromInt(1000)), "principal = %s", got.Principal)
	assert.True(t, got.InterestRate.Equal(decimal.RequireFromString("12.5")), "rate = %s", got.InterestRate)
	assert.Equal(t, models.DebtStatusActive, got.RecordedStatus)
}

func TestDebtStore_GetMissing(t *testing.T) {
	mgr := testManager(t)
	store := mgr.DebtStore()

	_, err := store.GetDebt(testContext(), "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDebtStore_UpsertOverwrites(t *testing.T) {
	mgr := testManager(t)
	ctx := testContext()
	store := mgr.DebtStore()

	_, err := store.SaveDebt(ctx, newTestDebt("alice1"))
	require.NoError(t, err)

	edited := newTestDebt("alice1")
	edited.BorrowerName = "Alice Smith"
	edited.Notes = "renegotiated"
	_, err = store.SaveDebt(ctx, edited)
	require.NoError(t, err)

	got, err := store.GetDebt(ctx, "alice1")
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", got.BorrowerName)
	assert.Equal(t, "renegotiated", got.Notes)

	debts, err := store.ListDebts(ctx)
	require.NoError(t, err)
	assert.Len(t, debts, 1, "upsert must not duplicate the record")
}

func TestDebtStore_ListOrderedByLentDate(t *testing.T) {
	mgr := testManager(t)
	ctx := testContext()
	store := mgr.DebtStore()

	later := newTestDebt("later")
	later.LentDate = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	earlier := newTestDebt("earlier")
	earlier.LentDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := store.SaveDebt(ctx, later)
	require.NoError(t, err)
	_, err = store.SaveDebt(ctx, earlier)
	require.NoError(t, err)

	debts, err := store.ListDebts(ctx)
	require.NoError(t, err)
	require.Len(t, debts, 2)
	assert.True(t, !debts[0].LentDate.After(debts[1].LentDate))
}

func TestDebtStore_RepaymentsRoundtrip(t *testing.T) {
	mgr := testManager(t)
	ctx := testContext()
	store := mgr.DebtStore()

	_, err := store.SaveDebt(ctx, newTestDebt("alice1"))
	require.NoError(t, err)

	updated, err := store.AddRepayment(ctx, "alice1", &models.Repayment{
		ID:     "rep1",
		Amount: decimal.RequireFromString("250.75"),
		Date:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Notes:  "first installment",
	})
	require.NoError(t, err)
	require.Len(t, updated.Repayments, 1)
	assert.Equal(t, "alice1", updated.Repayments[0].DebtID)

	got, err := store.GetDebt(ctx, "alice1")
	require.NoError(t, err)
	require.Len(t, got.Repayments, 1)
	assert.True(t, got.Repayments[0].Amount.Equal(decimal.RequireFromString("250.75")),
		"amount = %s", got.Repayments[0].Amount)
	assert.Equal(t, "first installment", got.Repayments[0].Notes)
}

func TestDebtStore_AddRepaymentMissingDebt(t *testing.T) {
	mgr := testManager(t)
	store := mgr.DebtStore()

	_, err := store.AddRepayment(testContext(), "missing", &models.Repayment{
		ID:     "rep1",
		Amount: decimal.NewFromInt(100),
		Date:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDebtStore_DeleteCascadesLedger(t *testing.T) {
	mgr := testManager(t)
	ctx := testContext()
	store := mgr.DebtStore()

	_, err := store.SaveDebt(ctx, newTestDebt("alice1"))
	require.NoError(t, err)
	_, err = store.AddRepayment(ctx, "alice1", &models.Repayment{
		ID:     "rep1",
		Amount: decimal.NewFromInt(100),
		Date:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.NoError(t, store.DeleteDebt(ctx, "alice1"))

	_, err = store.GetDebt(ctx, "alice1")
	assert.ErrorIs(t, err, models.ErrNotFound)

	// Deleting again is tolerated.
	assert.NoError(t, store.DeleteDebt(ctx, "alice1"))
}
