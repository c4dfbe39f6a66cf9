package networth

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/tally/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func usdRates() models.RateTable {
	return models.NewRateTable(map[string]decimal.Decimal{"USD": dec("1")})
}

func evaluated(id, currency string, remaining decimal.Decimal, status models.DebtStatus) models.EvaluatedDebt {
	return models.EvaluatedDebt{
		Debt: models.Debt{ID: id, Currency: currency},
		Accrual: models.AccrualResult{
			RemainingAmount: remaining,
			EffectiveStatus: status,
		},
	}
}

func TestCompose_AssetBreakdown(t *testing.T) {
	accounts := []models.Account{
		{ID: "account:checking", Name: "Checking", Balance: dec("600"), Currency: "USD"},
		{ID: "account:savings", Name: "Savings", Balance: dec("400"), Currency: "USD"},
	}
	investments := []models.Investment{
		{ID: "investment:etf", Name: "Index ETF", CurrentValue: dec("500"), Currency: "USD"},
	}
	debts := []models.EvaluatedDebt{
		evaluated("debt:a", "USD", dec("200"), models.DebtStatusActive),
		evaluated("debt:b", "USD", dec("0"), models.DebtStatusFullyPaid),
	}

	stats, err := Compose(accounts, investments, debts, models.CashFlowSnapshot{},
		date(2024, 7, 1), "USD", usdRates())
	require.NoError(t, err)

	assert.True(t, stats.AccountBalance.Equal(dec("1000")), "AccountBalance = %s", stats.AccountBalance)
	assert.True(t, stats.InvestmentValue.Equal(dec("500")), "InvestmentValue = %s", stats.InvestmentValue)
	assert.True(t, stats.MoneyLent.Equal(dec("200")), "fully paid debts contribute nothing, got %s", stats.MoneyLent)
	assert.True(t, stats.TotalAssets.Equal(dec("1700")), "TotalAssets = %s", stats.TotalAssets)
	assert.True(t, stats.NetWorth.Equal(stats.TotalAssets), "no liabilities modeled")

	// 1000/1700 ≈ 58.8%, 500/1700 ≈ 29.4%.
	assert.Equal(t, "58.8", stats.LiquidityRatioPct.StringFixed(1))
	assert.Equal(t, "29.4", stats.InvestmentAllocationPct.StringFixed(1))
}

func TestCompose_OverdueDebtStillCounts(t *testing.T) {
	debts := []models.EvaluatedDebt{
		evaluated("debt:late", "USD", dec("500"), models.DebtStatusOverdue),
	}

	stats, err := Compose(nil, nil, debts, models.CashFlowSnapshot{},
		date(2024, 7, 1), "USD", usdRates())
	require.NoError(t, err)

	assert.True(t, stats.MoneyLent.Equal(dec("500")), "MoneyLent = %s", stats.MoneyLent)
}

func TestCompose_ZeroDenominators(t *testing.T) {
	stats, err := Compose(nil, nil, nil, models.CashFlowSnapshot{},
		date(2024, 7, 1), "USD", usdRates())
	require.NoError(t, err)

	assert.True(t, stats.TotalAssets.IsZero())
	assert.True(t, stats.SavingsRatePct.IsZero())
	assert.True(t, stats.LiquidityRatioPct.IsZero())
	assert.True(t, stats.InvestmentAllocationPct.IsZero())
	assert.True(t, stats.MonthlyGrowthRatePct.IsZero())
	assert.True(t, stats.ProjectedYearlyGrowthPct.IsZero())
}

func TestCompose_GrowthRates(t *testing.T) {
	accounts := []models.Account{
		{ID: "account:main", Balance: dec("2000"), Currency: "USD"},
	}
	cashflow := models.CashFlowSnapshot{
		MonthIncome:    dec("1000"),
		MonthExpenses:  dec("900"),
		MonthNetIncome: dec("100"),
	}

	stats, err := Compose(accounts, nil, nil, cashflow,
		date(2024, 7, 1), "USD", usdRates())
	require.NoError(t, err)

	// Savings rate 100/1000, monthly growth 100/2000, yearly = monthly * 12.
	assert.True(t, stats.SavingsRatePct.Equal(dec("10")), "SavingsRatePct = %s", stats.SavingsRatePct)
	assert.True(t, stats.MonthlyGrowthRatePct.Equal(dec("5")), "MonthlyGrowthRatePct = %s", stats.MonthlyGrowthRatePct)
	assert.True(t, stats.ProjectedYearlyGrowthPct.Equal(dec("60")), "ProjectedYearlyGrowthPct = %s", stats.ProjectedYearlyGrowthPct)
}

func TestCompose_CurrencyNormalization(t *testing.T) {
	rates := models.NewRateTable(map[string]decimal.Decimal{
		"USD": dec("1"),
		"AUD": dec("2"),
	})
	accounts := []models.Account{
		{ID: "account:au", Balance: dec("400"), Currency: "AUD"},
	}
	debts := []models.EvaluatedDebt{
		evaluated("debt:au", "AUD", dec("100"), models.DebtStatusActive),
	}

	stats, err := Compose(accounts, nil, debts, models.CashFlowSnapshot{},
		date(2024, 7, 1), "USD", rates)
	require.NoError(t, err)

	assert.True(t, stats.AccountBalance.Equal(dec("200")), "AccountBalance = %s", stats.AccountBalance)
	assert.True(t, stats.MoneyLent.Equal(dec("50")), "MoneyLent = %s", stats.MoneyLent)
	assert.True(t, stats.TotalAssets.Equal(dec("250")), "TotalAssets = %s", stats.TotalAssets)
}

func TestCompose_UnknownCurrencyFails(t *testing.T) {
	accounts := []models.Account{
		{ID: "account:x", Balance: dec("100"), Currency: "GBP"},
	}
	_, err := Compose(accounts, nil, nil, models.CashFlowSnapshot{},
		date(2024, 7, 1), "USD", usdRates())
	assert.ErrorIs(t, err, models.ErrUnknownCurrency)
}

func TestExportRows_IncludesRatios(t *testing.T) {
	stats := &models.NetWorthStats{
		AsOf:                    date(2024, 7, 1),
		DisplayCurrency:         "USD",
		AccountBalance:          dec("1000"),
		InvestmentValue:         dec("500"),
		MoneyLent:               dec("200"),
		TotalAssets:             dec("1700"),
		NetWorth:                dec("1700"),
		LiquidityRatioPct:       dec("58.8235"),
		InvestmentAllocationPct: dec("29.4117"),
	}

	rows := ExportRows(stats)
	require.NotEmpty(t, rows)

	byLabel := map[string]models.ExportRow{}
	for _, row := range rows {
		byLabel[row.Label] = row
	}

	assert.Equal(t, "$1,000.00", byLabel["Account Balance"].Value)
	assert.Equal(t, "58.8%", byLabel["Account Balance"].Percent)
	assert.Equal(t, "29.4%", byLabel["Investments"].Percent)
	assert.Equal(t, "$1,700.00", byLabel["Net Worth"].Value)
}
