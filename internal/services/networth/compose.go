// Package networth composes account, investment and outstanding-debt
// values into net-worth statistics and health ratios.
package networth

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/tally/internal/fx"
	"github.com/bobmcallan/tally/internal/models"
)

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// Compose reduces the collections into net-worth statistics in the
// display currency. Only active and partially-paid debts contribute their
// outstanding balance to assets; fully paid loans contribute zero. No
// liabilities are modeled, so net worth equals total assets. Every ratio
// with a zero denominator is reported as zero rather than an error.
func Compose(
	accounts []models.Account,
	investments []models.Investment,
	debts []models.EvaluatedDebt,
	cashflow models.CashFlowSnapshot,
	asOf time.Time,
	displayCurrency string,
	rates models.RateTable,
) (*models.NetWorthStats, error) {
	accountBalance := decimal.Zero
	for _, a := range accounts {
		v, err := fx.Convert(a.Balance, a.Currency, displayCurrency, rates)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", a.ID, err)
		}
		accountBalance = accountBalance.Add(v)
	}

	investmentValue := decimal.Zero
	for _, inv := range investments {
		v, err := fx.Convert(inv.CurrentValue, inv.Currency, displayCurrency, rates)
		if err != nil {
			return nil, fmt.Errorf("investment %s: %w", inv.ID, err)
		}
		investmentValue = investmentValue.Add(v)
	}

	moneyLent := decimal.Zero
	for _, ed := range debts {
		switch ed.Accrual.EffectiveStatus {
		case models.DebtStatusActive, models.DebtStatusPartiallyPaid, models.DebtStatusOverdue:
			v, err := fx.Convert(ed.Accrual.RemainingAmount, ed.Debt.Currency, displayCurrency, rates)
			if err != nil {
				return nil, fmt.Errorf("debt %s: %w", ed.Debt.ID, err)
			}
			moneyLent = moneyLent.Add(v)
		}
	}

	totalAssets := accountBalance.Add(investmentValue).Add(moneyLent)
	monthlyGrowth := ratio(cashflow.MonthNetIncome, totalAssets)

	return &models.NetWorthStats{
		AsOf:                     asOf,
		DisplayCurrency:          displayCurrency,
		AccountBalance:           accountBalance,
		InvestmentValue:          investmentValue,
		MoneyLent:                moneyLent,
		TotalAssets:              totalAssets,
		NetWorth:                 totalAssets,
		SavingsRatePct:           ratio(cashflow.MonthNetIncome, cashflow.MonthIncome),
		InvestmentAllocationPct:  ratio(investmentValue, totalAssets),
		LiquidityRatioPct:        ratio(accountBalance, totalAssets),
		MonthlyGrowthRatePct:     monthlyGrowth,
		ProjectedYearlyGrowthPct: monthlyGrowth.Mul(twelve),
	}, nil
}

// ExportRows renders net-worth statistics as plain label/value/percent
// rows for tabular export.
func ExportRows(stats *models.NetWorthStats) []models.ExportRow {
	cur := stats.DisplayCurrency
	return []models.ExportRow{
		{Label: "Account Balance", Value: fx.FormatMoney(stats.AccountBalance, cur), Percent: pct(stats.LiquidityRatioPct)},
		{Label: "Investments", Value: fx.FormatMoney(stats.InvestmentValue, cur), Percent: pct(stats.InvestmentAllocationPct)},
		{Label: "Money Lent", Value: fx.FormatMoney(stats.MoneyLent, cur)},
		{Label: "Total Assets", Value: fx.FormatMoney(stats.TotalAssets, cur)},
		{Label: "Net Worth", Value: fx.FormatMoney(stats.NetWorth, cur)},
		{Label: "Savings Rate", Value: pct(stats.SavingsRatePct)},
		{Label: "Monthly Growth", Value: pct(stats.MonthlyGrowthRatePct)},
		{Label: "Projected Yearly Growth", Value: pct(stats.ProjectedYearlyGrowthPct)},
	}
}

// ratio is numerator/denominator as a percentage, zero when the
// denominator is zero or negative.
func ratio(numerator, denominator decimal.Decimal) decimal.Decimal {
	if !denominator.IsPositive() {
		return decimal.Zero
	}
	return numerator.Div(denominator).Mul(hundred)
}

func pct(v decimal.Decimal) string {
	return v.StringFixed(1) + "%"
}
