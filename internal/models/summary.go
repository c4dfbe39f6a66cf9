package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinancialSummary folds a debt collection into cross-cutting totals, all
// normalized into a single display currency. It is a value computed per
// evaluation, recomputed on every change to the underlying collection or
// the display currency, and never persisted.
type FinancialSummary struct {
	AsOf            time.Time       `json:"as_of"`
	DisplayCurrency string          `json:"display_currency"`
	TotalPrincipal  decimal.Decimal `json:"total_principal"`
	// TotalInterestAccrued sums gross accrued interest across all debts.
	TotalInterestAccrued decimal.Decimal `json:"total_interest_accrued"`
	TotalRepaid          decimal.Decimal `json:"total_repaid"`
	TotalOutstanding     decimal.Decimal `json:"total_outstanding"`
	TotalOverpayment     decimal.Decimal `json:"total_overpayment"`
	DebtCount            int             `json:"debt_count"`
	ActiveCount          int             `json:"active_count"`
	OverdueCount         int             `json:"overdue_count"`

	// Sections partition debts by effective status. Overdue debts are
	// grouped into the active section for display purposes; the overdue
	// count is reported separately.
	Sections map[DebtStatus]*DebtSection `json:"sections"`
}

// DebtSection is a per-status subtotal within a financial summary.
type DebtSection struct {
	Status    DebtStatus      `json:"status"`
	Count     int             `json:"count"`
	Principal decimal.Decimal `json:"principal"`
	Remaining decimal.Decimal `json:"remaining"`
}

// CashFlowSnapshot carries the current month's income and expense totals,
// already normalized into the display currency by the caller. The composer
// consumes it for the savings-rate and growth ratios.
type CashFlowSnapshot struct {
	MonthIncome    decimal.Decimal `json:"month_income"`
	MonthExpenses  decimal.Decimal `json:"month_expenses"`
	MonthNetIncome decimal.Decimal `json:"month_net_income"`
}

// NetWorthStats is total assets plus derived health ratios. No liabilities
// are modeled, so net worth equals total assets.
type NetWorthStats struct {
	AsOf            time.Time       `json:"as_of"`
	DisplayCurrency string          `json:"display_currency"`
	AccountBalance  decimal.Decimal `json:"account_balance"`
	InvestmentValue decimal.Decimal `json:"investment_value"`
	MoneyLent       decimal.Decimal `json:"money_lent"` // outstanding active/partially-paid debt
	TotalAssets     decimal.Decimal `json:"total_assets"`
	NetWorth        decimal.Decimal `json:"net_worth"`

	// Ratios are percentages; any ratio whose denominator is zero is
	// reported as zero rather than an error.
	SavingsRatePct          decimal.Decimal `json:"savings_rate_pct"`
	InvestmentAllocationPct decimal.Decimal `json:"investment_allocation_pct"`
	LiquidityRatioPct       decimal.Decimal `json:"liquidity_ratio_pct"`
	MonthlyGrowthRatePct    decimal.Decimal `json:"monthly_growth_rate_pct"`
	// ProjectedYearlyGrowthPct is monthly growth times 12, a linear
	// extrapolation without compounding.
	ProjectedYearlyGrowthPct decimal.Decimal `json:"projected_yearly_growth_pct"`
}

// ExportRow is the tabular export boundary: a label, a formatted value,
// and an optional percentage. Serialization to any file format is an
// external concern.
type ExportRow struct {
	Label   string `json:"label"`
	Value   string `json:"value"`
	Percent string `json:"percent,omitempty"`
}
