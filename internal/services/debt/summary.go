package debt

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/tally/internal/accrual"
	"github.com/bobmcallan/tally/internal/fx"
	"github.com/bobmcallan/tally/internal/models"
)

// EvaluateAll runs the accrual once per debt.
func EvaluateAll(records []models.Debt, asOf time.Time) ([]models.EvaluatedDebt, error) {
	evaluated := make([]models.EvaluatedDebt, 0, len(records))
	for i := range records {
		result, err := accrual.Compute(accrual.ForDebt(&records[i], asOf))
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate debt %s: %w", records[i].ID, err)
		}
		evaluated = append(evaluated, models.EvaluatedDebt{Debt: records[i], Accrual: result})
	}
	return evaluated, nil
}

// Summarize folds a debt collection into cross-cutting totals normalized
// into the display currency. Section membership uses the recomputed
// effective status, never the recorded one; overdue debts are grouped
// into the active section with the overdue count reported separately.
// The as-of date is the only time input, so identical inputs always
// produce an identical summary.
func Summarize(records []models.Debt, asOf time.Time, displayCurrency string, rates models.RateTable) (*models.FinancialSummary, error) {
	evaluated, err := EvaluateAll(records, asOf)
	if err != nil {
		return nil, err
	}

	summary := &models.FinancialSummary{
		AsOf:                 asOf,
		DisplayCurrency:      displayCurrency,
		TotalPrincipal:       decimal.Zero,
		TotalInterestAccrued: decimal.Zero,
		TotalRepaid:          decimal.Zero,
		TotalOutstanding:     decimal.Zero,
		TotalOverpayment:     decimal.Zero,
		Sections: map[models.DebtStatus]*models.DebtSection{
			models.DebtStatusActive:        newSection(models.DebtStatusActive),
			models.DebtStatusPartiallyPaid: newSection(models.DebtStatusPartiallyPaid),
			models.DebtStatusFullyPaid:     newSection(models.DebtStatusFullyPaid),
		},
	}

	for _, ed := range evaluated {
		principal, err := fx.Convert(ed.Debt.Principal, ed.Debt.Currency, displayCurrency, rates)
		if err != nil {
			return nil, fmt.Errorf("debt %s: %w", ed.Debt.ID, err)
		}
		interest, err := fx.Convert(ed.Accrual.InterestAccrued, ed.Debt.Currency, displayCurrency, rates)
		if err != nil {
			return nil, fmt.Errorf("debt %s: %w", ed.Debt.ID, err)
		}
		repaid, err := fx.Convert(ed.Debt.TotalRepaid(), ed.Debt.Currency, displayCurrency, rates)
		if err != nil {
			return nil, fmt.Errorf("debt %s: %w", ed.Debt.ID, err)
		}
		remaining, err := fx.Convert(ed.Accrual.RemainingAmount, ed.Debt.Currency, displayCurrency, rates)
		if err != nil {
			return nil, fmt.Errorf("debt %s: %w", ed.Debt.ID, err)
		}
		overpaid, err := fx.Convert(ed.Accrual.Overpayment, ed.Debt.Currency, displayCurrency, rates)
		if err != nil {
			return nil, fmt.Errorf("debt %s: %w", ed.Debt.ID, err)
		}

		summary.DebtCount++
		summary.TotalPrincipal = summary.TotalPrincipal.Add(principal)
		summary.TotalInterestAccrued = summary.TotalInterestAccrued.Add(interest)
		summary.TotalRepaid = summary.TotalRepaid.Add(repaid)
		summary.TotalOutstanding = summary.TotalOutstanding.Add(remaining)
		summary.TotalOverpayment = summary.TotalOverpayment.Add(overpaid)

		switch ed.Accrual.EffectiveStatus {
		case models.DebtStatusActive:
			summary.ActiveCount++
		case models.DebtStatusOverdue:
			summary.OverdueCount++
		}

		section := summary.Sections[sectionFor(ed.Accrual.EffectiveStatus)]
		section.Count++
		section.Principal = section.Principal.Add(principal)
		section.Remaining = section.Remaining.Add(remaining)
	}

	return summary, nil
}

// ExportRows renders a summary as plain label/value rows for tabular
// export.
func ExportRows(summary *models.FinancialSummary) []models.ExportRow {
	cur := summary.DisplayCurrency
	rows := []models.ExportRow{
		{Label: "Total Principal", Value: fx.FormatMoney(summary.TotalPrincipal, cur)},
		{Label: "Total Interest Accrued", Value: fx.FormatMoney(summary.TotalInterestAccrued, cur)},
		{Label: "Total Repaid", Value: fx.FormatMoney(summary.TotalRepaid, cur)},
		{Label: "Total Outstanding", Value: fx.FormatMoney(summary.TotalOutstanding, cur)},
	}
	if summary.TotalOverpayment.IsPositive() {
		rows = append(rows, models.ExportRow{
			Label: "Total Overpayment",
			Value: fx.FormatMoney(summary.TotalOverpayment, cur),
		})
	}
	for _, status := range []models.DebtStatus{models.DebtStatusActive, models.DebtStatusPartiallyPaid, models.DebtStatusFullyPaid} {
		section := summary.Sections[status]
		rows = append(rows, models.ExportRow{
			Label: fmt.Sprintf("%s (%d)", sectionLabel(status), section.Count),
			Value: fx.FormatMoney(section.Remaining, cur),
		})
	}
	return rows
}

func newSection(status models.DebtStatus) *models.DebtSection {
	return &models.DebtSection{
		Status:    status,
		Principal: decimal.Zero,
		Remaining: decimal.Zero,
	}
}

// sectionFor maps an effective status to its display section. Overdue
// debts are still outstanding, so they sit with the active section.
func sectionFor(status models.DebtStatus) models.DebtStatus {
	if status == models.DebtStatusOverdue {
		return models.DebtStatusActive
	}
	return status
}

func sectionLabel(status models.DebtStatus) string {
	switch status {
	case models.DebtStatusActive:
		return "Active"
	case models.DebtStatusPartiallyPaid:
		return "Partially Paid"
	case models.DebtStatusFullyPaid:
		return "Fully Paid"
	case models.DebtStatusOverdue:
		return "Overdue"
	default:
		return string(status)
	}
}
