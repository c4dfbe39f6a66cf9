// Package models defines data structures for Tally
package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DebtStatus is the lifecycle state of a lent amount.
type DebtStatus string

const (
	DebtStatusActive        DebtStatus = "active"
	DebtStatusPartiallyPaid DebtStatus = "partially_paid"
	DebtStatusFullyPaid     DebtStatus = "fully_paid"
	DebtStatusOverdue       DebtStatus = "overdue"
)

// validDebtStatuses lists all accepted debt statuses.
var validDebtStatuses = map[DebtStatus]bool{
	DebtStatusActive:        true,
	DebtStatusPartiallyPaid: true,
	DebtStatusFullyPaid:     true,
	DebtStatusOverdue:       true,
}

// ValidDebtStatus returns true if s is a valid debt status.
func ValidDebtStatus(s DebtStatus) bool {
	return validDebtStatuses[s]
}

// Debt represents money lent out: the immutable loan terms plus the
// mutable repayment ledger. RecordedStatus is advisory only: the engine
// recomputes the effective status on every evaluation and the two may
// disagree transiently after a mutation.
type Debt struct {
	ID             string          `json:"id"`
	BorrowerName   string          `json:"borrower_name"`
	Principal      decimal.Decimal `json:"principal"`
	InterestRate   decimal.Decimal `json:"interest_rate"` // percent per annum, simple interest
	LentDate       time.Time       `json:"lent_date"`
	DueDate        *time.Time      `json:"due_date,omitempty"`
	Currency       string          `json:"currency"`
	Repayments     []Repayment     `json:"repayments,omitempty"`
	RecordedStatus DebtStatus      `json:"recorded_status"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Repayment is a partial repayment against a debt. AccountID references
// the account the repayment was credited to; the repayment does not own
// the account.
type Repayment struct {
	ID        string          `json:"id"`
	DebtID    string          `json:"debt_id"`
	Amount    decimal.Decimal `json:"amount"`
	Date      time.Time       `json:"date"`
	Notes     string          `json:"notes,omitempty"`
	AccountID string          `json:"account_id,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// TotalRepaid returns the sum of all repayment amounts in the debt's own
// currency, regardless of repayment dates.
func (d *Debt) TotalRepaid() decimal.Decimal {
	total := decimal.Zero
	for _, r := range d.Repayments {
		total = total.Add(r.Amount)
	}
	return total
}

// Validate checks the loan terms. Violations are rejected before any
// accrual math runs.
func (d *Debt) Validate() error {
	if !d.Principal.IsPositive() {
		return fmt.Errorf("%w: principal must be positive, got %s", ErrInvalidLoanTerms, d.Principal)
	}
	if d.InterestRate.IsNegative() {
		return fmt.Errorf("%w: interest rate must not be negative, got %s", ErrInvalidLoanTerms, d.InterestRate)
	}
	if d.LentDate.IsZero() {
		return fmt.Errorf("%w: lent date is required", ErrInvalidLoanTerms)
	}
	if d.DueDate != nil && d.DueDate.Before(d.LentDate) {
		return fmt.Errorf("%w: due date %s precedes lent date %s",
			ErrInvalidLoanTerms, d.DueDate.Format("2006-01-02"), d.LentDate.Format("2006-01-02"))
	}
	if d.Currency == "" {
		return fmt.Errorf("%w: currency is required", ErrInvalidLoanTerms)
	}
	if d.RecordedStatus != "" && !ValidDebtStatus(d.RecordedStatus) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidLoanTerms, d.RecordedStatus)
	}
	for _, r := range d.Repayments {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks a single repayment.
func (r *Repayment) Validate() error {
	if !r.Amount.IsPositive() {
		return fmt.Errorf("%w: repayment amount must be positive, got %s", ErrInvalidLoanTerms, r.Amount)
	}
	if r.Date.IsZero() {
		return fmt.Errorf("%w: repayment date is required", ErrInvalidLoanTerms)
	}
	return nil
}

// AccrualResult is the computed state of a debt at an as-of date. It is
// derived fresh on every evaluation and never persisted or cached across
// as-of changes.
type AccrualResult struct {
	// InterestAccrued is the gross simple interest accumulated from the
	// lent date to the as-of date, across all repayment segments.
	InterestAccrued decimal.Decimal `json:"interest_accrued"`
	// InterestOutstanding is the accrued interest still unpaid after
	// interest-first repayment allocation.
	InterestOutstanding decimal.Decimal `json:"interest_outstanding"`
	// RemainingAmount is outstanding principal plus outstanding interest,
	// floored at zero.
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	// Overpayment is the total repaid in excess of what was owed at the
	// time of each repayment. Reported as a visible anomaly, never as
	// negative debt.
	Overpayment decimal.Decimal `json:"overpayment"`
	// EffectiveStatus is the recomputed lifecycle status.
	EffectiveStatus DebtStatus `json:"effective_status"`
}

// EvaluatedDebt pairs a debt record with its accrual result for one
// as-of date.
type EvaluatedDebt struct {
	Debt    Debt          `json:"debt"`
	Accrual AccrualResult `json:"accrual"`
}
