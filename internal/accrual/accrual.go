// Package accrual computes simple-interest accrual and outstanding balances
// for lent money. All functions are pure: the as-of date is the only notion
// of "now", so identical inputs always produce identical results.
package accrual

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/tally/internal/models"
)

var (
	hundred    = decimal.NewFromInt(100)
	daysInYear = decimal.NewFromInt(365)
)

// Input carries everything needed to evaluate one debt at one date.
type Input struct {
	Principal      decimal.Decimal
	AnnualRatePct  decimal.Decimal
	LentDate       time.Time
	DueDate        *time.Time
	Repayments     []models.Repayment
	AsOf           time.Time
	RecordedStatus models.DebtStatus
}

// ForDebt builds an Input from a debt record.
func ForDebt(d *models.Debt, asOf time.Time) Input {
	return Input{
		Principal:      d.Principal,
		AnnualRatePct:  d.InterestRate,
		LentDate:       d.LentDate,
		DueDate:        d.DueDate,
		Repayments:     d.Repayments,
		AsOf:           asOf,
		RecordedStatus: d.RecordedStatus,
	}
}

// Compute evaluates a debt at the as-of date.
//
// Interest is simple (non-compounding) at ACT/365 on the outstanding
// principal. Repayments are applied in date order (stable on ties) and
// allocated interest-first: each repayment cancels interest accrued up to
// its own date before reducing principal, and interest for the following
// segment accrues on the reduced principal. Repayments dated after the
// as-of date have not happened yet at that evaluation and are ignored.
//
// A repayment larger than what is owed at its date is accepted, since
// historical data may contain overpayments; the excess surfaces in
// AccrualResult.Overpayment. The remaining amount never goes negative.
func Compute(in Input) (models.AccrualResult, error) {
	if in.Principal.IsNegative() || in.Principal.IsZero() {
		return models.AccrualResult{}, fmt.Errorf("%w: principal must be positive, got %s", models.ErrInvalidLoanTerms, in.Principal)
	}
	if in.AnnualRatePct.IsNegative() {
		return models.AccrualResult{}, fmt.Errorf("%w: rate must not be negative, got %s", models.ErrInvalidLoanTerms, in.AnnualRatePct)
	}
	if in.LentDate.IsZero() || in.AsOf.IsZero() {
		return models.AccrualResult{}, fmt.Errorf("%w: lent date and as-of date are required", models.ErrInvalidLoanTerms)
	}
	for _, r := range in.Repayments {
		if !r.Amount.IsPositive() {
			return models.AccrualResult{}, fmt.Errorf("%w: repayment amount must be positive, got %s", models.ErrInvalidLoanTerms, r.Amount)
		}
	}

	// A recorded fully-paid status is terminal: the debt does not
	// re-accrue, whatever the ledger would otherwise compute.
	if in.RecordedStatus == models.DebtStatusFullyPaid {
		return models.AccrualResult{
			InterestAccrued:     decimal.Zero,
			InterestOutstanding: decimal.Zero,
			RemainingAmount:     decimal.Zero,
			Overpayment:         decimal.Zero,
			EffectiveStatus:     models.DebtStatusFullyPaid,
		}, nil
	}

	// The debt does not exist yet at the evaluation date.
	if dayOf(in.AsOf).Before(dayOf(in.LentDate)) {
		return models.AccrualResult{
			InterestAccrued:     decimal.Zero,
			InterestOutstanding: decimal.Zero,
			RemainingAmount:     in.Principal,
			Overpayment:         decimal.Zero,
			EffectiveStatus:     ResolveStatus(in.Principal, in.DueDate, in.AsOf, len(in.Repayments) > 0),
		}, nil
	}

	repayments := make([]models.Repayment, len(in.Repayments))
	copy(repayments, in.Repayments)
	sort.SliceStable(repayments, func(i, j int) bool {
		return dayOf(repayments[i].Date).Before(dayOf(repayments[j].Date))
	})

	principal := in.Principal
	accrued := decimal.Zero     // gross interest over the whole timeline
	outstanding := decimal.Zero // accrued interest not yet repaid
	overpayment := decimal.Zero
	cursor := dayOf(in.LentDate)
	asOf := dayOf(in.AsOf)

	for _, rep := range repayments {
		date := dayOf(rep.Date)
		if date.After(asOf) {
			break
		}
		if date.After(cursor) {
			segment := interestFor(principal, in.AnnualRatePct, daysBetween(cursor, date))
			accrued = accrued.Add(segment)
			outstanding = outstanding.Add(segment)
			cursor = date
		}

		// Interest-first allocation.
		pay := rep.Amount
		paidInterest := decimal.Min(pay, outstanding)
		outstanding = outstanding.Sub(paidInterest)
		pay = pay.Sub(paidInterest)

		paidPrincipal := decimal.Min(pay, principal)
		principal = principal.Sub(paidPrincipal)
		overpayment = overpayment.Add(pay.Sub(paidPrincipal))
	}

	if asOf.After(cursor) {
		segment := interestFor(principal, in.AnnualRatePct, daysBetween(cursor, asOf))
		accrued = accrued.Add(segment)
		outstanding = outstanding.Add(segment)
	}

	remaining := decimal.Max(decimal.Zero, principal.Add(outstanding))

	return models.AccrualResult{
		InterestAccrued:     accrued,
		InterestOutstanding: outstanding,
		RemainingAmount:     remaining,
		Overpayment:         overpayment,
		EffectiveStatus:     ResolveStatus(remaining, in.DueDate, in.AsOf, len(in.Repayments) > 0),
	}, nil
}

// ResolveStatus derives the lifecycle status from a computed remaining
// balance, independent of any status stored on the record. Callers that
// already hold an AccrualResult reuse its EffectiveStatus rather than
// re-running the accrual.
func ResolveStatus(remaining decimal.Decimal, dueDate *time.Time, asOf time.Time, hasRepayments bool) models.DebtStatus {
	switch {
	case remaining.IsZero():
		return models.DebtStatusFullyPaid
	case dueDate != nil && dayOf(asOf).After(dayOf(*dueDate)):
		return models.DebtStatusOverdue
	case hasRepayments:
		return models.DebtStatusPartiallyPaid
	default:
		return models.DebtStatusActive
	}
}

// interestFor is simple interest on principal for the given day count:
// principal * rate/100 * days/365.
func interestFor(principal, ratePct decimal.Decimal, days int64) decimal.Decimal {
	if days <= 0 || ratePct.IsZero() || principal.IsZero() {
		return decimal.Zero
	}
	return principal.
		Mul(ratePct).Div(hundred).
		Mul(decimal.NewFromInt(days)).Div(daysInYear)
}

// dayOf truncates a timestamp to its calendar date in UTC. Accrual is
// date-granular; time-of-day never affects the day count.
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int64 {
	return int64(to.Sub(from) / (24 * time.Hour))
}
