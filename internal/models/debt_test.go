package models

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func validDebt() Debt {
	return Debt{
		ID:             "debt:a",
		BorrowerName:   "Alice",
		Principal:      decimal.NewFromInt(1000),
		InterestRate:   decimal.NewFromInt(10),
		LentDate:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Currency:       "USD",
		RecordedStatus: DebtStatusActive,
	}
}

func TestDebtValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Debt)
		wantErr bool
	}{
		{"valid", func(d *Debt) {}, false},
		{"zero rate allowed", func(d *Debt) { d.InterestRate = decimal.Zero }, false},
		{"no recorded status allowed", func(d *Debt) { d.RecordedStatus = "" }, false},
		{"zero principal", func(d *Debt) { d.Principal = decimal.Zero }, true},
		{"negative principal", func(d *Debt) { d.Principal = decimal.NewFromInt(-1) }, true},
		{"negative rate", func(d *Debt) { d.InterestRate = decimal.NewFromInt(-1) }, true},
		{"missing lent date", func(d *Debt) { d.LentDate = time.Time{} }, true},
		{"missing currency", func(d *Debt) { d.Currency = "" }, true},
		{"unknown status", func(d *Debt) { d.RecordedStatus = "written_off" }, true},
		{
			"due before lent",
			func(d *Debt) {
				due := d.LentDate.AddDate(0, 0, -1)
				d.DueDate = &due
			},
			true,
		},
		{
			"bad repayment",
			func(d *Debt) {
				d.Repayments = []Repayment{{ID: "r1", Amount: decimal.Zero, Date: d.LentDate}}
			},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDebt()
			tt.mutate(&d)
			err := d.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidLoanTerms) {
					t.Errorf("Validate = %v, want ErrInvalidLoanTerms", err)
				}
			} else if err != nil {
				t.Errorf("Validate = %v, want nil", err)
			}
		})
	}
}

func TestRepaymentValidate(t *testing.T) {
	rep := Repayment{ID: "r1", Amount: decimal.NewFromInt(100), Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)}
	if err := rep.Validate(); err != nil {
		t.Errorf("Validate = %v, want nil", err)
	}

	rep.Date = time.Time{}
	if err := rep.Validate(); !errors.Is(err, ErrInvalidLoanTerms) {
		t.Errorf("Validate = %v, want ErrInvalidLoanTerms for missing date", err)
	}
}

func TestTotalRepaid(t *testing.T) {
	d := validDebt()
	if !d.TotalRepaid().IsZero() {
		t.Errorf("TotalRepaid = %s, want 0", d.TotalRepaid())
	}

	d.Repayments = []Repayment{
		{ID: "r1", Amount: decimal.NewFromInt(100), Date: d.LentDate},
		{ID: "r2", Amount: decimal.RequireFromString("50.25"), Date: d.LentDate},
	}
	if got := d.TotalRepaid(); !got.Equal(decimal.RequireFromString("150.25")) {
		t.Errorf("TotalRepaid = %s, want 150.25", got)
	}
}

func TestValidDebtStatus(t *testing.T) {
	for _, s := range []DebtStatus{DebtStatusActive, DebtStatusPartiallyPaid, DebtStatusFullyPaid, DebtStatusOverdue} {
		if !ValidDebtStatus(s) {
			t.Errorf("ValidDebtStatus(%s) = false, want true", s)
		}
	}
	if ValidDebtStatus("written_off") {
		t.Error("ValidDebtStatus(written_off) = true, want false")
	}
}
