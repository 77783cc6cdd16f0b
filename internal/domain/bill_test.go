package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestComputeBillTotals(t *testing.T) {
	cases := []struct {
		name      string
		subtotal  string
		taxPct    string
		wantTax   string
		wantTotal string
		wantErr   error
	}{
		{name: "default five percent", subtotal: "31.96", taxPct: "5.00", wantTax: "1.60", wantTotal: "33.56"},
		{name: "zero subtotal", subtotal: "0", taxPct: "5.00", wantTax: "0.00", wantTotal: "0.00"},
		{name: "zero tax", subtotal: "50.00", taxPct: "0", wantTax: "0.00", wantTotal: "50.00"},
		{name: "rounding up", subtotal: "10.10", taxPct: "7.25", wantTax: "0.73", wantTotal: "10.83"},
		{name: "full hundred", subtotal: "12.00", taxPct: "100", wantTax: "12.00", wantTotal: "24.00"},
		{name: "negative tax", subtotal: "10.00", taxPct: "-1", wantErr: ErrTaxOutOfRange},
		{name: "above hundred", subtotal: "10.00", taxPct: "100.01", wantErr: ErrTaxOutOfRange},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tax, total, err := ComputeBillTotals(
				decimal.RequireFromString(tc.subtotal),
				decimal.RequireFromString(tc.taxPct),
			)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("ComputeBillTotals() error = %v, want %v", err, tc.wantErr)
			}
			if tc.wantErr != nil {
				return
			}
			if !tax.Equal(decimal.RequireFromString(tc.wantTax)) {
				t.Errorf("tax = %s, want %s", tax, tc.wantTax)
			}
			if !total.Equal(decimal.RequireFromString(tc.wantTotal)) {
				t.Errorf("total = %s, want %s", total, tc.wantTotal)
			}
		})
	}
}

func TestMarkPaid(t *testing.T) {
	now := time.Date(2025, 6, 1, 20, 30, 0, 0, time.UTC)

	b := Bill{Status: BillPendingPayment}
	if !b.MarkPaid(7, now) {
		t.Fatal("expected pending bill to be payable")
	}
	if b.Status != BillPaid {
		t.Errorf("status = %s, want PAID", b.Status)
	}
	if b.PaidAt == nil || !b.PaidAt.Equal(now) {
		t.Errorf("paid_at = %v, want %v", b.PaidAt, now)
	}
	if b.CashierID == nil || *b.CashierID != 7 {
		t.Errorf("cashier_id = %v, want 7", b.CashierID)
	}

	// paying again is a no-op: nothing may change
	later := now.Add(time.Hour)
	if b.MarkPaid(9, later) {
		t.Fatal("paying a paid bill must report no-op")
	}
	if !b.PaidAt.Equal(now) || *b.CashierID != 7 {
		t.Error("paid bill fields changed on repeat payment")
	}
}
