package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type BillStatus string

const (
	BillNotGenerated   BillStatus = "NOT_GENERATED"
	BillPendingPayment BillStatus = "PENDING_PAYMENT"
	BillPaid           BillStatus = "PAID"
)

type Bill struct {
	ID            int             `json:"id"`
	TableID       int             `json:"table_id"`
	TableNumber   string          `json:"table_number,omitempty"`
	OrderID       int             `json:"order_id"`
	CashierID     *int            `json:"cashier_id,omitempty"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxPercentage decimal.Decimal `json:"tax_percentage"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	Total         decimal.Decimal `json:"total_amount"`
	Status        BillStatus      `json:"status"`
	GeneratedAt   time.Time       `json:"generated_at"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
}

// DefaultTaxPercentage applies when a bill is generated without an explicit
// rate.
var DefaultTaxPercentage = decimal.New(500, -2) // 5.00

var ErrTaxOutOfRange = errors.New("tax percentage must be between 0 and 100")

var oneHundred = decimal.NewFromInt(100)

// ComputeBillTotals derives tax and total from a subtotal at the given
// percentage. Money is rounded to two decimal places at the tax step only;
// the subtotal is already a sum of 2-dp prices.
func ComputeBillTotals(subtotal, taxPercentage decimal.Decimal) (tax, total decimal.Decimal, err error) {
	if taxPercentage.IsNegative() || taxPercentage.GreaterThan(oneHundred) {
		return decimal.Zero, decimal.Zero, ErrTaxOutOfRange
	}
	tax = subtotal.Mul(taxPercentage).Div(oneHundred).Round(2)
	total = subtotal.Add(tax)
	return tax, total, nil
}

// MarkPaid settles the bill. Returns false when it was already paid, in
// which case nothing changes.
func (b *Bill) MarkPaid(cashierID int, now time.Time) bool {
	if b.Status == BillPaid {
		return false
	}
	b.Status = BillPaid
	b.PaidAt = &now
	b.CashierID = &cashierID
	return true
}
